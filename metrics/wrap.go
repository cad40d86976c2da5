package metrics

import (
	"github.com/kestrelhttp/kestrel/engine"
	"github.com/kestrelhttp/kestrel/session"
)

// instrumented decorates an engine.Processor, observing the delta in a
// session's counters around every Handle call — the same wrap-a-handler
// idiom the teacher's middleware chain uses (MiraiMindz-watt
// bolt/core/app.go Use/middleware), adapted here from HTTP middleware to
// wrapping the processor the state machine drives.
type instrumented struct {
	engine.Processor
	collectors *Collectors
}

// Wrap returns proc decorated so every Handle call reports its counter
// deltas to collectors.
func Wrap(proc engine.Processor, collectors *Collectors) engine.Processor {
	return &instrumented{Processor: proc, collectors: collectors}
}

func (i *instrumented) Handle(s *session.Session) {
	beforeReq, beforeRep, beforeErr := s.Requests, s.Replies, s.Errors
	i.Processor.Handle(s)
	i.collectors.Observe(s.Requests-beforeReq, s.Replies-beforeRep, s.Errors-beforeErr)
}
