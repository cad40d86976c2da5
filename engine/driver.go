package engine

import (
	"context"

	"github.com/kestrelhttp/kestrel/line"
	"github.com/kestrelhttp/kestrel/session"
)

// Run drives s to completion: one goroutine, blocking Transport calls
// standing in for the async read/write completions the state machine's
// events name. Run returns once the state machine issues ActionRecycle (the
// session is then in session.PhaseShutdown or, after a read error,
// session.PhaseError) or has no further action to execute.
// It is the only place in this module that mixes engine.Step with actual
// I/O — Step itself stays pure and is exercised directly in tests.
//
// A batch of actions returned together (e.g. Send and ReadLine issued side
// by side on a reply) models two truly concurrent operations in the
// original design. This driver executes them in order on one goroutine, but
// honors the cancellation rule spec §5 states — "Destruction, Shutdown, or
// a transport error cancels outstanding I/O" — by discarding the rest of a
// batch once any action in it drives the session to PhaseShutdown.
func Run(ctx context.Context, s *session.Session, proc Processor) {
	pending := Step(s, Event{Kind: EventStart}, proc)
	for len(pending) > 0 {
		action := pending[0]
		pending = pending[1:]

		var next []Action
		switch action {
		case ActionRecycle:
			_ = s.Transport.Shutdown()
			_ = s.Transport.Close()
			return

		case ActionReadLine:
			raw, err := s.Transport.ReadUntil(ctx, '\n')
			if err == nil {
				if lineErr := applyLine(s, raw); lineErr != nil {
					err = lineErr
				}
			}
			next = Step(s, Event{Kind: EventReadCompleted, Err: err}, proc)

		case ActionReadRemainingContent:
			need := s.RemainingBytes()
			data, err := s.Transport.ReadAtLeast(ctx, need)
			s.AppendContent(data)
			next = Step(s, Event{Kind: EventReadCompleted, Err: err}, proc)

		case ActionSend:
			buf, ok := s.PeekOutbound()
			var err error
			if ok {
				s.WritePending = true
				err = s.Transport.Write(ctx, buf)
				s.WritePending = false
			}
			next = Step(s, Event{Kind: EventWriteCompleted, Err: err}, proc)

		case ActionRestart:
			next = Step(s, Event{Kind: EventStart}, proc)
		}

		if s.Phase == session.PhaseShutdown {
			// The rest of this batch (e.g. a sibling ReadLine issued
			// alongside the Send that just triggered Shutdown) is now a
			// cancelled outstanding operation: drop it instead of running
			// it against a session already past its terminal transition.
			pending = next
			continue
		}
		pending = append(pending, next...)
	}
}

// applyLine feeds one physical line, just read off the transport, into
// whichever parse target the session's current phase names: the request
// line, the status line, or the next header field. This is deliberately
// driver-level plumbing rather than part of Step — it requires the actual
// bytes a transport produced, which a pure state-transition function never
// sees.
func applyLine(s *session.Session, raw []byte) error {
	text := string(raw)
	switch s.Phase {
	case session.PhaseRequest:
		s.InboundRequest = line.ParseRequestLine(text)
	case session.PhaseStatus:
		s.InboundStatus = line.ParseStatusLine(text)
	case session.PhaseHeader:
		if !s.InboundHeaders.Absorb(text) {
			return ErrMalformedHeaderLine
		}
	}
	return nil
}
