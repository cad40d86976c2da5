// Package engine implements the control-flow state machine spec §4.5
// describes: a pure `(State, Event) -> (State, []Action)` function, kept
// free of any I/O so it can be driven and tested without a real transport.
// Run (in driver.go) is the part that actually executes actions against a
// transport.Transport — one goroutine per session, blocking calls standing
// in for the completion callbacks the original design names, per the
// architectural note in the transport package's doc comment.
package engine

import (
	"errors"

	"github.com/kestrelhttp/kestrel/session"
)

// ErrMalformedHeaderLine is the synthetic read error the driver attaches
// when a physical line fails header-parser Absorb — spec §4.1's "caller
// treats absence of progress as a client error", resolved here the same
// way an invalid request line is: a 400 reply rather than a silent close.
var ErrMalformedHeaderLine = errors.New("engine: malformed header line")

// Role distinguishes the server and client transition tables, which mirror
// each other with Status in place of Request (spec §4.5).
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

// EventKind is one of the three inputs the state machine reacts to.
type EventKind int

const (
	// EventStart begins a session: processor.start for the server role, or
	// popping and serializing the head of the request queue for the client
	// role.
	EventStart EventKind = iota
	// EventReadCompleted reports that an outstanding ReadLine or
	// ReadRemainingContent action finished, successfully or not.
	EventReadCompleted
	// EventWriteCompleted reports that an outstanding Send action finished,
	// successfully or not.
	EventWriteCompleted
)

// Event is one input to Step.
type Event struct {
	Kind EventKind
	Err  error
}

// Action is one instruction the driver executes against a transport.
type Action int

const (
	// ActionRecycle releases I/O resources and marks the session free (or
	// signals the listener to destroy it).
	ActionRecycle Action = iota
	// ActionReadLine issues a read-until-CRLF.
	ActionReadLine
	// ActionReadRemainingContent issues a read-at-least-remainingBytes.
	ActionReadRemainingContent
	// ActionSend issues a write of the outbound queue's head buffer.
	ActionSend
	// ActionRestart re-arms a recycled session for its next message without
	// reconstructing the processor — spec's Start(false), used by a
	// connection pool handing a freed session to a new caller. Step never
	// emits this itself; Run executes it by feeding Step an EventStart.
	ActionRestart
)

func (a Action) String() string {
	switch a {
	case ActionRecycle:
		return "Recycle"
	case ActionReadLine:
		return "ReadLine"
	case ActionReadRemainingContent:
		return "ReadRemainingContent"
	case ActionSend:
		return "Send"
	case ActionRestart:
		return "Restart(false)"
	default:
		return "Unknown"
	}
}

// Processor supplies the role-specific behavior the state machine
// delegates to: servlet dispatch for the server role, request-queue
// advancement for the client role. Implementations may mutate s (enqueue
// replies, set headers) but must not perform I/O directly — that stays the
// driver's job.
type Processor interface {
	Role() Role

	// Start begins the very first message on a freshly connected session:
	// for the server role this typically does nothing but exists for
	// symmetry; for the client role it pops the head of the request queue,
	// serializes it, and enqueues the bytes for send.
	Start(s *session.Session)

	// AfterHeaders runs once the inbound header block is complete. It may
	// enqueue an interim or error reply (100-continue, 411, 413, 417) and
	// returns the phase the state machine should move to next:
	// session.PhaseContent to read a body (remainingBytes may be 0), or
	// session.PhaseError if it already enqueued a terminal error reply.
	AfterHeaders(s *session.Session) session.Phase

	// Handle runs once a complete request (server) or response (client)
	// is available. For the server role it dispatches to a servlet and is
	// expected to always leave a reply enqueued (the dispatch fallback is
	// 404). For the client role it invokes the registered callback.
	Handle(s *session.Session)

	// AfterProcessing returns the next phase after Handle. For the client
	// role it runs after every Handle: PhaseStatus means "send the next
	// queued request", anything else ends the session. For the server role
	// it runs only when Handle left queries() unchanged (no reply enqueued).
	AfterProcessing(s *session.Session) session.Phase
}

// Step advances s by one (state, event) pair and returns the actions the
// driver must execute, in order. Step never performs I/O and never blocks.
func Step(s *session.Session, ev Event, proc Processor) []Action {
	switch ev.Kind {
	case EventStart:
		return stepStart(s, proc)
	case EventReadCompleted:
		return stepReadCompleted(s, ev, proc)
	case EventWriteCompleted:
		return stepWriteCompleted(s, ev)
	default:
		return nil
	}
}

func stepStart(s *session.Session, proc Processor) []Action {
	if proc.Role() == RoleServer {
		s.Phase = session.PhaseRequest
		proc.Start(s)
		return []Action{ActionReadLine}
	}
	s.Phase = session.PhaseStatus
	proc.Start(s)
	return []Action{ActionSend, ActionReadLine}
}

func stepReadCompleted(s *session.Session, ev Event, proc Processor) []Action {
	if ev.Err == ErrMalformedHeaderLine {
		s.Phase = session.PhaseError
		if proc.Role() == RoleServer {
			s.GenerateError(400, nil)
			return []Action{ActionSend, ActionRecycle}
		}
		return []Action{ActionRecycle}
	}
	if ev.Err != nil {
		s.Phase = session.PhaseError
		return []Action{ActionRecycle}
	}

	switch s.Phase {
	case session.PhaseRequest:
		if !s.InboundRequest.Valid() {
			s.Phase = session.PhaseError
			s.GenerateError(400, nil)
			return []Action{ActionSend, ActionRecycle}
		}
		s.BeginMessage()
		s.Phase = session.PhaseHeader
		return []Action{ActionReadLine}

	case session.PhaseStatus:
		if !s.InboundStatus.Valid() {
			s.Phase = session.PhaseError
			return []Action{ActionRecycle}
		}
		s.BeginMessage()
		s.Phase = session.PhaseHeader
		return []Action{ActionReadLine}

	case session.PhaseHeader:
		if !s.InboundHeaders.Complete() {
			return []Action{ActionReadLine}
		}
		next := proc.AfterHeaders(s)
		if next == session.PhaseError {
			s.Phase = session.PhaseError
			var actions []Action
			if s.OutboundPending() {
				actions = append(actions, ActionSend)
			}
			actions = append(actions, ActionRecycle)
			return actions
		}
		s.Phase = session.PhaseContent
		var actions []Action
		if s.OutboundPending() {
			// an interim reply (100-continue) was enqueued by AfterHeaders
			actions = append(actions, ActionSend)
		}
		if s.RemainingBytes() == 0 {
			actions = append(actions, stepProcessing(s, proc)...)
			return actions
		}
		return append(actions, ActionReadRemainingContent)

	case session.PhaseContent:
		if s.RemainingBytes() > 0 {
			return []Action{ActionReadRemainingContent}
		}
		return stepProcessing(s, proc)

	default:
		return nil
	}
}

// stepProcessing runs the Processing state's synchronous work: dispatch the
// completed message and decide the next phase.
func stepProcessing(s *session.Session, proc Processor) []Action {
	s.Phase = session.PhaseProcessing
	before := s.Queries()
	proc.Handle(s)

	if proc.Role() == RoleClient {
		// AfterProcessing doubles as the client pipeline-advance hook: a
		// client with another request still queued returns PhaseStatus to
		// mean "go again" (spec §8 scenario 7, "client pipeline") rather
		// than the single-exchange Shutdown spec §4.5's simplified
		// transition-table row shows; any other phase means the queue is
		// drained and this connection is done.
		if next := proc.AfterProcessing(s); next == session.PhaseStatus {
			s.Phase = session.PhaseStatus
			proc.Start(s)
			return []Action{ActionSend, ActionReadLine}
		}
		s.Phase = session.PhaseShutdown
		return []Action{ActionRecycle}
	}

	if s.Queries() > before {
		s.Phase = session.PhaseRequest
		return []Action{ActionSend, ActionReadLine}
	}

	next := proc.AfterProcessing(s)
	s.Phase = next
	if next == session.PhaseShutdown {
		return []Action{ActionRecycle}
	}
	return []Action{ActionReadLine}
}

func stepWriteCompleted(s *session.Session, ev Event) []Action {
	if ev.Err != nil {
		s.Phase = session.PhaseShutdown
		return []Action{ActionRecycle}
	}
	s.DequeueOutbound()
	if s.OutboundPending() {
		return []Action{ActionSend}
	}
	if s.CloseAfterSend {
		s.Phase = session.PhaseShutdown
		return []Action{ActionRecycle}
	}
	return nil
}
