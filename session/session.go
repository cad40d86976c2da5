// Package session holds the per-connection state the spec calls
// sessionData: parse state, the in-flight request or response, buffered
// content, the outbound write queue, counters, and negotiated headers. It
// is pure data plus the small utility operations spec §4.4 lists; the
// control-flow state machine in package engine is what drives a Session
// through its phases.
package session

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/kestrelhttp/kestrel/accesslog"
	"github.com/kestrelhttp/kestrel/header"
	"github.com/kestrelhttp/kestrel/line"
	"github.com/kestrelhttp/kestrel/negotiate"
	"github.com/kestrelhttp/kestrel/reply"
	"github.com/kestrelhttp/kestrel/transport"
)

// Phase is one of the seven control-flow states named in spec §3/§4.5.
type Phase int

const (
	PhaseRequest Phase = iota
	PhaseStatus
	PhaseHeader
	PhaseContent
	PhaseProcessing
	PhaseError
	PhaseShutdown
)

func (p Phase) String() string {
	switch p {
	case PhaseRequest:
		return "Request"
	case PhaseStatus:
		return "Status"
	case PhaseHeader:
		return "Header"
	case PhaseContent:
		return "Content"
	case PhaseProcessing:
		return "Processing"
	case PhaseError:
		return "Error"
	case PhaseShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// Negotiation is one content-negotiation offer a servlet registers: the
// client request header to consult (e.g. "Accept"), the server's weighted
// offers, and — for distinguished mappings like Accept -> Content-Type —
// the outbound header the chosen value is copied into.
type Negotiation struct {
	ClientHeader string
	ServerHeader string // "" if this negotiation has no distinguished outbound copy
	Offers       []negotiate.Offer
}

// Session is the per-connection record described in spec §3.
type Session struct {
	ID string // correlation id for access logs, not part of the wire protocol

	Phase Phase

	InboundRequest line.RequestLine
	InboundStatus  line.StatusLine
	InboundHeaders *header.Parser

	Content       []byte
	ContentLength int

	Outbound   *header.Map
	Negotiated map[string]string

	outboundQueue  [][]byte
	WritePending   bool
	CloseAfterSend bool

	Requests int
	Replies  int
	Errors   int

	Free bool

	Transport transport.Transport
}

// New returns a freshly constructed Session bound to t. The listener
// constructs one per accepted connection, and a client caller constructs
// its own around a dialed transport (spec §9: "re-architect as
// explicit processor instances... tests construct processors in
// isolation"); there is no global registry here either.
func New(t transport.Transport) *Session {
	s := &Session{ID: uuid.NewString(), Transport: t}
	s.resetMessage()
	return s
}

// resetMessage clears per-message state while keeping counters, ID, and
// Transport — used both by New and when recycling a session for its next
// request (spec: "released... or marked free for pool reuse").
func (s *Session) resetMessage() {
	s.InboundRequest = line.RequestLine{}
	s.InboundStatus = line.StatusLine{}
	s.InboundHeaders = header.NewParser()
	s.Content = nil
	s.ContentLength = 0
	s.Outbound = header.New()
	s.Negotiated = make(map[string]string)
}

// Recycle resets a session's per-message state for reuse by a connection
// pool and marks it Free. It does not touch the Transport or counters.
func (s *Session) Recycle() {
	s.resetMessage()
	s.outboundQueue = nil
	s.Phase = PhaseRequest
	s.WritePending = false
	s.CloseAfterSend = false
	s.Free = true
}

// Claim marks a recycled session back in use.
func (s *Session) Claim() {
	s.Free = false
}

// BeginMessage resets the state scoped to one message exchange — inbound
// headers, buffered content, outbound headers, and negotiated values —
// without touching InboundRequest/InboundStatus (the caller is mid-parse of
// those) or the connection-lifetime fields (ID, Transport, counters). The
// state machine calls this once a request or status line validates, so a
// keep-alive connection starts each new message with a clean outbound
// header set instead of carrying over the previous reply's headers.
func (s *Session) BeginMessage() {
	s.InboundHeaders = header.NewParser()
	s.Content = nil
	s.ContentLength = 0
	s.Outbound = header.New()
	s.Negotiated = make(map[string]string)
}

// Queries reports requests + replies, used to detect whether a handler sent
// a reply during dispatch (spec §4.4).
func (s *Session) Queries() int {
	return s.Requests + s.Replies
}

// RemainingBytes returns contentLength - len(content), saturating at 0.
func (s *Session) RemainingBytes() int {
	r := s.ContentLength - len(s.Content)
	if r < 0 {
		return 0
	}
	return r
}

// AppendContent appends p to the buffered body.
func (s *Session) AppendContent(p []byte) {
	s.Content = append(s.Content, p...)
}

// Enqueue pushes a fully-serialized outbound buffer onto the FIFO write
// queue.
func (s *Session) Enqueue(buf []byte) {
	s.outboundQueue = append(s.outboundQueue, buf)
}

// PeekOutbound returns the head of the outbound queue without removing it,
// and whether the queue is non-empty.
func (s *Session) PeekOutbound() ([]byte, bool) {
	if len(s.outboundQueue) == 0 {
		return nil, false
	}
	return s.outboundQueue[0], true
}

// DequeueOutbound removes and discards the head of the outbound queue,
// called once its write has completed.
func (s *Session) DequeueOutbound() {
	if len(s.outboundQueue) == 0 {
		return
	}
	s.outboundQueue = s.outboundQueue[1:]
}

// OutboundPending reports whether any serialized buffer is still queued.
func (s *Session) OutboundPending() bool {
	return len(s.outboundQueue) > 0
}

// Negotiate runs content negotiation for each entry in negs against the
// inbound request's headers, recording the chosen value in s.Negotiated,
// appending the negotiated-on header name to the outbound Vary field, and
// — for entries with a ServerHeader set — copying the chosen value into
// that outbound header. It returns false if any offer list produced no
// acceptable match, in which case the caller replies 406 (spec §4.6).
func (s *Session) Negotiate(negs []Negotiation) bool {
	ok := true
	for _, n := range negs {
		clientValue, _ := s.InboundHeaders.Headers().Get(n.ClientHeader)
		chosen, matched := negotiate.Negotiate(clientValue, n.Offers)
		if !matched {
			ok = false
			continue
		}
		s.Negotiated[n.ClientHeader] = chosen
		s.Outbound.Add("Vary", n.ClientHeader)
		if n.ServerHeader != "" {
			s.Outbound.Set(n.ServerHeader, chosen)
		}
	}
	return ok
}

// Trigger405 reports whether methods contains any method outside
// {OPTIONS, TRACE} — those two never alone justify a 405, per spec §4.4.
func Trigger405(methods map[string]bool) bool {
	for m := range methods {
		if m != "OPTIONS" && m != "TRACE" {
			return true
		}
	}
	return false
}

// GenerateReply assembles a reply per spec §4.8, enqueues it on the
// outbound FIFO, and increments Replies. extra may be nil.
func (s *Session) GenerateReply(code int, body []byte, extra *header.Map) {
	wire, closeAfterSend := reply.Assemble(code, body, s.Outbound, extra)
	s.Enqueue(wire)
	if closeAfterSend {
		s.CloseAfterSend = true
	}
	s.Replies++
}

// GenerateError assembles the canonical markdown error body for code (spec
// §4.9), optionally with an Allow header, enqueues it, and increments
// Replies and Errors.
func (s *Session) GenerateError(code int, allow []string) {
	wire, closeAfterSend := reply.Error(code, allow, s.Outbound)
	s.Enqueue(wire)
	if closeAfterSend {
		s.CloseAfterSend = true
	}
	s.Replies++
	s.Errors++
}

// LogMessage renders the access-log line for a reply just generated:
// peer address, the status code sent, and the body length, plus the
// request's method/resource/protocol and the selected lower-cased request
// headers (user-agent, referer) per spec §6.
func (s *Session) LogMessage(peer string, code, length int) (string, error) {
	ua, _ := s.InboundHeaders.Headers().Get("User-Agent")
	ref, _ := s.InboundHeaders.Headers().Get("Referer")
	return accesslog.Line(accesslog.Entry{
		Bytes:     length,
		Method:    s.InboundRequest.Method,
		Peer:      peer,
		Protocol:  s.InboundRequest.Version.String(),
		Referer:   ref,
		Resource:  s.InboundRequest.Target,
		SessionID: s.ID,
		Status:    code,
		UserAgent: ua,
	})
}

// ParseContentLength parses the Content-Length header value, returning 0 for
// an absent or non-numeric value, matching spec §4.6/§4.7 ("non-numeric ->
// 0").
func ParseContentLength(headers *header.Map) int {
	v, ok := headers.Get("Content-Length")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
