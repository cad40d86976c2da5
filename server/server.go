// Package server implements the server-role request processor spec §4.6
// describes: servlet dispatch, content negotiation, method policing, and
// the Expect/Content-Length policy applied after headers complete. Server
// satisfies engine.Processor so engine.Run can drive it directly.
//
// The registration idiom (a mutex-guarded set of descriptors, default
// identifying headers applied on every response) is grounded on the
// teacher's App/Router pairing (MiraiMindz-watt bolt/core/app.go,
// router.go), generalized from exact/radix path routing to the regex
// dispatch spec §4.10 requires.
package server

import (
	"sort"
	"strings"

	"github.com/kestrelhttp/kestrel/engine"
	"github.com/kestrelhttp/kestrel/header"
	"github.com/kestrelhttp/kestrel/servlet"
	"github.com/kestrelhttp/kestrel/session"
	"github.com/kestrelhttp/kestrel/uri"
)

// DefaultMaxContentLength is the 12 MiB ceiling spec §4.6 names.
const DefaultMaxContentLength = 12 << 20

// knownMethods is the method universe spec §4.6 enumerates for computing
// the Allow set on a 405.
var knownMethods = []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS", "TRACE", "CONNECT", "PATCH"}

// Server is the server-role engine.Processor.
type Server struct {
	Registry *servlet.Registry

	// Identifier is the single-line library name and version sent as the
	// Server header (spec §4.6). Handle sets it on the outbound headers when
	// a servlet matches both resource and method; replies produced before
	// that point (AfterHeaders replies, 404/501 with no candidate) omit it.
	Identifier string

	// MaxContentLength bounds an inbound body; requests declaring more are
	// rejected with 413. Zero means DefaultMaxContentLength.
	MaxContentLength int

	// OnUnhandled overrides the status code used when dispatch finishes
	// without any servlet having replied AND a resource/method match with
	// successful negotiation existed — the spec's default fallthrough
	// folds this into the same 404 path; setting OnUnhandled lets an
	// embedder reply 500 instead [ADDED, resolves the spec's recorded
	// Open Question on handler-failure-to-reply].
	OnUnhandled int
}

// New returns a Server with an empty registry and the given identifier.
func New(identifier string) *Server {
	return &Server{Registry: servlet.NewRegistry(), Identifier: identifier}
}

func (s *Server) Role() engine.Role { return engine.RoleServer }

// Start is a no-op for the server role — spec §4.5's Start(true) server row
// only calls processor.start for symmetry with the client role, which must
// pop a queued request.
func (s *Server) Start(*session.Session) {}

func (s *Server) maxContentLength() int {
	if s.MaxContentLength > 0 {
		return s.MaxContentLength
	}
	return DefaultMaxContentLength
}

// AfterHeaders applies the Expect/Content-Length policy spec §4.6.4 names,
// after rejecting any request that carries Transfer-Encoding with 411.
func (s *Server) AfterHeaders(sess *session.Session) session.Phase {
	headers := sess.InboundHeaders.Headers()
	if headers.Has("Transfer-Encoding") {
		sess.GenerateError(411, nil)
		return session.PhaseError
	}
	if expect, ok := headers.Get("Expect"); ok {
		if strings.EqualFold(strings.TrimSpace(expect), "100-continue") {
			sess.GenerateReply(100, nil, nil)
		} else {
			sess.GenerateError(417, nil)
			return session.PhaseError
		}
	}

	contentLength := session.ParseContentLength(headers)
	if contentLength > s.maxContentLength() {
		sess.GenerateError(413, nil)
		return session.PhaseError
	}
	sess.ContentLength = contentLength
	return session.PhaseContent
}

// Handle dispatches a complete request per spec §4.6: methodSupported is
// computed across every registered descriptor regardless of resource
// (spec §7, "no registered servlet matches the method for any resource"),
// while the resource-matching walk tracks which servlets matched
// resource-only and stops at the first servlet whose handler actually
// replies.
func (s *Server) Handle(sess *session.Session) {
	sess.Requests++

	target := uri.Parse(sess.InboundRequest.Target)
	method := sess.InboundRequest.Method

	methodSupported := false
	for _, d := range s.Registry.All() {
		if d.MethodMatches(method) {
			methodSupported = true
			break
		}
	}

	allowed := make(map[string]bool)
	badNegotiation := false
	unreplied := false

	for _, m := range s.Registry.Resolve(target.Path) {
		d := m.Descriptor
		if !d.MethodMatches(method) {
			for _, candidate := range knownMethods {
				if d.MethodMatches(candidate) {
					allowed[candidate] = true
				}
			}
			continue
		}

		before := sess.Queries()
		s.resetOutbound(sess)
		if !sess.Negotiate(d.Negotiation) {
			badNegotiation = true
			continue
		}
		d.Handler(sess, m.Captures)
		if sess.Queries() > before {
			return
		}
		unreplied = true
	}

	switch {
	case !methodSupported:
		sess.GenerateError(501, nil)
	case badNegotiation:
		sess.GenerateError(406, nil)
	case session.Trigger405(allowed):
		sess.GenerateError(405, sortedKeys(allowed))
	case unreplied && s.OnUnhandled != 0:
		sess.GenerateError(s.OnUnhandled, nil)
	default:
		sess.GenerateError(404, nil)
	}
}

// AfterProcessing is reached only if Handle ran without ever enqueuing a
// reply — unreachable in practice since the dispatch loop above always
// falls back to an error reply, but kept to satisfy engine.Processor and
// the spec's closed transition table.
func (s *Server) AfterProcessing(sess *session.Session) session.Phase {
	return session.PhaseRequest
}

// resetOutbound discards any headers a previous candidate servlet's failed
// negotiation left behind and re-applies the default server headers, per
// spec §4.6.2: "reset outbound to the default server headers" happens once
// per candidate, not once per request.
func (s *Server) resetOutbound(sess *session.Session) {
	sess.Outbound = header.New()
	sess.Negotiated = make(map[string]string)
	sess.Outbound.Set("Server", s.Identifier)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
