// Package client implements the client-role request processor spec §4.7
// describes: a FIFO of pending requests, a single completion callback, and
// the Content-Length policy applied once a response's headers complete.
// Client satisfies engine.Processor so engine.Run can drive it directly.
package client

import (
	"github.com/kestrelhttp/kestrel/engine"
	"github.com/kestrelhttp/kestrel/header"
	"github.com/kestrelhttp/kestrel/line"
	"github.com/kestrelhttp/kestrel/reply"
	"github.com/kestrelhttp/kestrel/session"
)

// pendingRequest is one queued outbound request, not yet serialized.
type pendingRequest struct {
	method  string
	target  string
	headers *header.Map
	body    []byte
}

// Callback is invoked once per completed response.
type Callback func(s *session.Session)

// Client is the client-role engine.Processor.
type Client struct {
	// Identifier is the default User-Agent value spec §4.8 names.
	Identifier string

	queue    []pendingRequest
	callback Callback
}

// New returns a Client with an empty request queue.
func New(identifier string) *Client {
	return &Client{Identifier: identifier}
}

func (c *Client) Role() engine.Role { return engine.RoleClient }

// Query appends a request to the FIFO.
func (c *Client) Query(method, target string, headers *header.Map, body []byte) {
	if headers == nil {
		headers = header.New()
	}
	c.queue = append(c.queue, pendingRequest{method: method, target: target, headers: headers, body: body})
}

// Then registers the callback invoked once per completed response.
// Chainable, mirroring spec §4.7's "registers a handler ... chainable".
func (c *Client) Then(cb Callback) *Client {
	c.callback = cb
	return c
}

// Start pops the head of the request queue, serializes it, and enqueues
// the bytes for send, per spec §4.7.
func (c *Client) Start(s *session.Session) {
	if len(c.queue) == 0 {
		s.CloseAfterSend = true
		return
	}
	req := c.queue[0]
	c.queue = c.queue[1:]

	out := header.New()
	req.headers.Each(out.Set)
	if !out.Has("User-Agent") {
		out.Set("User-Agent", c.Identifier)
	}

	wire := reply.AssembleRequest(req.method, req.target, line.Version{Major: 1, Minor: 1}, req.body, out)
	s.Enqueue(wire)
}

// AfterHeaders reads Content-Length (missing or non-numeric -> 0) and
// returns Content, per spec §4.7.
func (c *Client) AfterHeaders(s *session.Session) session.Phase {
	s.ContentLength = session.ParseContentLength(s.InboundHeaders.Headers())
	return session.PhaseContent
}

// Handle invokes the registered callback with the completed response.
func (c *Client) Handle(s *session.Session) {
	s.Replies++
	if c.callback != nil {
		c.callback(s)
	}
}

// AfterProcessing reports PhaseStatus if another request is still queued —
// the engine reads that as "advance the pipeline: serialize and send the
// next request on this same connection" (spec §8 scenario 7) — or
// PhaseShutdown once the queue is drained, per spec §4.7.
func (c *Client) AfterProcessing(s *session.Session) session.Phase {
	if len(c.queue) > 0 {
		return session.PhaseStatus
	}
	return session.PhaseShutdown
}

// Pending reports how many requests are still queued.
func (c *Client) Pending() int {
	return len(c.queue)
}
