package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/kestrelhttp/kestrel/session"
	"github.com/kestrelhttp/kestrel/transport"
)

func TestRunServerRoundTrip(t *testing.T) {
	f := transport.NewFake("GET /x HTTP/1.1\r\nHost: a\r\n\r\n")
	s := session.New(f)

	p := &stubProcessor{
		role: RoleServer,
		handle: func(s *session.Session) {
			s.GenerateReply(200, []byte("hi"), nil)
			s.CloseAfterSend = true
		},
	}

	Run(context.Background(), s, p)

	if !strings.Contains(f.Outbound(), "200 OK") {
		t.Fatalf("got %q", f.Outbound())
	}
	if !f.Closed() {
		t.Fatal("expected the transport to be closed at shutdown")
	}
}

func TestRunServerInvalidRequestLineRepliesWith400(t *testing.T) {
	f := transport.NewFake("not a request line\r\n\r\n")
	s := session.New(f)
	p := &stubProcessor{role: RoleServer}

	Run(context.Background(), s, p)

	if !strings.Contains(f.Outbound(), "400 Bad Request") {
		t.Fatalf("got %q", f.Outbound())
	}
}

func TestRunServerWithBody(t *testing.T) {
	f := transport.NewFake("POST /x HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")
	s := session.New(f)

	var gotBody string
	p := &stubProcessor{
		role: RoleServer,
		afterHeaders: func(s *session.Session) session.Phase {
			s.ContentLength = session.ParseContentLength(s.InboundHeaders.Headers())
			return session.PhaseContent
		},
		handle: func(s *session.Session) {
			gotBody = string(s.Content)
			s.GenerateReply(200, nil, nil)
			s.CloseAfterSend = true
		},
	}

	Run(context.Background(), s, p)

	if gotBody != "hello" {
		t.Fatalf("got %q", gotBody)
	}
}

func TestRunClientRoundTrip(t *testing.T) {
	f := transport.NewFake("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi")
	s := session.New(f)

	var got string
	p := &stubProcessor{
		role: RoleClient,
		afterHeaders: func(s *session.Session) session.Phase {
			s.ContentLength = session.ParseContentLength(s.InboundHeaders.Headers())
			return session.PhaseContent
		},
		handle: func(s *session.Session) {
			got = string(s.Content)
		},
	}

	Run(context.Background(), s, p)

	if got != "hi" {
		t.Fatalf("got %q", got)
	}
	if !f.Closed() {
		t.Fatal("expected client session to shut down and close")
	}
}
