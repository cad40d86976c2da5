package session

import (
	"strings"
	"testing"

	"github.com/kestrelhttp/kestrel/negotiate"
	"github.com/kestrelhttp/kestrel/transport"
)

func TestNewSessionHasIDAndRequestPhase(t *testing.T) {
	s := New(transport.NewFake(""))
	if s.ID == "" {
		t.Fatal("expected a non-empty correlation id")
	}
	if s.Phase != PhaseRequest {
		t.Fatalf("new session should start in PhaseRequest, got %v", s.Phase)
	}
}

func TestRemainingBytesSaturatesAtZero(t *testing.T) {
	s := New(transport.NewFake(""))
	s.ContentLength = 3
	s.AppendContent([]byte("hello"))
	if got := s.RemainingBytes(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestOutboundQueueFIFO(t *testing.T) {
	s := New(transport.NewFake(""))
	s.Enqueue([]byte("a"))
	s.Enqueue([]byte("b"))
	head, ok := s.PeekOutbound()
	if !ok || string(head) != "a" {
		t.Fatalf("expected a, got %q ok=%v", head, ok)
	}
	s.DequeueOutbound()
	head, ok = s.PeekOutbound()
	if !ok || string(head) != "b" {
		t.Fatalf("expected b, got %q ok=%v", head, ok)
	}
	s.DequeueOutbound()
	if s.OutboundPending() {
		t.Fatal("expected queue to be drained")
	}
}

func TestTrigger405(t *testing.T) {
	if Trigger405(map[string]bool{"OPTIONS": true, "TRACE": true}) {
		t.Fatal("OPTIONS+TRACE alone must not trigger 405")
	}
	if !Trigger405(map[string]bool{"OPTIONS": true, "GET": true}) {
		t.Fatal("GET must trigger 405 when not the resolved method")
	}
}

func TestNegotiateSetsVaryAndServerHeader(t *testing.T) {
	s := New(transport.NewFake(""))
	s.InboundHeaders.Absorb("Accept: text/plain\r\n")
	s.InboundHeaders.Absorb("\r\n")

	offers := negotiate.ParseOffers("text/html, text/plain")
	ok := s.Negotiate([]Negotiation{{ClientHeader: "Accept", ServerHeader: "Content-Type", Offers: offers}})
	if !ok {
		t.Fatal("expected a match")
	}
	if s.Negotiated["Accept"] != "text/plain" {
		t.Fatalf("got %q", s.Negotiated["Accept"])
	}
	if v, _ := s.Outbound.Get("Content-Type"); v != "text/plain" {
		t.Fatalf("got %q", v)
	}
	if v, _ := s.Outbound.Get("Vary"); v != "Accept" {
		t.Fatalf("got %q", v)
	}
}

func TestNegotiateFailureReturnsFalse(t *testing.T) {
	s := New(transport.NewFake(""))
	s.InboundHeaders.Absorb("Accept: application/json\r\n")
	s.InboundHeaders.Absorb("\r\n")
	offers := negotiate.ParseOffers("text/plain")
	if s.Negotiate([]Negotiation{{ClientHeader: "Accept", Offers: offers}}) {
		t.Fatal("expected negotiation failure")
	}
}

func TestGenerateReplyEnqueuesAndCounts(t *testing.T) {
	s := New(transport.NewFake(""))
	s.GenerateReply(200, []byte("ok"), nil)
	if s.Replies != 1 {
		t.Fatalf("expected 1 reply, got %d", s.Replies)
	}
	wire, ok := s.PeekOutbound()
	if !ok || !strings.Contains(string(wire), "200 OK") {
		t.Fatalf("got %q ok=%v", wire, ok)
	}
	if s.CloseAfterSend {
		t.Fatal("200 must not set CloseAfterSend")
	}
}

func TestGenerateErrorSetsCloseAndCounters(t *testing.T) {
	s := New(transport.NewFake(""))
	s.GenerateError(404, nil)
	if s.Replies != 1 || s.Errors != 1 {
		t.Fatalf("expected 1 reply and 1 error, got replies=%d errors=%d", s.Replies, s.Errors)
	}
	if !s.CloseAfterSend {
		t.Fatal("404 must set CloseAfterSend")
	}
}

func TestRecycleClearsMessageStateKeepsID(t *testing.T) {
	s := New(transport.NewFake(""))
	id := s.ID
	s.AppendContent([]byte("x"))
	s.Enqueue([]byte("y"))
	s.Recycle()
	if s.ID != id {
		t.Fatal("Recycle must not change the correlation id")
	}
	if !s.Free {
		t.Fatal("Recycle must mark the session Free")
	}
	if len(s.Content) != 0 || s.OutboundPending() {
		t.Fatal("Recycle must clear per-message state")
	}
}

func TestLogMessageIncludesRequestFields(t *testing.T) {
	s := New(transport.NewFake(""))
	s.InboundRequest.Method = "GET"
	s.InboundRequest.Target = "/x"
	line, err := s.LogMessage("127.0.0.1:9", 200, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(line, `"method":"GET"`) || !strings.Contains(line, `"resource":"/x"`) {
		t.Fatalf("got %q", line)
	}
}
