package reply

import (
	"strings"
	"testing"

	"github.com/kestrelhttp/kestrel/header"
	"github.com/kestrelhttp/kestrel/line"
)

func TestReasonKnownAndFallback(t *testing.T) {
	if Reason(200) != "OK" {
		t.Fatalf("got %q", Reason(200))
	}
	if Reason(299) != "Other Status" {
		t.Fatalf("got %q", Reason(299))
	}
}

func TestAssembleSuccessHasContentLengthAndNoClose(t *testing.T) {
	out := header.New()
	out.Set("Server", "kestrel/1")
	wire, closeAfter := Assemble(200, []byte("hi"), out, nil)
	s := string(wire)
	if closeAfter {
		t.Fatal("200 must not close")
	}
	if !strings.HasPrefix(s, "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("bad status line: %q", s)
	}
	if !strings.Contains(s, "Content-Length: 2\r\n") {
		t.Fatalf("missing content-length: %q", s)
	}
	if !strings.HasSuffix(s, "\r\n\r\nhi") {
		t.Fatalf("bad framing: %q", s)
	}
}

func TestAssemble4xxForcesClose(t *testing.T) {
	wire, closeAfter := Assemble(404, nil, header.New(), nil)
	if !closeAfter {
		t.Fatal("4xx must set closeAfterSend")
	}
	if !strings.Contains(string(wire), "Connection: close\r\n") {
		t.Fatalf("missing Connection: close: %q", wire)
	}
}

func TestAssembleExtraOverridesOutbound(t *testing.T) {
	out := header.New()
	out.Set("X-Thing", "old")
	extra := header.New()
	extra.Set("X-Thing", "new")
	wire, _ := Assemble(200, nil, out, extra)
	if !strings.Contains(string(wire), "X-Thing: new\r\n") {
		t.Fatalf("extra did not override: %q", wire)
	}
}

func TestAssemble204OmitsContentLengthWhenEmpty(t *testing.T) {
	wire, _ := Assemble(204, nil, header.New(), nil)
	if strings.Contains(string(wire), "Content-Length") {
		t.Fatalf("204 with empty body must omit Content-Length: %q", wire)
	}
}

func TestAssemble1xxOmitsBody(t *testing.T) {
	wire, _ := Assemble(100, []byte("ignored"), header.New(), nil)
	if strings.Contains(string(wire), "ignored") {
		t.Fatalf("1xx must not carry a body: %q", wire)
	}
}

func TestErrorBodyAndAllowHeader(t *testing.T) {
	wire, closeAfter := Error(405, []string{"POST", "get"}, header.New())
	s := string(wire)
	if !closeAfter {
		t.Fatal("405 must close")
	}
	if !strings.Contains(s, "# Method Not Allowed") {
		t.Fatalf("missing canonical body heading: %q", s)
	}
	if !strings.Contains(s, "Allow: get,POST\r\n") {
		t.Fatalf("Allow header not case-insensitive sorted: %q", s)
	}
	if !strings.Contains(s, "Content-Type: text/markdown\r\n") {
		t.Fatalf("missing Content-Type: %q", s)
	}
}

func TestAssembleRequestSetsContentLengthAndUserAgent(t *testing.T) {
	out := header.New()
	out.Set("User-Agent", "kestrel-client/1")
	wire := AssembleRequest("GET", "/x", line.Version{Major: 1, Minor: 1}, nil, out)
	s := string(wire)
	if !strings.HasPrefix(s, "GET /x HTTP/1.1\r\n") {
		t.Fatalf("bad request line: %q", s)
	}
	if !strings.Contains(s, "Content-Length: 0\r\n") {
		t.Fatalf("missing Content-Length: %q", s)
	}
	if !strings.Contains(s, "User-Agent: kestrel-client/1\r\n") {
		t.Fatalf("missing User-Agent: %q", s)
	}
}
