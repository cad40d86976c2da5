package accesslog

import (
	"strings"
	"testing"
)

func TestLineEncodesFields(t *testing.T) {
	s, err := Line(Entry{
		Bytes:     42,
		Method:    "GET",
		Peer:      "127.0.0.1:9000",
		Protocol:  "HTTP/1.1",
		Resource:  "/echo",
		SessionID: "abc-123",
		Status:    200,
	})
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	for _, want := range []string{`"bytes":42`, `"method":"GET"`, `"status":200`, `"session_id":"abc-123"`} {
		if !strings.Contains(s, want) {
			t.Errorf("Line output %q missing %q", s, want)
		}
	}
	if strings.Contains(s, "\n") {
		t.Errorf("Line output should have no trailing newline, got %q", s)
	}
}

func TestLineOmitsEmptyOptionalFields(t *testing.T) {
	s, err := Line(Entry{Method: "GET", Resource: "/"})
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	if strings.Contains(s, "referer") || strings.Contains(s, "user_agent") {
		t.Errorf("Line output %q should omit empty referer/user_agent", s)
	}
}
