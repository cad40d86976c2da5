package listener

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/kestrelhttp/kestrel/engine"
	"github.com/kestrelhttp/kestrel/session"
)

// echoProcessor is a minimal engine.Processor for exercising the accept
// loop without pulling in the server package.
type echoProcessor struct{}

func (echoProcessor) Role() engine.Role { return engine.RoleServer }
func (echoProcessor) Start(*session.Session) {}
func (echoProcessor) AfterHeaders(s *session.Session) session.Phase {
	s.ContentLength = session.ParseContentLength(s.InboundHeaders.Headers())
	return session.PhaseContent
}
func (echoProcessor) Handle(s *session.Session) {
	s.GenerateReply(200, []byte("ok"), nil)
	s.CloseAfterSend = true
}
func (echoProcessor) AfterProcessing(s *session.Session) session.Phase {
	return session.PhaseRequest
}

func TestListenerServesOneConnection(t *testing.T) {
	nl, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	l := New(nl, echoProcessor{})
	go l.Serve()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.Shutdown(ctx)
	}()

	conn, err := net.Dial("tcp", nl.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n")); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 512)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(buf[:n]), "200 OK") {
		t.Fatalf("got %q", buf[:n])
	}
}
