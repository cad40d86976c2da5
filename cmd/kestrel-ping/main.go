// Command kestrel-ping is a minimal bootstrap binary exercising the client
// role: it dials a TCP peer, issues one GET, prints the response, and
// exits. Like kestrel-echo, it is a runnable example, not part of the
// library's public surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kestrelhttp/kestrel/client"
	"github.com/kestrelhttp/kestrel/engine"
	"github.com/kestrelhttp/kestrel/session"
	"github.com/kestrelhttp/kestrel/transport"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "address to dial")
	target := flag.String("target", "/healthz", "request target")
	timeout := flag.Duration("timeout", 5*time.Second, "overall deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	t, err := transport.DialTCP(ctx, *addr, transport.DefaultTCPConfig())
	if err != nil {
		log.Fatalf("dial: %v", err)
	}

	c := client.New("kestrel-ping/1.0")
	c.Query("GET", *target, nil, nil)
	c.Then(func(s *session.Session) {
		fmt.Printf("%s %s\n", s.InboundStatus.Version.String(), s.InboundStatus.Reason)
		fmt.Printf("%s\n", s.Content)
	})

	s := session.New(t)
	engine.Run(ctx, s, c)
	os.Exit(0)
}
