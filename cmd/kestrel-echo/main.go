// Command kestrel-echo is a minimal bootstrap binary exercising the server
// role end to end: it registers one servlet, binds a TCP listener, and
// serves until interrupted. It exists purely as a runnable example of
// wiring transport, listener, server, and metrics together — the library
// itself stays embeddable and has no CLI of its own.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kestrelhttp/kestrel/listener"
	"github.com/kestrelhttp/kestrel/metrics"
	"github.com/kestrelhttp/kestrel/server"
	"github.com/kestrelhttp/kestrel/session"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "address to listen on")
	metricsAddr := flag.String("metrics-addr", "127.0.0.1:9090", "address to serve /metrics on")
	flag.Parse()

	srv := server.New("kestrel-echo/1.0")
	if _, err := srv.Registry.Register(`^/echo$`, "^(GET|POST)$", echoHandler, nil, "echoes the request body back"); err != nil {
		log.Fatalf("register /echo: %v", err)
	}
	if _, err := srv.Registry.Register(`^/healthz$`, "^GET$", healthHandler, nil, "liveness probe"); err != nil {
		log.Fatalf("register /healthz: %v", err)
	}

	collectors := metrics.New("kestrel_echo")
	reg := prometheus.NewRegistry()
	collectors.MustRegister(reg)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Printf("metrics listening on %s", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			log.Printf("metrics server: %v", err)
		}
	}()

	nl, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	l := listener.New(nl, metrics.Wrap(srv, collectors))
	log.Printf("kestrel-echo listening on %s", nl.Addr())

	go func() {
		if err := l.Serve(); err != nil {
			log.Printf("serve: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func echoHandler(s *session.Session, _ []string) {
	s.GenerateReply(200, s.Content, nil)
}

func healthHandler(s *session.Session, _ []string) {
	s.GenerateReply(200, []byte("ok"), nil)
}
