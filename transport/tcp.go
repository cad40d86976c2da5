package transport

import (
	"context"
	"net"
	"time"
)

// TCPConfig tunes the socket options applied to each accepted or dialed TCP
// connection, mirroring the keep-alive and no-delay tuning the teacher
// engine's socket package applies to its listener.
type TCPConfig struct {
	// KeepAlivePeriod is the interval between TCP keep-alive probes. Zero
	// disables keep-alive.
	KeepAlivePeriod time.Duration

	// NoDelay disables Nagle's algorithm, trading bandwidth for latency —
	// the right default for a request/response protocol like HTTP/1.1.
	NoDelay bool
}

// DefaultTCPConfig returns the tuning kestrel applies unless overridden.
func DefaultTCPConfig() TCPConfig {
	return TCPConfig{KeepAlivePeriod: 60 * time.Second, NoDelay: true}
}

// NewTCP wraps an accepted or dialed net.TCPConn as a Transport, applying
// cfg's socket tuning first.
func NewTCP(conn *net.TCPConn, cfg TCPConfig) (Transport, error) {
	if cfg.KeepAlivePeriod > 0 {
		if err := conn.SetKeepAlive(true); err != nil {
			return nil, err
		}
		if err := conn.SetKeepAlivePeriod(cfg.KeepAlivePeriod); err != nil {
			return nil, err
		}
	} else {
		_ = conn.SetKeepAlive(false)
	}
	if err := conn.SetNoDelay(cfg.NoDelay); err != nil {
		return nil, err
	}
	applyPlatformTuning(conn)

	return newStreamTransport(conn, func() error {
		_ = conn.CloseRead()
		return conn.CloseWrite()
	}, conn.Close), nil
}

// DialTCP dials addr and wraps the connection as a Transport, for the
// client role.
func DialTCP(ctx context.Context, addr string, cfg TCPConfig) (Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return newStreamTransport(conn, func() error { return nil }, conn.Close), nil
	}
	return NewTCP(tcpConn, cfg)
}
