package transport

import (
	"context"
	"net"
)

// NewUnix wraps an accepted or dialed *net.UnixConn as a Transport.
func NewUnix(conn *net.UnixConn) Transport {
	return newStreamTransport(conn, func() error {
		_ = conn.CloseRead()
		return conn.CloseWrite()
	}, conn.Close)
}

// DialUnix dials a local domain socket at path and wraps it as a Transport,
// for the client role.
func DialUnix(ctx context.Context, path string) (Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return newStreamTransport(conn, func() error { return nil }, conn.Close), nil
	}
	return NewUnix(unixConn), nil
}
