package transport

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// streamTransport adapts any io.ReadWriteCloser (net.Conn, a stdio pipe
// pair wrapped as one value, ...) to the Transport interface using a
// buffered reader, the same way the teacher engine layers bufio.Reader over
// a raw net.Conn.
type streamTransport struct {
	rw     io.ReadWriteCloser
	reader *bufio.Reader

	mu     sync.Mutex
	closed bool

	onShutdown func() error
	onClose    func() error
}

// NewGeneric wraps any io.ReadWriteCloser as a Transport, for connection
// kinds with no half-close distinction (Shutdown and Close both just
// close). Used as the listener's fallback when an accepted net.Conn is
// neither *net.TCPConn nor *net.UnixConn.
func NewGeneric(rw io.ReadWriteCloser) Transport {
	return newStreamTransport(rw, rw.Close, rw.Close)
}

func newStreamTransport(rw io.ReadWriteCloser, onShutdown, onClose func() error) *streamTransport {
	return &streamTransport{
		rw:         rw,
		reader:     bufio.NewReaderSize(rw, 4096),
		onShutdown: onShutdown,
		onClose:    onClose,
	}
}

// ReadUntil reads until delim inclusive. context cancellation is observed
// only at call entry: once the underlying blocking read has started it runs
// to completion, exactly as the spec describes a suspension point that ends
// only when the I/O itself completes.
func (t *streamTransport) ReadUntil(ctx context.Context, delim byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.isClosed() {
		return nil, ErrClosed
	}
	return t.reader.ReadBytes(delim)
}

func (t *streamTransport) ReadAtLeast(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.isClosed() {
		return nil, ErrClosed
	}
	size := n
	if buffered := t.reader.Buffered(); buffered > size {
		size = buffered
	}
	buf := make([]byte, size)
	read, err := io.ReadAtLeast(t.reader, buf, n)
	return buf[:read], err
}

func (t *streamTransport) Write(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.isClosed() {
		return ErrClosed
	}
	_, err := t.rw.Write(p)
	return err
}

func (t *streamTransport) Shutdown() error {
	if t.onShutdown == nil {
		return nil
	}
	return t.onShutdown()
}

func (t *streamTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	if t.onClose != nil {
		return t.onClose()
	}
	return t.rw.Close()
}

func (t *streamTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
