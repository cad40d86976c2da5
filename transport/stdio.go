package transport

import (
	"bufio"
	"context"
	"io"
)

// stdioTransport pairs an independent reader and writer into one Transport,
// for the half-duplex case the spec calls out explicitly: "a pair of
// unidirectional streams for stdio". Shutdown is a no-op (there is no
// single descriptor to half-close); Close closes each side independently.
type stdioTransport struct {
	reader *bufio.Reader
	in     io.Closer
	out    io.WriteCloser

	closed bool
}

// NewStdio builds a Transport over standard input and standard output (or
// any other reader/writer pair presented as two independent descriptors).
func NewStdio(in io.ReadCloser, out io.WriteCloser) Transport {
	return &stdioTransport{reader: bufio.NewReaderSize(in, 4096), in: in, out: out}
}

func (t *stdioTransport) ReadUntil(ctx context.Context, delim byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.closed {
		return nil, ErrClosed
	}
	return t.reader.ReadBytes(delim)
}

func (t *stdioTransport) ReadAtLeast(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.closed {
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

func (t *stdioTransport) Write(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.closed {
		return ErrClosed
	}
	_, err := t.out.Write(p)
	return err
}

// Shutdown is a no-op for half-duplex descriptor pairs, per spec §5.
func (t *stdioTransport) Shutdown() error {
	return nil
}

func (t *stdioTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	err1 := t.in.Close()
	err2 := t.out.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
