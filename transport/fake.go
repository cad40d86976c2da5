package transport

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"
)

// Fake is an in-memory Transport for tests: Inbound feeds ReadUntil and
// ReadAtLeast, and every Write is appended to Outbound. It is exported
// (rather than living in an internal test helper) so the session, engine,
// server, and client packages can all exercise the control-flow state
// machine without a real socket.
type Fake struct {
	mu sync.Mutex

	reader *bufio.Reader
	out    bytes.Buffer

	shutdownCalls int
	closeCalls    int
	closed        bool

	ReadErr error // if set, all reads after the buffered input is drained fail with this
}

// NewFake returns a Fake transport pre-loaded with inbound.
func NewFake(inbound string) *Fake {
	return &Fake{reader: bufio.NewReader(bytes.NewBufferString(inbound))}
}

// Feed appends more inbound bytes, for tests simulating data arriving over
// multiple reads.
func (f *Fake) Feed(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// bufio.Reader can't have more data appended to its source once
	// constructed over a fixed buffer, so rebuild it chained with the rest.
	rest, _ := io.ReadAll(f.reader)
	f.reader = bufio.NewReader(io.MultiReader(bytes.NewReader(rest), bytes.NewBufferString(s)))
}

func (f *Fake) ReadUntil(ctx context.Context, delim byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := f.reader.ReadBytes(delim)
	if err == io.EOF && f.ReadErr != nil {
		return b, f.ReadErr
	}
	return b, err
}

func (f *Fake) ReadAtLeast(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, n)
	read, err := io.ReadAtLeast(f.reader, buf, n)
	if (err == io.ErrUnexpectedEOF || err == io.EOF) && f.ReadErr != nil {
		return buf[:read], f.ReadErr
	}
	return buf[:read], err
}

func (f *Fake) Write(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	_, err := f.out.Write(p)
	return err
}

func (f *Fake) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdownCalls++
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.closeCalls++
	return nil
}

// Outbound returns everything written so far.
func (f *Fake) Outbound() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

// Closed reports whether Close has been called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
