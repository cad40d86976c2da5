// Package transport defines the byte-stream abstraction the protocol engine
// consumes and never names concretely: "delivers bytes, accepts bytes, can
// be closed" (spec §1). Concrete transports — TCP, Unix domain sockets, and
// stdio — live alongside this interface as peripheral collaborators; the
// engine imports only the interface.
//
// The source library this spec distills expressed these four operations as
// asynchronous, callback-completed calls scheduled on a single-threaded
// reactor. This package instead exposes them as ordinary blocking methods,
// because kestrel runs one goroutine per session (see the engine package):
// from that goroutine's point of view a blocking call *is* the asynchronous
// operation completing, and the goroutine scheduler is the reactor. The
// stream transports check their context only when a call starts; a
// deadline that passes during a blocking read or write does not interrupt it.
package transport

import (
	"context"
	"errors"
)

// ErrClosed is returned by any operation attempted after Close.
var ErrClosed = errors.New("transport: closed")

// Transport is the byte-stream a session reads from and writes to.
type Transport interface {
	// ReadUntil blocks until delim is found in the stream (inclusive) or an
	// error occurs, and returns the bytes read including delim.
	ReadUntil(ctx context.Context, delim byte) ([]byte, error)

	// ReadAtLeast blocks until at least n bytes are available and returns
	// them (it may return more than n if more was already buffered).
	ReadAtLeast(ctx context.Context, n int) ([]byte, error)

	// Write blocks until p has been handed to the underlying stream.
	Write(ctx context.Context, p []byte) error

	// Shutdown signals both directions of the stream are done, ahead of
	// Close. For half-duplex descriptor pairs (e.g. stdio) this is a no-op.
	Shutdown() error

	// Close releases the underlying descriptor(s). Close is idempotent.
	Close() error
}
