// Package bufpool pools the byte buffers the reply assembler churns through
// on every message, avoiding an allocation per reply/request assembly on
// the hot path (the session's content accumulator is a plain slice and does
// not use this pool) — grounded on the
// teacher's own use of github.com/valyala/bytebufferpool (MiraiMindz-watt
// shockwave/pkg/shockwave/server: outbound buffers are fetched from a
// package-level bytebufferpool.Pool and Put back once flushed).
package bufpool

import "github.com/valyala/bytebufferpool"

// Pool wraps a bytebufferpool.Pool; the zero value is ready to use since
// bytebufferpool.Pool's zero value is.
type Pool struct {
	pool bytebufferpool.Pool
}

// Buffer is the handle callers append to and must eventually Release.
type Buffer = bytebufferpool.ByteBuffer

// Default is the package-level pool most callers share; construct a private
// Pool only when isolating allocation stats for one subsystem matters.
var Default = &Pool{}

// Get returns an empty buffer, reused from the pool when one is available.
func (p *Pool) Get() *Buffer {
	return p.pool.Get()
}

// Put returns buf to the pool for reuse. Callers must not touch buf after
// calling Put.
func (p *Pool) Put(buf *Buffer) {
	p.pool.Put(buf)
}

// Borrow copies src into a pooled buffer and returns the buffer's backing
// slice together with a release func; callers done with the slice call
// release to return the buffer to the pool.
func Borrow(src []byte) (data []byte, release func()) {
	buf := Default.Get()
	buf.Write(src)
	return buf.B, func() { Default.Put(buf) }
}
