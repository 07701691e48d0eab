// Package writer implements the append-only byte sink the encoder builds a
// document on top of: amortized growth (the pool buffer's fixed-chunk, then
// 25%-of-capacity steps), in-place patch of
// already-written ranges, and a pool-backed allocation so repeated
// encode/reset cycles stay allocation-light.
package writer

import (
	"github.com/fleece-format/fleece/errs"
	"github.com/fleece-format/fleece/internal/pool"
)

// Writer is an append-only byte buffer with in-place patch of already-written
// regions. It is not safe for concurrent use.
type Writer struct {
	buf *pool.ByteBuffer
}

// New returns a Writer backed by a buffer drawn from the shared pool.
func New() *Writer {
	return &Writer{buf: pool.GetWriterBuffer()}
}

// NewWithCapacity returns a Writer whose backing buffer starts with at least
// the given capacity, bypassing the shared pool.
func NewWithCapacity(capacity int) *Writer {
	return &Writer{buf: pool.NewByteBuffer(capacity)}
}

// Write appends data to the output and returns its length. The returned
// error is always nil: a failed allocation is a fatal Go runtime error and is
// not reported as ErrOutOfMemory.
func (w *Writer) Write(data []byte) (int, error) {
	w.buf.MustWrite(data)
	return len(data), nil
}

// Reserve appends n uninitialized bytes and returns their starting offset so
// the caller can patch them later with Rewrite once their final contents are
// known.
func (w *Writer) Reserve(n int) int {
	offset := w.buf.Len()
	w.buf.ExtendOrGrow(n)
	return offset
}

// Rewrite overwrites the byte range [offset, offset+len(data)) with data. The
// range must already have been written (by Write or Reserve); it is a
// programming error to rewrite past the current length.
func (w *Writer) Rewrite(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > w.buf.Len() {
		return errs.ErrOutOfRange
	}
	copy(w.buf.Bytes()[offset:offset+len(data)], data)
	return nil
}

// Length returns the number of bytes written so far.
func (w *Writer) Length() int {
	return w.buf.Len()
}

// Bytes returns a view of the current output. The view is invalidated by the
// next call to Write, Reserve, or Rewrite that triggers a reallocation;
// callers that need a stable copy should use Extract.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Pad appends a single zero byte if the current length is odd, restoring the
// even-alignment invariant every value must start on.
func (w *Writer) Pad() {
	if w.buf.Len()%2 != 0 {
		w.buf.MustWrite([]byte{0})
	}
}

// Extract returns a right-sized copy of the output, releases the writer's
// pooled buffer for reuse, and leaves the Writer empty on a fresh pooled
// buffer, ready for further writes.
func (w *Writer) Extract() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	pool.PutWriterBuffer(w.buf)
	w.buf = pool.GetWriterBuffer()
	return out
}

// Reset clears the writer for reuse without releasing its pooled buffer.
func (w *Writer) Reset() {
	w.buf.Reset()
}
