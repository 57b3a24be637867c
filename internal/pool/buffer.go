// Package pool provides pooled growable byte buffers for the codec's hot paths.
package pool

import "sync"

// DefaultBufferSize is the initial capacity handed out by GetBuffer.
//
// Most edits are small (a handful of ops touching a handful of properties),
// so this amortizes well without wasting much memory on the common case.
const DefaultBufferSize = 4 * 1024

// Buffer is a growable byte slice wrapper, reused across encode calls to
// avoid repeated allocation for the temp buffers the op codec and the
// canonical dry-run pass need.
type Buffer struct {
	B []byte
}

var bufferPool = sync.Pool{
	New: func() any {
		return &Buffer{B: make([]byte, 0, DefaultBufferSize)}
	},
}

// Get returns a Buffer from the pool, reset to zero length.
func Get() *Buffer {
	buf := bufferPool.Get().(*Buffer)
	buf.B = buf.B[:0]

	return buf
}

// Put returns a Buffer to the pool. Buffers grown far beyond the default
// size are dropped instead of pooled, so one oversized edit doesn't pin
// a huge allocation in the pool forever.
func Put(buf *Buffer) {
	if cap(buf.B) > 16*DefaultBufferSize {
		return
	}
	bufferPool.Put(buf)
}

// Bytes returns the buffer's current contents.
func (b *Buffer) Bytes() []byte {
	return b.B
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int {
	return len(b.B)
}

// Reset empties the buffer while retaining its capacity.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Write appends data to the buffer, growing it as needed.
func (b *Buffer) Write(data []byte) {
	b.B = append(b.B, data...)
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) {
	b.B = append(b.B, c)
}
