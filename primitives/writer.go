package primitives

import (
	"math"

	"github.com/geobrowser/grc-20/internal/pool"
)

// Writer is a growable output buffer for GRC-20 encoding.
//
// Writer methods never fail: every bound (string length, embedding size,
// coordinate range, ...) is validated by the caller before emission, so
// errors cannot occur in a Writer. Encoders grow the buffer and write
// unconditionally, pushing validation to the call site.
type Writer struct {
	buf *pool.Buffer
}

// NewWriter creates an empty Writer backed by a pooled buffer.
func NewWriter() *Writer {
	return &Writer{buf: pool.Get()}
}

// Release returns the Writer's backing buffer to the pool. Callers that
// need the bytes past this point must copy them out first (e.g. via
// Bytes(), which returns a slice into the pooled buffer).
func (w *Writer) Release() {
	pool.Put(w.buf)
	w.buf = nil
}

// Bytes returns the accumulated output. The returned slice aliases the
// Writer's internal buffer and is only valid until the next write or
// Release.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes appends raw bytes with no length prefix.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteID appends a 16-byte id inline, with no length prefix.
func (w *Writer) WriteID(id [16]byte) {
	w.buf.Write(id[:])
}

// WriteIDVec appends a varint count followed by each id inline.
func (w *Writer) WriteIDVec(ids [][16]byte) {
	w.WriteVarint(uint64(len(ids)))
	for _, id := range ids {
		w.WriteID(id)
	}
}

// WriteVarint appends the LEB128 encoding of v.
func (w *Writer) WriteVarint(v uint64) {
	w.buf.B = AppendVarint(w.buf.B, v)
}

// WriteSignedVarint appends the zigzag+LEB128 encoding of v.
func (w *Writer) WriteSignedVarint(v int64) {
	w.WriteVarint(ZigZagEncode(v))
}

// WriteStr appends a varint length prefix followed by the UTF-8 bytes of s.
func (w *Writer) WriteStr(s string) {
	w.WriteVarint(uint64(len(s)))
	w.buf.Write([]byte(s))
}

// WriteByteSlice appends a varint length prefix followed by b.
func (w *Writer) WriteByteSlice(b []byte) {
	w.WriteVarint(uint64(len(b)))
	w.buf.Write(b)
}

// WriteU16 appends a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	w.buf.Write([]byte{byte(v), byte(v >> 8)})
}

// WriteI16 appends a little-endian int16.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteU32 appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	w.buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// WriteI32 appends a little-endian int32.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteU64 appends a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	w.buf.Write(b[:])
}

// WriteI64 appends a little-endian int64.
func (w *Writer) WriteI64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteI48 appends the low 48 bits of v, little-endian.
func (w *Writer) WriteI48(v int64) {
	u := uint64(v)
	var b [6]byte
	for i := range b {
		b[i] = byte(u >> (8 * i))
	}
	w.buf.Write(b[:])
}

// WriteF64 appends a little-endian IEEE-754 float64.
func (w *Writer) WriteF64(f float64) {
	w.WriteU64(math.Float64bits(f))
}
