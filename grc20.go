// Package grc20 provides a binary codec for GRC-20 v2 edits: the
// property-graph batch format used to exchange entity/relation state
// changes in a decentralized knowledge network.
//
// # Core Features
//
//   - Byte-for-byte deterministic (canonical) encoding for content-addressing
//   - Optional GRC2Z framing: zstd-compressed body with a declared
//     uncompressed size, for edits sent over the wire or archived
//   - Dictionary interning of ids and contexts to keep repeated
//     references to the same entity/property/relation cheap (authors are
//     written inline as an id list)
//   - A fluent EditBuilder for assembling edits without hand-building the
//     model package's op structs
//
// # Basic Usage
//
// Building and encoding an edit:
//
//	import "github.com/geobrowser/grc-20"
//
//	b := grc20.NewEdit("bootstrap", authorID)
//	b.CreateEntity(entityID, func(e *grc20.EntityBuilder) {
//	    e.Text(nameProperty, "Rome", nil)
//	    e.Int64(populationProperty, 2_873_000, nil)
//	})
//	edit, err := b.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := grc20.Encode(edit)
//
// Decoding:
//
//	decoded, err := grc20.Decode(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec
// package, mirroring its Encode/Decode variants and adding the EditBuilder
// convenience layer. For direct control over dictionaries and op encoding,
// use the codec and model packages.
package grc20

import (
	"github.com/geobrowser/grc-20/codec"
	"github.com/geobrowser/grc-20/compress"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
)

// Edit is the in-memory representation of a GRC-20 edit: header metadata,
// the context table, and the op list.
type Edit = model.Edit

// EncodeOption configures EncodeWith; see WithCanonical, WithCompression,
// WithZstdLevel, and WithFrameCodec.
type EncodeOption = codec.EncodeOption

// Re-exported functional options, so callers only need to import this
// package for the common path.
var (
	WithCanonical   = codec.WithCanonical
	WithCompression = codec.WithCompression
	WithZstdLevel   = codec.WithZstdLevel
	WithFrameCodec  = codec.WithFrameCodec
)

// Re-exported compression algorithm tags, for use with WithCompression and
// WithFrameCodec.
const (
	CompressionNone = compress.CompressionNone
	CompressionZstd = compress.CompressionZstd
	CompressionS2   = compress.CompressionS2
	CompressionLZ4  = compress.CompressionLZ4
)

// Encode serializes e as an uncompressed GRC2 frame, using a single
// insertion-ordered encoding pass. This is the fast path: use it when the
// exact byte layout doesn't need to match another encoder's output for the
// same edit.
func Encode(e Edit) ([]byte, error) {
	return codec.Encode(e)
}

// EncodeCanonical serializes e as an uncompressed GRC2 frame with
// byte-deterministic output: dictionaries are built in sorted order, author
// lists are sorted, and duplicate values/unsets are rejected. Two
// implementations encoding the same edit produce identical bytes, which is
// what content-addressing an edit requires.
func EncodeCanonical(e Edit) ([]byte, error) {
	return codec.EncodeCanonical(e)
}

// EncodeCompressed serializes e with Encode, then wraps the result in a
// GRC2Z frame compressed at the given zstd level (level <= 0 uses the
// pooled default-speed encoder).
func EncodeCompressed(e Edit, level int) ([]byte, error) {
	return codec.EncodeCompressed(e, level)
}

// EncodeCanonicalCompressed combines EncodeCanonical's deterministic body
// with GRC2Z framing.
func EncodeCanonicalCompressed(e Edit, level int) ([]byte, error) {
	return codec.EncodeCanonicalCompressed(e, level)
}

// EncodeWith encodes e according to opts, dispatching across the
// Encode/EncodeCanonical/EncodeCompressed/EncodeCanonicalCompressed
// variants. Use this when the chosen mode depends on runtime configuration
// rather than being known at the call site.
//
// Example:
//
//	data, err := grc20.EncodeWith(edit,
//	    grc20.WithCanonical(),
//	    grc20.WithCompression(grc20.CompressionZstd),
//	    grc20.WithZstdLevel(3),
//	)
func EncodeWith(e Edit, opts ...EncodeOption) ([]byte, error) {
	return codec.EncodeWith(e, opts...)
}

// Decode parses data as either a GRC2 or GRC2Z frame and returns the
// decoded edit. A GRC2 frame's Text, Bytes, Schedule, and embedding payloads
// alias data; call Edit.ToOwned before letting data go out of scope if the
// decoded edit needs to outlive it. A GRC2Z frame always decodes to an
// already-owned edit.
func Decode(data []byte) (Edit, error) {
	return codec.Decode(data)
}

// NewRandomID derives a fresh id from input bytes, using the same UUIDv8
// derivation every other GRC-20 id uses. Callers that need a unique id not
// derived from domain data (e.g. a new entity id) typically hash something
// locally unique, such as a UUID or a monotonic counter prefixed with a
// namespace.
func NewRandomID(input []byte) ids.ID {
	return ids.Derived(input)
}

// ParseID parses a 32-character hex string (with or without hyphens) as an
// id.
func ParseID(s string) (ids.ID, error) {
	return ids.Parse(s)
}

// FormatID renders id as 32 lowercase hex characters.
func FormatID(id ids.ID) string {
	return ids.Format(id)
}
