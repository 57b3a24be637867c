// Package compress provides the frame-body compression codecs used by the
// GRC2Z (compressed) edit frame.
//
// An edit's wire body (header, dictionaries, contexts, and ops) is a
// varint-dense byte stream with a lot of repeated property/relation/context
// ids, which compresses well. The GRC2Z frame compresses that whole body
// with zstd, after encoding:
//
//	GRC2Z || format_version || declared_uncompressed_size || compressed_body
//
// # Supported Algorithms
//
//   - Zstd: best ratio; the only algorithm the GRC2Z frame uses
//   - None: no compression
//   - S2: Snappy-derived, favors throughput over ratio
//   - LZ4: fastest decompression, favors read-heavy fan-out
//
// None, S2 and LZ4 are available to the local G2CX cache frame
// (codec.WithFrameCodec / codec.EncodeCache), never to GRC2Z.
//
// # Architecture
//
// Three interfaces compose the package:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// CreateCodec/GetCodec resolve a CompressionType to a concrete Codec. The
// codec package does not go through them: its GRC2Z framing constructs the
// zstd codec directly, and its G2CX cache framing uses whatever Codec the
// caller passes.
//
// # Memory Management
//
// The pure-Go (!cgo) Zstd codec pools its encoders and decoders, and LZ4
// pools its block compressors (sync.Pool). The cgo Zstd codec, S2 and NoOp
// do not pool.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use.
package compress
