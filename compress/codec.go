package compress

import "fmt"

// CompressionType identifies a compression algorithm for an edit's encoded
// body. The GRC2Z frame always uses zstd; the other values select codecs
// for the G2CX cache frame.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // No compression.
	CompressionZstd CompressionType = 0x2 // Zstandard.
	CompressionS2   CompressionType = 0x3 // S2 (Snappy-derived).
	CompressionLZ4  CompressionType = 0x4 // LZ4.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Compressor compresses an encoded edit body (dictionaries, contexts, and
// ops, already wire-formatted) for the GRC2Z or G2CX frame.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller, except
//     that NoOpCompressor returns its input slice
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor. Implementations validate the input
// and return an error on corrupt or truncated data rather than panicking.
//
// Thread Safety: implementations must be safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats carries before/after sizes and timings for an
// Encode/Decode call, useful for monitoring frame overhead.
type CompressionStats struct {
	Algorithm           CompressionType
	OriginalSize        int64
	CompressedSize      int64
	Ratio               float64
	CompressionTimeNs   int64
	DecompressionTimeNs int64
}

// CompressionRatio returns compressed size / original size. Values under 1.0
// indicate the frame is smaller than the uncompressed body.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns space saved as a percentage (0-100).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function returning a Codec for the requested
// algorithm. target names the caller for error messages.
func CreateCodec(compressionType CompressionType, target string) (Codec, error) {
	switch compressionType {
	case CompressionNone:
		return NewNoOpCompressor(), nil
	case CompressionZstd:
		return NewZstdCompressor(), nil
	case CompressionS2:
		return NewS2Compressor(), nil
	case CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[CompressionType]Codec{
	CompressionNone: NewNoOpCompressor(),
	CompressionZstd: NewZstdCompressor(),
	CompressionS2:   NewS2Compressor(),
	CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a shared, built-in Codec instance for compressionType.
func GetCodec(compressionType CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
