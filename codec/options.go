package codec

import (
	"fmt"

	"github.com/geobrowser/grc-20/compress"
	"github.com/geobrowser/grc-20/internal/options"
	"github.com/geobrowser/grc-20/model"
)

// EncodeConfig holds the resolved settings for EncodeWith: canonical vs.
// fast encoding, and whether/how the result is framed as GRC2Z.
type EncodeConfig struct {
	canonical   bool
	compress    bool
	zstdLevel   int
	frameCodec  compress.Codec
	frameIsZstd bool
}

// NewEncodeConfig returns the defaults EncodeWith starts from: fast
// (non-canonical) encoding, uncompressed GRC2 framing.
func NewEncodeConfig() *EncodeConfig {
	return &EncodeConfig{frameIsZstd: true}
}

// EncodeOption represents a functional option for configuring EncodeConfig,
// specialized from the shared generic Option type.
type EncodeOption = options.Option[*EncodeConfig]

// WithCanonical selects the canonical (byte-deterministic) encode path
// instead of the default fast single-pass path.
func WithCanonical() EncodeOption {
	return options.NoError(func(c *EncodeConfig) {
		c.canonical = true
	})
}

// WithCompression wraps the result in a GRC2Z frame.
// The wire format always compresses with zstd; algo other than
// compress.CompressionZstd is rejected since GRC2Z is not a pluggable
// algorithm slot on the interop wire format.
func WithCompression(algo compress.CompressionType) EncodeOption {
	return options.New(func(c *EncodeConfig) error {
		if algo != compress.CompressionZstd {
			return fmt.Errorf("grc2z frame compression is always zstd, got %s", algo)
		}
		c.compress = true

		return nil
	})
}

// WithZstdLevel sets the zstd encoder level used when WithCompression is
// also given. level <= 0 uses the pooled default-speed encoder.
func WithZstdLevel(level int) EncodeOption {
	return options.NoError(func(c *EncodeConfig) {
		c.zstdLevel = level
	})
}

// WithFrameCodec overrides the algorithm used to compress a *local cache*
// frame produced by EncodeCache (never the interop GRC2Z frame, which is
// always zstd). Useful for decoded-edit caches where read latency matters
// more than cross-implementation compatibility.
func WithFrameCodec(codec compress.Codec) EncodeOption {
	return options.NoError(func(c *EncodeConfig) {
		c.frameCodec = codec
		c.frameIsZstd = false
	})
}

// EncodeWith applies opts to the default EncodeConfig and encodes e
// accordingly, dispatching to Encode/EncodeCanonical/EncodeCompressed/
// EncodeCanonicalCompressed/EncodeCache.
func EncodeWith(e model.Edit, opts ...EncodeOption) ([]byte, error) {
	cfg := NewEncodeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if !cfg.frameIsZstd {
		return EncodeCache(e, cfg.frameCodec)
	}

	switch {
	case cfg.canonical && cfg.compress:
		return EncodeCanonicalCompressed(e, cfg.zstdLevel)
	case cfg.compress:
		return EncodeCompressed(e, cfg.zstdLevel)
	case cfg.canonical:
		return EncodeCanonical(e)
	default:
		return Encode(e)
	}
}
