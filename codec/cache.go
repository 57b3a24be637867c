package codec

import (
	"fmt"

	"github.com/geobrowser/grc-20/compress"
	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/model"
	"github.com/geobrowser/grc-20/primitives"
)

// magicCache tags a local, non-interop cache frame: same body as Encode, a
// different compressor, and no claim to match another implementation's
// bytes. Never written to the network or a .g20 file — GRC2Z is always
// zstd.
var magicCache = [4]byte{'G', '2', 'C', 'X'}

// EncodeCache encodes e and compresses the body with codec (typically LZ4
// or S2 via WithFrameCodec, chosen for decompression speed over ratio),
// for local caching of decoded edits where cross-implementation byte
// compatibility doesn't matter.
func EncodeCache(e model.Edit, codec compress.Codec) ([]byte, error) {
	body, err := encodeBody(e)
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(body)
	if err != nil {
		return nil, fmt.Errorf("compressing cache frame: %w", err)
	}

	out := primitives.NewWriter()
	defer out.Release()

	out.WriteBytes(magicCache[:])
	out.WriteByte(FormatVersion)
	out.WriteVarint(uint64(len(body)))
	out.WriteBytes(compressed)

	return append([]byte(nil), out.Bytes()...), nil
}

// DecodeCache reverses EncodeCache with the matching codec.
func DecodeCache(data []byte, codec compress.Codec) (model.Edit, error) {
	if len(data) < 4 || string(data[:4]) != string(magicCache[:]) {
		return model.Edit{}, fmt.Errorf("%w: found %x", errs.ErrInvalidMagic, safePrefix(data, 4))
	}

	r := primitives.NewReader(data[4:])
	versionByte, err := r.ReadByte()
	if err != nil {
		return model.Edit{}, err
	}
	if versionByte < MinFormatVersion || versionByte > FormatVersion {
		return model.Edit{}, fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, versionByte)
	}
	declaredSize, err := r.ReadVarint()
	if err != nil {
		return model.Edit{}, err
	}

	body, err := codec.Decompress(r.Remaining())
	if err != nil {
		return model.Edit{}, fmt.Errorf("decompressing cache frame: %w", err)
	}
	if uint64(len(body)) != declaredSize {
		return model.Edit{}, fmt.Errorf("%w: declared %d actual %d", errs.ErrUncompressedSizeMismatch, declaredSize, len(body))
	}

	e, err := decodeFrameBody(primitives.NewReader(body))
	if err != nil {
		return model.Edit{}, err
	}

	return e.ToOwned(), nil
}
