package codec

import (
	"bytes"
	"fmt"

	"github.com/geobrowser/grc-20/compress"
	"github.com/geobrowser/grc-20/dict"
	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
	"github.com/geobrowser/grc-20/primitives"
)

// MagicUncompressed and MagicCompressed are the 4/5-byte frame prefixes
// identifying the GRC2 (plain) and GRC2Z (zstd-compressed) wire formats.
var (
	MagicUncompressed = [4]byte{'G', 'R', 'C', '2'}
	MagicCompressed   = [5]byte{'G', 'R', 'C', '2', 'Z'}
)

// FormatVersion is the version byte this codec writes. MinFormatVersion is
// the oldest version byte it still accepts on decode.
const (
	FormatVersion    = 1
	MinFormatVersion = 1
)

// Encode writes e in the fast (non-canonical, single-pass) form: ops are
// encoded once, in order, and the dict.Builder accrues dictionary
// entries as it goes.
func Encode(e model.Edit) ([]byte, error) {
	body, err := encodeBody(e)
	if err != nil {
		return nil, err
	}

	return frameUncompressed(body), nil
}

// EncodeCanonical writes e in the canonical (byte-deterministic) form: a
// dry-run pass accrues dictionaries, the builder is sorted, and ops are
// re-encoded against the sorted indices with values/unsets sorted and
// deduplicated.
func EncodeCanonical(e model.Edit) ([]byte, error) {
	body, err := encodeCanonicalBody(e)
	if err != nil {
		return nil, err
	}

	return frameUncompressed(body), nil
}

// EncodeCompressed writes e using Encode, then wraps the result in a GRC2Z
// frame zstd-compressed at level. GRC2Z is always zstd; level only affects
// ratio/speed, never the wire tag.
func EncodeCompressed(e model.Edit, level int) ([]byte, error) {
	body, err := encodeBody(e)
	if err != nil {
		return nil, err
	}

	return frameCompressed(body, level)
}

// EncodeCanonicalCompressed is EncodeCanonical wrapped in a GRC2Z frame.
func EncodeCanonicalCompressed(e model.Edit, level int) ([]byte, error) {
	body, err := encodeCanonicalBody(e)
	if err != nil {
		return nil, err
	}

	return frameCompressed(body, level)
}

// encodeBody writes everything after the magic/version prefix: the header,
// dictionaries, contexts, and ops, for the fast single-pass path.
func encodeBody(e model.Edit) ([]byte, error) {
	if err := validateEditInputs(e); err != nil {
		return nil, err
	}

	b := dict.NewBuilder()
	opsBuf := primitives.NewWriter()
	defer opsBuf.Release()

	for _, op := range e.Ops {
		if err := EncodeOp(opsBuf, b, op); err != nil {
			return nil, err
		}
	}
	if err := b.ValidateLimits(primitives.MaxDictSize); err != nil {
		return nil, err
	}

	out := primitives.NewWriter()
	defer out.Release()

	writeFrameHeader(out, e.Header, e.Header.Authors)
	b.WriteDictionaries(out)
	if err := b.WriteContexts(out); err != nil {
		return nil, err
	}
	out.WriteVarint(uint64(len(e.Ops)))
	out.WriteBytes(opsBuf.Bytes())

	return append([]byte(nil), out.Bytes()...), nil
}

// encodeCanonicalBody is encodeBody's canonical counterpart: a dry run
// accrues dictionaries, IntoSorted produces the canonical form, and ops are
// re-encoded against it.
func encodeCanonicalBody(e model.Edit) ([]byte, error) {
	if err := validateEditInputs(e); err != nil {
		return nil, err
	}

	dry := dict.NewBuilder()
	dryBuf := primitives.NewWriter()
	for _, op := range e.Ops {
		if err := EncodeOp(dryBuf, dry, op); err != nil {
			dryBuf.Release()

			return nil, err
		}
	}
	dryBuf.Release()
	if err := dry.ValidateLimits(primitives.MaxDictSize); err != nil {
		return nil, err
	}

	sorted := dry.IntoSorted()

	authors, err := sortAuthors(e.Header.Authors)
	if err != nil {
		return nil, err
	}

	opsBuf := primitives.NewWriter()
	defer opsBuf.Release()
	for _, op := range e.Ops {
		if err := EncodeOpCanonical(opsBuf, sorted, op); err != nil {
			return nil, err
		}
	}

	out := primitives.NewWriter()
	defer out.Release()

	writeFrameHeader(out, e.Header, authors)
	sorted.WriteDictionaries(out)
	if err := sorted.WriteContexts(out); err != nil {
		return nil, err
	}
	out.WriteVarint(uint64(len(e.Ops)))
	out.WriteBytes(opsBuf.Bytes())

	return append([]byte(nil), out.Bytes()...), nil
}

// frameUncompressed prepends the GRC2 magic and version byte to an encoded
// body.
func frameUncompressed(body []byte) []byte {
	out := primitives.NewWriter()
	defer out.Release()

	out.WriteBytes(MagicUncompressed[:])
	out.WriteByte(FormatVersion)
	out.WriteBytes(body)

	return append([]byte(nil), out.Bytes()...)
}

// frameCompressed prepends the GRC2Z magic, version byte, and declared
// uncompressed size to a zstd-compressed body. level <= 0
// uses the pooled default-speed encoder; any other value builds a one-off
// encoder at that zstd level.
func frameCompressed(body []byte, level int) ([]byte, error) {
	var codec compress.Codec
	if level <= 0 {
		codec = compress.NewZstdCompressor()
	} else {
		codec = compress.NewZstdCompressorLevel(level)
	}

	compressed, err := codec.Compress(body)
	if err != nil {
		return nil, fmt.Errorf("compressing edit frame: %w", err)
	}

	out := primitives.NewWriter()
	defer out.Release()

	out.WriteBytes(MagicCompressed[:])
	out.WriteByte(FormatVersion)
	out.WriteVarint(uint64(len(body)))
	out.WriteBytes(compressed)

	return append([]byte(nil), out.Bytes()...), nil
}

func writeFrameHeader(w *primitives.Writer, h model.Header, authors []ids.ID) {
	w.WriteID(h.ID)
	w.WriteStr(h.Name)
	w.WriteIDVec(authors)
	w.WriteSignedVarint(h.CreatedAt)
}

// validateEditInputs performs the cheap, allocation-free checks that can
// reject an edit before any dictionary or op byte is emitted.
func validateEditInputs(e model.Edit) error {
	if len(e.Header.Name) > primitives.MaxStringLen {
		return fmt.Errorf("%w: header name length %d", errs.ErrLengthExceedsLimit, len(e.Header.Name))
	}
	if len(e.Header.Authors) > primitives.MaxAuthors {
		return fmt.Errorf("%w: %d", errs.ErrTooManyAuthors, len(e.Header.Authors))
	}
	if len(e.Ops) > primitives.MaxOpsPerEdit {
		return fmt.Errorf("%w: %d", errs.ErrTooManyOps, len(e.Ops))
	}

	return nil
}

// Decode dispatches on the frame's magic prefix. A GRC2Z frame is
// decompressed into a freshly-allocated buffer and decoded into a fully
// owned Edit; a GRC2 frame is decoded in-place, with string/[]byte leaves
// borrowing data directly — call Edit.ToOwned before letting data go out of
// scope. Anything else is InvalidMagic.
func Decode(data []byte) (model.Edit, error) {
	if len(data) > primitives.MaxEditSize {
		return model.Edit{}, fmt.Errorf("%w: %d bytes", errs.ErrEditTooLarge, len(data))
	}

	switch {
	case len(data) >= 5 && bytes.Equal(data[:5], MagicCompressed[:]):
		return decodeCompressed(data[5:])
	case len(data) >= 4 && bytes.Equal(data[:4], MagicUncompressed[:]):
		r := primitives.NewReader(data[4:])
		versionByte, err := r.ReadByte()
		if err != nil {
			return model.Edit{}, err
		}
		if versionByte < MinFormatVersion || versionByte > FormatVersion {
			return model.Edit{}, fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, versionByte)
		}

		return decodeFrameBody(r)
	default:
		return model.Edit{}, fmt.Errorf("%w: found %x", errs.ErrInvalidMagic, safePrefix(data, 5))
	}
}

// decodeCompressed reads the version byte, the declared uncompressed size,
// and the zstd stream following the GRC2Z magic, validates the declared
// size against the actual decompressed size and MAX_EDIT_SIZE, and decodes
// the result as an owned Edit.
func decodeCompressed(data []byte) (model.Edit, error) {
	r := primitives.NewReader(data)
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
	if declaredSize > uint64(primitives.MaxEditSize) {
		return model.Edit{}, fmt.Errorf("%w: declared size %d", errs.ErrEditTooLarge, declaredSize)
	}

	stream := r.Remaining()

	body, err := compress.NewZstdCompressor().Decompress(stream)
	if err != nil {
		return model.Edit{}, fmt.Errorf("decompressing edit frame: %w", err)
	}
	if uint64(len(body)) != declaredSize {
		return model.Edit{}, fmt.Errorf("%w: declared %d actual %d", errs.ErrUncompressedSizeMismatch, declaredSize, len(body))
	}
	if len(body) > primitives.MaxEditSize {
		return model.Edit{}, fmt.Errorf("%w: %d bytes", errs.ErrEditTooLarge, len(body))
	}

	e, err := decodeFrameBody(primitives.NewReader(body))
	if err != nil {
		return model.Edit{}, err
	}

	return e.ToOwned(), nil
}

func safePrefix(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}

	return b[:n]
}

// decodeFrameBody decodes an encoded body (header, dictionaries, contexts,
// ops): everything after the frame's version byte, which every caller
// reads and checks itself.
func decodeFrameBody(r *primitives.Reader) (model.Edit, error) {
	id, err := r.ReadID()
	if err != nil {
		return model.Edit{}, err
	}
	name, err := r.ReadStr(primitives.MaxStringLen)
	if err != nil {
		return model.Edit{}, err
	}
	authors, err := r.ReadIDVec(primitives.MaxAuthors)
	if err != nil {
		return model.Edit{}, err
	}
	createdAt, err := r.ReadSignedVarint()
	if err != nil {
		return model.Edit{}, err
	}

	d, err := decodeDictionaries(r)
	if err != nil {
		return model.Edit{}, err
	}

	opCount, err := r.ReadVarint()
	if err != nil {
		return model.Edit{}, err
	}
	if opCount > primitives.MaxOpsPerEdit {
		return model.Edit{}, fmt.Errorf("%w: %d", errs.ErrTooManyOps, opCount)
	}

	ops := make([]model.Op, 0, opCount)
	for range opCount {
		op, err := DecodeOp(r, d)
		if err != nil {
			return model.Edit{}, err
		}
		ops = append(ops, op)
	}

	return model.Edit{
		Header: model.Header{ID: id, Name: name, Authors: authors, CreatedAt: createdAt},
		Contexts: d.contexts,
		Ops:      ops,
	}, nil
}

func decodeDictionaries(r *primitives.Reader) (*decodedDicts, error) {
	propCount, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if propCount > primitives.MaxDictSize {
		return nil, fmt.Errorf("%w: properties %d", errs.ErrTooManyDictEntries, propCount)
	}
	propIDs := make([]ids.ID, 0, propCount)
	propTypes := make([]model.DataType, 0, propCount)
	seen := make(map[ids.ID]struct{}, propCount)
	for range propCount {
		id, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, errs.ErrDuplicateDictionaryEntry
		}
		seen[id] = struct{}{}
		tagByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		dt, err := model.DataTypeFromByte(tagByte)
		if err != nil {
			return nil, err
		}
		propIDs = append(propIDs, id)
		propTypes = append(propTypes, dt)
	}

	relationTypes, err := readDedupedIDVec(r, primitives.MaxDictSize)
	if err != nil {
		return nil, err
	}
	languages, err := readDedupedIDVec(r, primitives.MaxDictSize)
	if err != nil {
		return nil, err
	}
	units, err := readDedupedIDVec(r, primitives.MaxDictSize)
	if err != nil {
		return nil, err
	}
	objects, err := readDedupedIDVec(r, primitives.MaxDictSize)
	if err != nil {
		return nil, err
	}
	contextIDs, err := readDedupedIDVec(r, primitives.MaxDictSize)
	if err != nil {
		return nil, err
	}

	contexts, err := decodeContexts(r, relationTypes, contextIDs)
	if err != nil {
		return nil, err
	}

	return &decodedDicts{
		propertyIDs:   propIDs,
		propertyTypes: propTypes,
		relationTypes: relationTypes,
		languages:     languages,
		units:         units,
		objects:       objects,
		contextIDs:    contextIDs,
		contexts:      contexts,
		maxBytes:      primitives.MaxBytesLen,
		maxEmbedDims:  primitives.MaxEmbeddingDims,
		maxEmbedBytes: primitives.MaxEmbeddingBytes,
	}, nil
}

func readDedupedIDVec(r *primitives.Reader, max int) ([]ids.ID, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(max) {
		return nil, fmt.Errorf("%w: %d", errs.ErrTooManyDictEntries, n)
	}
	out := make([]ids.ID, 0, n)
	seen := make(map[ids.ID]struct{}, n)
	for range n {
		id, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, errs.ErrDuplicateDictionaryEntry
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out, nil
}

func decodeContexts(r *primitives.Reader, relationTypes, contextIDs []ids.ID) ([]model.Context, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(primitives.MaxDictSize) {
		return nil, fmt.Errorf("%w: contexts %d", errs.ErrTooManyDictEntries, n)
	}

	out := make([]model.Context, 0, n)
	for range n {
		rootRef, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		if rootRef >= uint64(len(contextIDs)) {
			return nil, fmt.Errorf("%w: context root index %d size %d", errs.ErrIndexOutOfBounds, rootRef, len(contextIDs))
		}
		edgeCount, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		if edgeCount > uint64(primitives.MaxDictSize) {
			return nil, fmt.Errorf("%w: context edges %d", errs.ErrTooManyDictEntries, edgeCount)
		}
		edges := make([]model.ContextEdge, 0, edgeCount)
		for range edgeCount {
			typeRef, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			if typeRef >= uint64(len(relationTypes)) {
				return nil, fmt.Errorf("%w: context edge type index %d size %d", errs.ErrIndexOutOfBounds, typeRef, len(relationTypes))
			}
			toRef, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			if toRef >= uint64(len(contextIDs)) {
				return nil, fmt.Errorf("%w: context edge target index %d size %d", errs.ErrIndexOutOfBounds, toRef, len(contextIDs))
			}
			edges = append(edges, model.ContextEdge{TypeID: relationTypes[typeRef], ToEntityID: contextIDs[toRef]})
		}
		out = append(out, model.Context{RootID: contextIDs[rootRef], Edges: edges})
	}

	return out, nil
}
