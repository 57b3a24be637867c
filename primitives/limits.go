package primitives

// Size and count limits enforced by the codec.
//
// These are compile-time constants (plain typed constants rather than a
// runtime config file) — the codec has no config surface beyond the
// functional options in package codec.
const (
	// MaxEditSize is the hard ceiling on a single edit's uncompressed size.
	MaxEditSize = 256 * 1024 * 1024

	// MaxStringLen bounds the edit name and other free-text UTF-8 fields.
	MaxStringLen = 1 << 20

	// MaxBytesLen bounds a Bytes value payload.
	MaxBytesLen = 16 * 1024 * 1024

	// MaxPositionLen bounds a relation position string.
	MaxPositionLen = 64

	// MaxAuthors bounds the edit header's author list.
	MaxAuthors = 64

	// MaxDictSize bounds every dictionary table and every context's edge
	// count. Must stay well below the 0xFFFFFFFF sentinel so sentinel
	// values never collide with a real index.
	MaxDictSize = 1 << 24

	// MaxOpsPerEdit bounds the op list.
	MaxOpsPerEdit = 1 << 20

	// MaxValuesPerEntity bounds CreateEntity.Values and
	// UpdateEntity.SetProperties/UnsetValues.
	MaxValuesPerEntity = 1 << 16

	// MaxEmbeddingDims bounds Embedding.Dims.
	MaxEmbeddingDims = 1 << 20

	// MaxEmbeddingBytes bounds an Embedding value's raw payload.
	MaxEmbeddingBytes = 8 * 1024 * 1024

	// MaxVarintBytes is the maximum number of continuation bytes a LEB128
	// varint may use; a 64-bit value never needs more than 10.
	MaxVarintBytes = 10
)

// NoLanguage / NoUnit are the dictionary-index-0 sentinels: the absence of
// a language or unit reference, never a real dictionary[0] entry.
const (
	NoLanguage uint32 = 0
	NoUnit     uint32 = 0
)

// NoContext is the context-ref sentinel meaning "this op carries no context".
const NoContext uint32 = 0xFFFFFFFF

// AllLanguages is the UnsetValue.Language sentinel meaning "clear every
// language slot for this property".
const AllLanguages uint32 = 0xFFFFFFFF
