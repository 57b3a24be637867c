package errs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOfMapsFramingAndIndexErrors(t *testing.T) {
	require.Equal(t, CodeInvalidMagicOrVersion, CodeOf(ErrInvalidMagic))
	require.Equal(t, CodeInvalidMagicOrVersion, CodeOf(ErrUnsupportedVersion))
	require.Equal(t, CodeIndexOutOfBounds, CodeOf(ErrIndexOutOfBounds))
	require.Equal(t, CodeInvalidUTF8, CodeOf(ErrInvalidUTF8))
}

func TestCodeOfDefaultsToMalformedEncoding(t *testing.T) {
	require.Equal(t, CodeMalformedEncoding, CodeOf(ErrVarintTooLong))
	require.Equal(t, CodeMalformedEncoding, CodeOf(ErrDuplicateAuthor))
}

// TestCodeOfSeesThroughWrapping mirrors every real call site, which wraps a
// sentinel with fmt.Errorf("%w: detail", ...) rather than returning it bare.
func TestCodeOfSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("decoding edit: %w: found %x", ErrInvalidMagic, []byte{1, 2})
	require.Equal(t, CodeInvalidMagicOrVersion, CodeOf(wrapped))
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrInvalidMagic, ErrUnsupportedVersion, ErrIndexOutOfBounds, ErrInvalidUTF8,
		ErrUnexpectedEOF, ErrVarintTooLong, ErrVarintOverflow, ErrLengthExceedsLimit,
		ErrInvalidOpType, ErrInvalidDataType, ErrInvalidEmbeddingSubType, ErrInvalidBool,
		ErrReservedBitsSet, ErrLatitudeOutOfRange, ErrLongitudeOutOfRange,
		ErrInvalidPositionChar, ErrPositionTooLong, ErrEmbeddingDataMismatch,
		ErrDecimalNotNormalized, ErrDecimalMantissaNotMinimal, ErrFloatIsNaN,
		ErrTimeOutOfRange, ErrOffsetOutOfRange, ErrDuplicateDictionaryEntry,
		ErrDecompressionFailed, ErrCompressionFailed, ErrUncompressedSizeMismatch,
		ErrTooManyOps, ErrTooManyValues, ErrTooManyAuthors, ErrTooManyDictEntries,
		ErrEditTooLarge, ErrDuplicateAuthor, ErrDuplicateValue, ErrDuplicateUnset,
		ErrSchemaTypeMismatch,
	}

	seen := make(map[error]struct{}, len(all))
	for _, e := range all {
		_, dup := seen[e]
		require.False(t, dup, "duplicate sentinel instance: %v", e)
		seen[e] = struct{}{}
		require.NotEmpty(t, e.Error())
	}
}
