package primitives

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20/errs"
)

func TestReaderIntegerRoundTrip(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.WriteU16(0xBEEF)
	w.WriteI16(-1234)
	w.WriteU32(0xDEADBEEF)
	w.WriteI32(-123456)
	w.WriteU64(0x0102030405060708)
	w.WriteI64(-9)
	w.WriteI48(-1)
	w.WriteI48(1 << 40)

	r := NewReader(w.Bytes())

	u16, err := r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xBEEF), u16)

	i16, err := r.ReadI16()
	require.NoError(t, err)
	require.Equal(t, int16(-1234), i16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(-123456), i32)

	u64, err := r.ReadU64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	i64, err := r.ReadI64()
	require.NoError(t, err)
	require.Equal(t, int64(-9), i64)

	negI48, err := r.ReadI48()
	require.NoError(t, err)
	require.Equal(t, int64(-1), negI48)

	posI48, err := r.ReadI48()
	require.NoError(t, err)
	require.Equal(t, int64(1<<40), posI48)
}

func TestReaderStrAndStringAgreeOnContent(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	w.WriteStr("hello")

	data := append([]byte(nil), w.Bytes()...)

	borrowed, err := NewReader(data).ReadStr(len(data))
	require.NoError(t, err)
	require.Equal(t, "hello", borrowed)

	owned, err := NewReader(data).ReadString(len(data))
	require.NoError(t, err)
	require.Equal(t, "hello", owned)
}

func TestReaderStrRejectsInvalidUTF8(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	// WriteByteSlice uses the same varint-length-prefix shape WriteStr does,
	// so this produces a length-prefixed field ReadStr will attempt to
	// UTF-8-validate.
	w.WriteByteSlice([]byte{0xFF, 0xFE})

	_, err := NewReader(w.Bytes()).ReadStr(10)
	require.ErrorIs(t, err, errs.ErrInvalidUTF8)
}

func TestReaderRejectsLengthPrefixOverMax(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	w.WriteStr("this string is longer than four bytes")

	_, err := NewReader(w.Bytes()).ReadStr(4)
	require.ErrorIs(t, err, errs.ErrLengthExceedsLimit)
}

func TestReaderIDVecRejectsCountOverMax(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	w.WriteIDVec([][16]byte{{1}, {2}, {3}})

	_, err := NewReader(w.Bytes()).ReadIDVec(2)
	require.ErrorIs(t, err, errs.ErrLengthExceedsLimit)
}

func TestReaderF64RejectsNaN(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	w.WriteF64(math.NaN())

	_, err := NewReader(w.Bytes()).ReadF64()
	require.ErrorIs(t, err, errs.ErrFloatIsNaN)
}

func TestReaderF64UncheckedAllowsNaN(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	w.WriteF64(math.NaN())

	f, err := NewReader(w.Bytes()).ReadF64Unchecked()
	require.NoError(t, err)
	require.True(t, math.IsNaN(f))
}

func TestReaderByteSliceBorrowedAliasesInput(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	w.WriteByteSlice([]byte{9, 9, 9})
	data := append([]byte(nil), w.Bytes()...)

	got, err := NewReader(data).ReadByteSlice(10)
	require.NoError(t, err)

	data[len(data)-1] = 0
	require.Equal(t, byte(0), got[len(got)-1], "ReadByteSlice must alias the input buffer, not copy it")
}

func TestReaderByteSliceOwnedSurvivesInputMutation(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	w.WriteByteSlice([]byte{9, 9, 9})
	data := append([]byte(nil), w.Bytes()...)

	got, err := NewReader(data).ReadByteSliceOwned(10)
	require.NoError(t, err)

	data[len(data)-1] = 0
	require.Equal(t, byte(9), got[len(got)-1], "ReadByteSliceOwned must copy out of the input buffer")
}

func TestReaderReadBytesRejectsShortInput(t *testing.T) {
	_, err := NewReader([]byte{1, 2}).ReadBytes(5)
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestReaderReadByteRejectsEmptyInput(t *testing.T) {
	_, err := NewReader(nil).ReadByte()
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}
