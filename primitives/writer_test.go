package primitives

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterBytesTracksLen(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.WriteByte(1)
	w.WriteBytes([]byte{2, 3, 4})
	require.Equal(t, 4, w.Len())
	require.Equal(t, []byte{1, 2, 3, 4}, w.Bytes())
}

func TestWriterWriteIDVecRoundTrip(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	idList := [][16]byte{{1}, {2}, {3}}
	w.WriteIDVec(idList)

	r := NewReader(w.Bytes())
	got, err := r.ReadIDVec(10)
	require.NoError(t, err)
	require.Equal(t, idList, got)
}

func TestWriterSignedVarintRoundTripsNegativeValues(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.WriteSignedVarint(-1)
	w.WriteSignedVarint(42)
	w.WriteSignedVarint(-1_000_000)

	r := NewReader(w.Bytes())
	v1, err := r.ReadSignedVarint()
	require.NoError(t, err)
	require.Equal(t, int64(-1), v1)

	v2, err := r.ReadSignedVarint()
	require.NoError(t, err)
	require.Equal(t, int64(42), v2)

	v3, err := r.ReadSignedVarint()
	require.NoError(t, err)
	require.Equal(t, int64(-1_000_000), v3)
}
