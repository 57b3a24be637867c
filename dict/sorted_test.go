package dict

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
)

func TestIntoSortedOrdersPropertiesByRawBytes(t *testing.T) {
	b := NewBuilder()
	p1 := ids.Derived([]byte("zzz"))
	p2 := ids.Derived([]byte("aaa"))
	b.AddProperty(p1, model.DataTypeBool, false)
	b.AddProperty(p2, model.DataTypeText, false)

	sorted := b.IntoSorted()

	idx1, ok := sorted.GetPropertyIndex(p1)
	require.True(t, ok)
	idx2, ok := sorted.GetPropertyIndex(p2)
	require.True(t, ok)

	if bytes.Compare(p2[:], p1[:]) < 0 {
		require.Less(t, idx2, idx1)
	} else {
		require.Less(t, idx1, idx2)
	}
}

// TestIntoSortedIsStableAcrossInsertionOrder is the dictionary half of
// canonical determinism: two builders that saw the same id set in different
// insertion orders must land on identical sorted indices.
func TestIntoSortedIsStableAcrossInsertionOrder(t *testing.T) {
	forward := []ids.ID{ids.Derived([]byte("c")), ids.Derived([]byte("a")), ids.Derived([]byte("b"))}
	reverse := []ids.ID{ids.Derived([]byte("b")), ids.Derived([]byte("a")), ids.Derived([]byte("c"))}

	b1 := NewBuilder()
	for _, id := range forward {
		b1.AddObject(id)
	}
	b2 := NewBuilder()
	for _, id := range reverse {
		b2.AddObject(id)
	}

	s1 := b1.IntoSorted()
	s2 := b2.IntoSorted()

	for _, id := range forward {
		i1, ok1 := s1.GetObjectIndex(id)
		i2, ok2 := s2.GetObjectIndex(id)
		require.True(t, ok1)
		require.True(t, ok2)
		require.Equal(t, i1, i2)
	}
}

func TestIntoSortedRemapsContextReferences(t *testing.T) {
	b := NewBuilder()
	root := ids.Derived([]byte("zzz-root"))
	typeID := ids.Derived([]byte("zzz-type"))
	to := ids.Derived([]byte("aaa-to"))

	ctx := model.Context{RootID: root, Edges: []model.ContextEdge{{TypeID: typeID, ToEntityID: to}}}
	b.AddContext(ctx)

	sorted := b.IntoSorted()
	require.Len(t, sorted.Contexts(), 1)
	require.Equal(t, root, sorted.Contexts()[0].RootID)
	require.Equal(t, typeID, sorted.Contexts()[0].Edges[0].TypeID)
	require.Equal(t, to, sorted.Contexts()[0].Edges[0].ToEntityID)

	idx, ok := sorted.ContextIndex(ctx)
	require.True(t, ok)
	require.Equal(t, uint32(0), idx)
}

func TestSortedAddPropertyIsIdempotent(t *testing.T) {
	b := NewBuilder()
	prop := ids.Derived([]byte("prop"))
	b.AddProperty(prop, model.DataTypeBool, false)

	sorted := b.IntoSorted()
	first := sorted.AddProperty(prop, model.DataTypeBool, false)
	second := sorted.AddProperty(prop, model.DataTypeBool, false)
	require.Equal(t, first, second)
}
