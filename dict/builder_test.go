package dict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
)

func TestBuilderAddPropertyIsIdempotent(t *testing.T) {
	b := NewBuilder()
	prop := ids.Derived([]byte("prop"))

	first := b.AddProperty(prop, model.DataTypeText, false)
	second := b.AddProperty(prop, model.DataTypeText, false)
	require.Equal(t, first, second)

	dt, ok := b.PropertyDataType(first)
	require.True(t, ok)
	require.Equal(t, model.DataTypeText, dt)
}

func TestBuilderAddPropertyUpgradesPlaceholder(t *testing.T) {
	b := NewBuilder()
	prop := ids.Derived([]byte("prop"))

	idx := b.AddProperty(prop, model.DataTypeBool, true)
	same := b.AddProperty(prop, model.DataTypeInt64, false)
	require.Equal(t, idx, same)

	dt, ok := b.PropertyDataType(idx)
	require.True(t, ok)
	require.Equal(t, model.DataTypeInt64, dt)
}

func TestBuilderAddPropertyDoesNotDowngradeRealType(t *testing.T) {
	b := NewBuilder()
	prop := ids.Derived([]byte("prop"))

	idx := b.AddProperty(prop, model.DataTypeInt64, false)
	b.AddProperty(prop, model.DataTypeBool, true)

	dt, ok := b.PropertyDataType(idx)
	require.True(t, ok)
	require.Equal(t, model.DataTypeInt64, dt, "a later placeholder call must not overwrite an already-established real type")
}

func TestBuilderLanguageAndUnitNilIsIndexZero(t *testing.T) {
	b := NewBuilder()
	require.Equal(t, uint32(0), b.AddLanguage(nil))
	require.Equal(t, uint32(0), b.AddUnit(nil))

	idx, ok := b.GetLanguageIndex(nil)
	require.True(t, ok)
	require.Equal(t, uint32(0), idx)
}

func TestBuilderLanguageIndexingStartsAtOne(t *testing.T) {
	b := NewBuilder()
	lang := ids.Derived([]byte("en"))

	idx := b.AddLanguage(&lang)
	require.Equal(t, uint32(1), idx)

	got, ok := b.GetLanguageIndex(&lang)
	require.True(t, ok)
	require.Equal(t, uint32(1), got)
}

func TestBuilderAddContextDeduplicatesStructurally(t *testing.T) {
	b := NewBuilder()
	root := ids.Derived([]byte("root"))
	typeID := ids.Derived([]byte("edge-type"))
	to := ids.Derived([]byte("to"))

	ctx := model.Context{RootID: root, Edges: []model.ContextEdge{{TypeID: typeID, ToEntityID: to}}}

	first := b.AddContext(ctx)
	second := b.AddContext(ctx)
	require.Equal(t, first, second)
	require.Len(t, b.Contexts(), 1)
}

func TestBuilderValidateLimitsRejectsOversizedDictionary(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 5; i++ {
		b.AddObject(ids.Derived([]byte{byte(i)}))
	}

	require.NoError(t, b.ValidateLimits(5))
	require.Error(t, b.ValidateLimits(4))
}

func TestBuilderValidateLimitsRejectsOversizedContextEdgeCount(t *testing.T) {
	b := NewBuilder()
	edges := make([]model.ContextEdge, 3)
	for i := range edges {
		edges[i] = model.ContextEdge{TypeID: ids.Derived([]byte{byte(i)}), ToEntityID: ids.Derived([]byte{byte(i + 10)})}
	}
	b.AddContext(model.Context{RootID: ids.Derived([]byte("root")), Edges: edges})

	require.Error(t, b.ValidateLimits(2))
}
