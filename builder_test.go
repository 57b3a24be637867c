package grc20

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
)

func TestEditBuilderCreateAndUpdateEntity(t *testing.T) {
	author := ids.Derived([]byte("author"))
	entity := ids.Derived([]byte("entity"))
	property := ids.Derived([]byte("property"))
	other := ids.Derived([]byte("other-property"))

	edit, err := NewEdit("demo", author).
		CreateEntity(entity, func(e *EntityBuilder) {
			e.Int64(property, 42, nil)
		}).
		UpdateEntity(entity, func(u *UpdateEntityBuilder) {
			u.Set(other, model.Value{Kind: model.DataTypeBool, Bool: true})
			u.Unset(property)
		}).
		Build()
	require.NoError(t, err)
	require.Len(t, edit.Ops, 2)

	create, ok := edit.Ops[0].(model.CreateEntity)
	require.True(t, ok)
	require.Equal(t, entity, create.ID)
	require.Len(t, create.Values, 1)

	update, ok := edit.Ops[1].(model.UpdateEntity)
	require.True(t, ok)
	require.Len(t, update.SetProperties, 1)
	require.Len(t, update.UnsetValues, 1)
	require.Equal(t, model.UnsetAll, update.UnsetValues[0].Language.Kind)
}

func TestEditBuilderCreateRelation(t *testing.T) {
	author := ids.Derived([]byte("author"))
	relationID := ids.Derived([]byte("relation"))
	relationType := ids.Derived([]byte("relation-type"))
	from := ids.Derived([]byte("from"))
	to := ids.Derived([]byte("to"))

	edit, err := NewEdit("demo", author).
		CreateRelation(relationID, func(r *RelationBuilder) {
			r.Type(relationType).From(from).To(to).Position("a0")
		}).
		Build()
	require.NoError(t, err)
	require.Len(t, edit.Ops, 1)

	rel, ok := edit.Ops[0].(model.CreateRelation)
	require.True(t, ok)
	require.Equal(t, relationType, rel.RelationType)
	require.Equal(t, from, rel.From)
	require.Equal(t, to, rel.To)
	require.Equal(t, "a0", *rel.Position)
	require.False(t, rel.HasExplicitEntity())
	require.Equal(t, ids.RelationEntityID(relationID), rel.EntityID())
}

func TestEditBuilderCreateRelationMissingEndpointFails(t *testing.T) {
	author := ids.Derived([]byte("author"))
	relationID := ids.Derived([]byte("relation"))

	_, err := NewEdit("demo", author).
		CreateRelation(relationID, func(r *RelationBuilder) {
			r.From(ids.Derived([]byte("from")))
		}).
		Build()
	require.Error(t, err)
}

func TestEditBuilderContextOnDeleteEntity(t *testing.T) {
	author := ids.Derived([]byte("author"))
	root := ids.Derived([]byte("root"))
	typeID := ids.Derived([]byte("edge-type"))
	toEntity := ids.Derived([]byte("to-entity"))
	entity := ids.Derived([]byte("entity"))

	ctx := Ctx(root, Edge(typeID, toEntity))

	edit, err := NewEdit("demo", author).
		DeleteEntity(entity, ctx).
		Build()
	require.NoError(t, err)

	del, ok := edit.Ops[0].(model.DeleteEntity)
	require.True(t, ok)
	require.NotNil(t, del.Context)
	require.Equal(t, root, del.Context.RootID)
	require.Len(t, del.Context.Edges, 1)
}
