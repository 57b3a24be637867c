package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
)

func editWithValue(property ids.ID, v model.Value) model.Edit {
	return model.Edit{
		Ops: []model.Op{
			model.CreateEntity{
				ID:     ids.Derived([]byte("entity")),
				Values: []model.PropertyValue{{Property: property, Value: v}},
			},
		},
	}
}

func TestValidateEditTypeMismatch(t *testing.T) {
	property := ids.Derived([]byte("property"))

	var ctx Context
	ctx.AddProperty(property, model.DataTypeInt64)

	edit := editWithValue(property, model.Value{Kind: model.DataTypeText, Text: "not an int"})

	err := ctx.ValidateEdit(edit)
	require.ErrorIs(t, err, errs.ErrSchemaTypeMismatch)
}

func TestValidateEditTypeMatch(t *testing.T) {
	property := ids.Derived([]byte("property"))

	var ctx Context
	ctx.AddProperty(property, model.DataTypeInt64)

	edit := editWithValue(property, model.Value{Kind: model.DataTypeInt64, Int64: 42})

	require.NoError(t, ctx.ValidateEdit(edit))
}

func TestValidateEditUnknownPropertyAllowed(t *testing.T) {
	var ctx Context // empty schema

	edit := editWithValue(ids.Derived([]byte("unregistered")), model.Value{Kind: model.DataTypeText, Text: "test"})

	require.NoError(t, ctx.ValidateEdit(edit))
}

func TestPropertyTypeOverwrite(t *testing.T) {
	property := ids.Derived([]byte("property"))

	var ctx Context
	ctx.AddProperty(property, model.DataTypeInt64)
	ctx.AddProperty(property, model.DataTypeBool)

	got, ok := ctx.PropertyType(property)
	require.True(t, ok)
	require.Equal(t, model.DataTypeBool, got)
}
