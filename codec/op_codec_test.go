package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
	"github.com/geobrowser/grc-20/primitives"
)

func TestDecodeUpdateEntityRejectsReservedBits(t *testing.T) {
	obj := ids.Derived([]byte("entity"))
	w := primitives.NewWriter()
	defer w.Release()

	w.WriteByte(byte(model.OpUpdateEntity))
	w.WriteVarint(0) // object ref -> objects[0]
	w.WriteByte(0x80) // a reserved bit set, no real flags
	w.WriteVarint(0)  // context ref (never read: the flag check fails first)

	d := &decodedDicts{objects: []ids.ID{obj}, contexts: nil}
	_, err := DecodeOp(primitives.NewReader(w.Bytes()), d)
	require.ErrorIs(t, err, errs.ErrReservedBitsSet)
}

func TestDecodeCreateValueRefRejectsReservedBits(t *testing.T) {
	entity := ids.Derived([]byte("entity"))
	prop := ids.Derived([]byte("prop"))
	w := primitives.NewWriter()
	defer w.Release()

	w.WriteByte(byte(model.OpCreateValueRef))
	w.WriteID(ids.Derived([]byte("valueref")))
	w.WriteVarint(0) // entity ref
	w.WriteVarint(0) // property ref
	w.WriteByte(0x80) // reserved bit set
	w.WriteVarint(0)  // context ref (never read: the flag check fails first)

	d := &decodedDicts{
		objects:       []ids.ID{entity},
		propertyIDs:   []ids.ID{prop},
		propertyTypes: []model.DataType{model.DataTypeBool},
	}
	_, err := DecodeOp(primitives.NewReader(w.Bytes()), d)
	require.ErrorIs(t, err, errs.ErrReservedBitsSet)
}

func TestDecodeUpdateRelationRejectsReservedSetBits(t *testing.T) {
	rel := ids.Derived([]byte("relation"))
	w := primitives.NewWriter()
	defer w.Release()

	w.WriteByte(byte(model.OpUpdateRelation))
	w.WriteVarint(0)  // object ref
	w.WriteByte(0x20) // set flags: a reserved bit
	w.WriteByte(0)    // unset flags
	w.WriteVarint(0)  // context ref (never read: the flag check fails first)

	d := &decodedDicts{objects: []ids.ID{rel}}
	_, err := DecodeOp(primitives.NewReader(w.Bytes()), d)
	require.ErrorIs(t, err, errs.ErrReservedBitsSet)
}

func TestDecodeUpdateRelationRejectsReservedUnsetBits(t *testing.T) {
	rel := ids.Derived([]byte("relation"))
	w := primitives.NewWriter()
	defer w.Release()

	w.WriteByte(byte(model.OpUpdateRelation))
	w.WriteVarint(0)  // object ref
	w.WriteByte(0)    // set flags
	w.WriteByte(0x20) // unset flags: a reserved bit
	w.WriteVarint(0)  // context ref (never read: the flag check fails first)

	d := &decodedDicts{objects: []ids.ID{rel}}
	_, err := DecodeOp(primitives.NewReader(w.Bytes()), d)
	require.ErrorIs(t, err, errs.ErrReservedBitsSet)
}

func TestCreateRelationRoundTripAllFlags(t *testing.T) {
	relType := ids.Derived([]byte("rel-type"))
	fromSpace := ids.Derived([]byte("from-space"))
	fromVersion := ids.Derived([]byte("from-version"))
	toSpace := ids.Derived([]byte("to-space"))
	toVersion := ids.Derived([]byte("to-version"))
	entity := ids.Derived([]byte("reified-entity"))
	position := "a0"

	op := model.CreateRelation{
		ID:             ids.Derived([]byte("relation")),
		RelationType:   relType,
		From:           ids.Derived([]byte("value-from")),
		FromIsValueRef: true,
		FromSpace:      &fromSpace,
		FromVersion:    &fromVersion,
		To:             ids.Derived([]byte("value-to")),
		ToIsValueRef:   true,
		ToSpace:        &toSpace,
		ToVersion:      &toVersion,
		Entity:         &entity,
		Position:       &position,
	}

	edit := model.Edit{Header: model.Header{ID: ids.Derived([]byte("edit"))}, Ops: []model.Op{op}}

	data, err := Encode(edit)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, op, decoded.Ops[0])
}

func TestUpdateRelationRoundTripWithUnset(t *testing.T) {
	toSpace := ids.Derived([]byte("to-space"))
	op := model.UpdateRelation{
		ID:      ids.Derived([]byte("relation")),
		ToSpace: &toSpace,
		Unset:   []model.UnsetRelationField{model.UnsetFromSpace, model.UnsetPosition},
	}

	edit := model.Edit{Header: model.Header{ID: ids.Derived([]byte("edit"))}, Ops: []model.Op{op}}

	data, err := Encode(edit)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, op, decoded.Ops[0])
}

func TestCreateValueRefRoundTripWithLanguageAndSpace(t *testing.T) {
	lang := ids.Derived([]byte("en"))
	space := ids.Derived([]byte("space"))
	entity := ids.Derived([]byte("entity"))
	prop := ids.Derived([]byte("title"))

	edit := model.Edit{
		Header: model.Header{ID: ids.Derived([]byte("edit"))},
		Ops: []model.Op{
			model.CreateEntity{
				ID: entity,
				Values: []model.PropertyValue{
					{Property: prop, Value: model.Value{Kind: model.DataTypeText, Text: "a title"}},
				},
			},
			model.CreateValueRef{
				ID:       ids.Derived([]byte("valueref")),
				Entity:   entity,
				Property: prop,
				Language: &lang,
				Space:    &space,
			},
		},
	}

	data, err := Encode(edit)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	ref, ok := decoded.Ops[1].(model.CreateValueRef)
	require.True(t, ok)
	require.NotNil(t, ref.Language)
	require.Equal(t, lang, *ref.Language)
	require.NotNil(t, ref.Space)
	require.Equal(t, space, *ref.Space)
}

func TestDecodeRejectsUnknownOpTag(t *testing.T) {
	w := primitives.NewWriter()
	defer w.Release()
	w.WriteByte(0xEE)

	d := &decodedDicts{}
	_, err := DecodeOp(primitives.NewReader(w.Bytes()), d)
	require.ErrorIs(t, err, errs.ErrInvalidOpType)
}

