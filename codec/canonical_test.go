package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
)

// TestEncodeCanonicalIsOrderIndependent is the concrete determinism example:
// two edits that differ only in author order and value order must encode to
// byte-identical canonical frames.
func TestEncodeCanonicalIsOrderIndependent(t *testing.T) {
	authorA := ids.Derived([]byte("author-a"))
	authorB := ids.Derived([]byte("author-b"))
	entity := ids.Derived([]byte("entity"))
	propName := ids.Derived([]byte("name"))
	propAge := ids.Derived([]byte("age"))

	base := model.Edit{
		Header: model.Header{ID: ids.Derived([]byte("edit")), Authors: []ids.ID{authorA, authorB}},
		Ops: []model.Op{
			model.CreateEntity{
				ID: entity,
				Values: []model.PropertyValue{
					{Property: propName, Value: model.Value{Kind: model.DataTypeText, Text: "Rome"}},
					{Property: propAge, Value: model.Value{Kind: model.DataTypeInt64, Int64: 5}},
				},
			},
		},
	}
	reordered := model.Edit{
		Header: model.Header{ID: base.Header.ID, Authors: []ids.ID{authorB, authorA}},
		Ops: []model.Op{
			model.CreateEntity{
				ID: entity,
				Values: []model.PropertyValue{
					{Property: propAge, Value: model.Value{Kind: model.DataTypeInt64, Int64: 5}},
					{Property: propName, Value: model.Value{Kind: model.DataTypeText, Text: "Rome"}},
				},
			},
		},
	}

	a, err := EncodeCanonical(base)
	require.NoError(t, err)
	b, err := EncodeCanonical(reordered)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEncodeCanonicalRejectsDuplicateValue(t *testing.T) {
	entity := ids.Derived([]byte("entity"))
	prop := ids.Derived([]byte("name"))
	edit := model.Edit{
		Header: model.Header{ID: ids.Derived([]byte("edit"))},
		Ops: []model.Op{
			model.CreateEntity{
				ID: entity,
				Values: []model.PropertyValue{
					{Property: prop, Value: model.Value{Kind: model.DataTypeBool, Bool: true}},
					{Property: prop, Value: model.Value{Kind: model.DataTypeBool, Bool: false}},
				},
			},
		},
	}

	// The fast path doesn't sort-and-compare, so it tolerates the duplicate.
	_, err := Encode(edit)
	require.NoError(t, err)

	_, err = EncodeCanonical(edit)
	require.ErrorIs(t, err, errs.ErrDuplicateValue)
}

func TestEncodeCanonicalRejectsDuplicateUnset(t *testing.T) {
	entity := ids.Derived([]byte("entity"))
	prop := ids.Derived([]byte("name"))
	edit := model.Edit{
		Header: model.Header{ID: ids.Derived([]byte("edit"))},
		Ops: []model.Op{
			model.UpdateEntity{
				ID: entity,
				UnsetValues: []model.UnsetValue{
					{Property: prop, Language: model.UnsetLanguage{Kind: model.UnsetAll}},
					{Property: prop, Language: model.UnsetLanguage{Kind: model.UnsetAll}},
				},
			},
		},
	}

	_, err := EncodeCanonical(edit)
	require.ErrorIs(t, err, errs.ErrDuplicateUnset)
}

func TestEncodeCanonicalRejectsDuplicateAuthor(t *testing.T) {
	author := ids.Derived([]byte("author"))
	edit := model.Edit{
		Header: model.Header{ID: ids.Derived([]byte("edit")), Authors: []ids.ID{author, author}},
	}

	_, err := EncodeCanonical(edit)
	require.ErrorIs(t, err, errs.ErrDuplicateAuthor)
}

func TestEncodeRejectsDecimalNotNormalized(t *testing.T) {
	edit := model.Edit{
		Header: model.Header{ID: ids.Derived([]byte("edit"))},
		Ops: []model.Op{
			model.CreateEntity{
				ID: ids.Derived([]byte("entity")),
				Values: []model.PropertyValue{
					{
						Property: ids.Derived([]byte("amount")),
						Value: model.Value{
							Kind:            model.DataTypeDecimal,
							DecimalExponent: 2,
							DecimalMantissa: model.DecimalMantissa{I64: 20},
						},
					},
				},
			},
		},
	}

	_, err := Encode(edit)
	require.ErrorIs(t, err, errs.ErrDecimalNotNormalized)
}

func TestEncodeRejectsLatitudeOutOfRange(t *testing.T) {
	edit := model.Edit{
		Header: model.Header{ID: ids.Derived([]byte("edit"))},
		Ops: []model.Op{
			model.CreateEntity{
				ID: ids.Derived([]byte("entity")),
				Values: []model.PropertyValue{
					{
						Property: ids.Derived([]byte("location")),
						Value:    model.Value{Kind: model.DataTypePoint, PointLat: 91, PointLon: 0},
					},
				},
			},
		},
	}

	_, err := Encode(edit)
	require.ErrorIs(t, err, errs.ErrLatitudeOutOfRange)
}

func TestEncodeRejectsNaNPointAltitude(t *testing.T) {
	nan := math.NaN()
	edit := model.Edit{
		Header: model.Header{ID: ids.Derived([]byte("edit"))},
		Ops: []model.Op{
			model.CreateEntity{
				ID: ids.Derived([]byte("entity")),
				Values: []model.PropertyValue{
					{
						Property: ids.Derived([]byte("location")),
						Value:    model.Value{Kind: model.DataTypePoint, PointLat: 1, PointLon: 1, PointAlt: &nan},
					},
				},
			},
		},
	}

	_, err := Encode(edit)
	require.ErrorIs(t, err, errs.ErrFloatIsNaN)
}

func alphaRun(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = 'a'
	}

	return string(buf)
}

func TestValidatePositionTable(t *testing.T) {
	const maxLen = 64
	tests := []struct {
		name    string
		pos     string
		wantErr error
	}{
		{"empty", "", errs.ErrInvalidPositionChar},
		{"punctuation", "a0!", errs.ErrInvalidPositionChar},
		{"exactly max length", alphaRun(maxLen), nil},
		{"over max length", alphaRun(maxLen + 1), errs.ErrPositionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePosition(tt.pos)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
