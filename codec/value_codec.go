// Package codec implements the GRC-20 wire encoder/decoder: per-variant
// value encoding, per-op encoding, edit framing, and the canonical
// (deterministic) encode path.
package codec

import (
	"fmt"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
	"github.com/geobrowser/grc-20/primitives"
)

// refResolver is the subset of dict.Builder/dict.Sorted the value/op codec
// needs: looking up or interning dictionary indices. Both the dry-run
// (mutable) builder and the canonical sorted builder satisfy it, so the
// same encode functions serve both passes.
type refResolver interface {
	AddProperty(id ids.ID, dataType model.DataType, placeholder bool) uint32
	GetPropertyIndex(id ids.ID) (uint32, bool)
	PropertyDataType(index uint32) (model.DataType, bool)
	AddLanguage(id *ids.ID) uint32
	AddUnit(id *ids.ID) uint32
	GetLanguageIndex(id *ids.ID) (uint32, bool)
	GetUnitIndex(id *ids.ID) (uint32, bool)
}

// encodeValue writes a PropertyValue's value payload: the data-type tag,
// then the variant's payload. It does not write the property's dictionary
// ref; the calling op encoder interns the property and writes that ref
// before calling encodeValue.
func encodeValue(w *primitives.Writer, b refResolver, v model.Value) error {
	if err := v.Validate(); err != nil {
		return err
	}

	w.WriteByte(byte(v.Kind))

	switch v.Kind {
	case model.DataTypeBool:
		if v.Bool {
			w.WriteByte(1)
		} else {
			w.WriteByte(0)
		}
	case model.DataTypeInt64:
		w.WriteSignedVarint(v.Int64)
		w.WriteVarint(uint64(b.AddUnit(v.Int64Unit)))
	case model.DataTypeFloat64:
		w.WriteF64(v.Float64)
		w.WriteVarint(uint64(b.AddUnit(v.Float64Unit)))
	case model.DataTypeDecimal:
		w.WriteSignedVarint(int64(v.DecimalExponent))
		if v.DecimalMantissa.IsBig {
			w.WriteByte(1)
			w.WriteByteSlice(v.DecimalMantissa.Big)
		} else {
			w.WriteByte(0)
			w.WriteSignedVarint(v.DecimalMantissa.I64)
		}
		w.WriteVarint(uint64(b.AddUnit(v.DecimalUnit)))
	case model.DataTypeText:
		w.WriteStr(v.Text)
		w.WriteVarint(uint64(b.AddLanguage(v.TextLanguage)))
	case model.DataTypeBytes:
		w.WriteByteSlice(v.Bytes)
	case model.DataTypeDate:
		w.WriteI32(v.DateDays)
		w.WriteI16(v.DateOffsetMin)
	case model.DataTypeTime:
		w.WriteI48(v.TimeMicros)
		w.WriteI16(v.TimeOffsetMin)
	case model.DataTypeDatetime:
		w.WriteI64(v.DatetimeMicros)
		w.WriteI16(v.DatetimeOffset)
	case model.DataTypeSchedule:
		w.WriteStr(v.Schedule)
	case model.DataTypePoint:
		if v.PointAlt != nil {
			w.WriteByte(3)
		} else {
			w.WriteByte(2)
		}
		w.WriteF64(v.PointLat)
		w.WriteF64(v.PointLon)
		if v.PointAlt != nil {
			w.WriteF64(*v.PointAlt)
		}
	case model.DataTypeRect:
		w.WriteF64(v.RectMinLat)
		w.WriteF64(v.RectMinLon)
		w.WriteF64(v.RectMaxLat)
		w.WriteF64(v.RectMaxLon)
	case model.DataTypeEmbedding:
		w.WriteByte(byte(v.EmbeddingSubType))
		w.WriteVarint(uint64(v.EmbeddingDims))
		w.WriteBytes(v.EmbeddingData)
	default:
		return fmt.Errorf("%w: %d", errs.ErrInvalidDataType, v.Kind)
	}

	return nil
}

// decodeValue reverses encodeValue, resolving unit/language refs through
// languages/units (already-decoded id vectors, not the builder).
func decodeValue(r *primitives.Reader, languages, units []ids.ID, maxBytes, maxEmbeddingDims, maxEmbeddingBytes int) (model.Value, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return model.Value{}, err
	}
	kind, err := model.DataTypeFromByte(tagByte)
	if err != nil {
		return model.Value{}, err
	}

	v := model.Value{Kind: kind}

	switch kind {
	case model.DataTypeBool:
		bb, err := r.ReadByte()
		if err != nil {
			return model.Value{}, err
		}
		switch bb {
		case 0:
			v.Bool = false
		case 1:
			v.Bool = true
		default:
			return model.Value{}, fmt.Errorf("%w: %d", errs.ErrInvalidBool, bb)
		}
	case model.DataTypeInt64:
		i, err := r.ReadSignedVarint()
		if err != nil {
			return model.Value{}, err
		}
		v.Int64 = i
		unitRef, err := r.ReadVarint()
		if err != nil {
			return model.Value{}, err
		}
		v.Int64Unit, err = resolveOptionalRef(unitRef, units)
		if err != nil {
			return model.Value{}, err
		}
	case model.DataTypeFloat64:
		f, err := r.ReadF64()
		if err != nil {
			return model.Value{}, err
		}
		v.Float64 = f
		unitRef, err := r.ReadVarint()
		if err != nil {
			return model.Value{}, err
		}
		v.Float64Unit, err = resolveOptionalRef(unitRef, units)
		if err != nil {
			return model.Value{}, err
		}
	case model.DataTypeDecimal:
		exp, err := r.ReadSignedVarint()
		if err != nil {
			return model.Value{}, err
		}
		v.DecimalExponent = int32(exp)
		tag, err := r.ReadByte()
		if err != nil {
			return model.Value{}, err
		}
		switch tag {
		case 0:
			i, err := r.ReadSignedVarint()
			if err != nil {
				return model.Value{}, err
			}
			v.DecimalMantissa = model.DecimalMantissa{I64: i}
		case 1:
			big, err := r.ReadByteSliceOwned(maxBytes)
			if err != nil {
				return model.Value{}, err
			}
			v.DecimalMantissa = model.DecimalMantissa{Big: big, IsBig: true}
		default:
			return model.Value{}, fmt.Errorf("%w: decimal mantissa tag %d", errs.ErrInvalidDataType, tag)
		}
		unitRef, err := r.ReadVarint()
		if err != nil {
			return model.Value{}, err
		}
		v.DecimalUnit, err = resolveOptionalRef(unitRef, units)
		if err != nil {
			return model.Value{}, err
		}
	case model.DataTypeText:
		s, err := r.ReadStr(maxBytes)
		if err != nil {
			return model.Value{}, err
		}
		v.Text = s
		langRef, err := r.ReadVarint()
		if err != nil {
			return model.Value{}, err
		}
		v.TextLanguage, err = resolveOptionalRef(langRef, languages)
		if err != nil {
			return model.Value{}, err
		}
	case model.DataTypeBytes:
		bs, err := r.ReadByteSlice(maxBytes)
		if err != nil {
			return model.Value{}, err
		}
		v.Bytes = bs
	case model.DataTypeDate:
		days, err := r.ReadI32()
		if err != nil {
			return model.Value{}, err
		}
		off, err := r.ReadI16()
		if err != nil {
			return model.Value{}, err
		}
		v.DateDays, v.DateOffsetMin = days, off
	case model.DataTypeTime:
		micros, err := r.ReadI48()
		if err != nil {
			return model.Value{}, err
		}
		off, err := r.ReadI16()
		if err != nil {
			return model.Value{}, err
		}
		v.TimeMicros, v.TimeOffsetMin = micros, off
	case model.DataTypeDatetime:
		micros, err := r.ReadI64()
		if err != nil {
			return model.Value{}, err
		}
		off, err := r.ReadI16()
		if err != nil {
			return model.Value{}, err
		}
		v.DatetimeMicros, v.DatetimeOffset = micros, off
	case model.DataTypeSchedule:
		s, err := r.ReadString(maxBytes)
		if err != nil {
			return model.Value{}, err
		}
		v.Schedule = s
	case model.DataTypePoint:
		ordCount, err := r.ReadByte()
		if err != nil {
			return model.Value{}, err
		}
		if ordCount != 2 && ordCount != 3 {
			return model.Value{}, fmt.Errorf("%w: point ordinate count %d", errs.ErrInvalidDataType, ordCount)
		}
		lat, err := r.ReadF64()
		if err != nil {
			return model.Value{}, err
		}
		lon, err := r.ReadF64()
		if err != nil {
			return model.Value{}, err
		}
		v.PointLat, v.PointLon = lat, lon
		if ordCount == 3 {
			alt, err := r.ReadF64()
			if err != nil {
				return model.Value{}, err
			}
			v.PointAlt = &alt
		}
	case model.DataTypeRect:
		var err error
		if v.RectMinLat, err = r.ReadF64(); err != nil {
			return model.Value{}, err
		}
		if v.RectMinLon, err = r.ReadF64(); err != nil {
			return model.Value{}, err
		}
		if v.RectMaxLat, err = r.ReadF64(); err != nil {
			return model.Value{}, err
		}
		if v.RectMaxLon, err = r.ReadF64(); err != nil {
			return model.Value{}, err
		}
	case model.DataTypeEmbedding:
		subByte, err := r.ReadByte()
		if err != nil {
			return model.Value{}, err
		}
		sub, err := model.EmbeddingSubTypeFromByte(subByte)
		if err != nil {
			return model.Value{}, err
		}
		dims, err := r.ReadVarint()
		if err != nil {
			return model.Value{}, err
		}
		if dims > uint64(maxEmbeddingDims) {
			return model.Value{}, fmt.Errorf("%w: embedding dims %d", errs.ErrLengthExceedsLimit, dims)
		}
		v.EmbeddingSubType = sub
		v.EmbeddingDims = int(dims)
		expected := sub.BytesForDims(int(dims))
		if expected > maxEmbeddingBytes {
			return model.Value{}, fmt.Errorf("%w: embedding payload %d", errs.ErrLengthExceedsLimit, expected)
		}
		data, err := r.ReadBytes(expected)
		if err != nil {
			return model.Value{}, err
		}
		v.EmbeddingData = data
	default:
		return model.Value{}, fmt.Errorf("%w: %d", errs.ErrInvalidDataType, tagByte)
	}

	if err := v.Validate(); err != nil {
		return model.Value{}, err
	}

	return v, nil
}

// resolveOptionalRef applies the 0-is-none, 1-based dictionary convention
// shared by language and unit refs.
func resolveOptionalRef(ref uint64, dictionary []ids.ID) (*ids.ID, error) {
	if ref == 0 {
		return nil, nil
	}
	idx := ref - 1
	if idx >= uint64(len(dictionary)) {
		return nil, fmt.Errorf("%w: index %d size %d", errs.ErrIndexOutOfBounds, idx, len(dictionary))
	}
	id := dictionary[idx]

	return &id, nil
}

// validatePosition enforces the position-string invariants: non-empty,
// ASCII alphanumeric, at most MaxPositionLen bytes.
func validatePosition(pos string) error {
	if len(pos) == 0 {
		return errs.ErrInvalidPositionChar
	}
	if len(pos) > primitives.MaxPositionLen {
		return errs.ErrPositionTooLong
	}
	for i := 0; i < len(pos); i++ {
		c := pos[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return errs.ErrInvalidPositionChar
		}
	}

	return nil
}

// dictRefs bundles the decoded-dictionary id slices used to resolve
// language/unit refs. Nothing in the package uses it: decodeValue takes the
// language and unit slices as separate arguments.
type dictRefs struct {
	languages []ids.ID
	units     []ids.ID
}
