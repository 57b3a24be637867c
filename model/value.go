// Package model defines the GRC-20 in-memory data model: values, operations,
// and the edit envelope.
package model

import (
	"fmt"
	"math"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
)

// DataType is the wire tag for a property value's type.
type DataType uint8

const (
	DataTypeBool      DataType = 1
	DataTypeInt64     DataType = 2
	DataTypeFloat64   DataType = 3
	DataTypeDecimal   DataType = 4
	DataTypeText      DataType = 5
	DataTypeBytes     DataType = 6
	DataTypeDate      DataType = 7
	DataTypeTime      DataType = 8
	DataTypeDatetime  DataType = 9
	DataTypeSchedule  DataType = 10
	DataTypePoint     DataType = 11
	DataTypeRect      DataType = 12
	DataTypeEmbedding DataType = 13
)

func (t DataType) String() string {
	switch t {
	case DataTypeBool:
		return "Bool"
	case DataTypeInt64:
		return "Int64"
	case DataTypeFloat64:
		return "Float64"
	case DataTypeDecimal:
		return "Decimal"
	case DataTypeText:
		return "Text"
	case DataTypeBytes:
		return "Bytes"
	case DataTypeDate:
		return "Date"
	case DataTypeTime:
		return "Time"
	case DataTypeDatetime:
		return "Datetime"
	case DataTypeSchedule:
		return "Schedule"
	case DataTypePoint:
		return "Point"
	case DataTypeRect:
		return "Rect"
	case DataTypeEmbedding:
		return "Embedding"
	default:
		return "Unknown"
	}
}

// DataTypeFromByte validates a wire byte as a DataType.
func DataTypeFromByte(b byte) (DataType, error) {
	switch DataType(b) {
	case DataTypeBool, DataTypeInt64, DataTypeFloat64, DataTypeDecimal, DataTypeText,
		DataTypeBytes, DataTypeDate, DataTypeTime, DataTypeDatetime, DataTypeSchedule,
		DataTypePoint, DataTypeRect, DataTypeEmbedding:
		return DataType(b), nil
	default:
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidDataType, b)
	}
}

// EmbeddingSubType is the wire tag for an Embedding value's element encoding.
type EmbeddingSubType uint8

const (
	EmbeddingFloat32 EmbeddingSubType = 0
	EmbeddingInt8    EmbeddingSubType = 1
	EmbeddingBinary  EmbeddingSubType = 2
)

func (t EmbeddingSubType) String() string {
	switch t {
	case EmbeddingFloat32:
		return "Float32"
	case EmbeddingInt8:
		return "Int8"
	case EmbeddingBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// EmbeddingSubTypeFromByte validates a wire byte as an EmbeddingSubType.
func EmbeddingSubTypeFromByte(b byte) (EmbeddingSubType, error) {
	switch EmbeddingSubType(b) {
	case EmbeddingFloat32, EmbeddingInt8, EmbeddingBinary:
		return EmbeddingSubType(b), nil
	default:
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidEmbeddingSubType, b)
	}
}

// BytesForDims returns the payload length required for dims elements of
// this sub-type.
func (t EmbeddingSubType) BytesForDims(dims int) int {
	switch t {
	case EmbeddingFloat32:
		return dims * 4
	case EmbeddingInt8:
		return dims
	case EmbeddingBinary:
		return (dims + 7) / 8
	default:
		return 0
	}
}

// DecimalMantissa is a Decimal value's mantissa: either a signed 64-bit
// integer or an arbitrary-precision big-endian two's-complement byte string.
type DecimalMantissa struct {
	// Big holds the big-endian two's-complement bytes when IsBig is true.
	// Must be minimal length (no redundant sign-extension byte).
	Big []byte
	// I64 holds the mantissa when IsBig is false.
	I64   int64
	IsBig bool
}

// IsZero reports whether the mantissa represents zero.
func (m DecimalMantissa) IsZero() bool {
	if !m.IsBig {
		return m.I64 == 0
	}
	for _, b := range m.Big {
		if b != 0 {
			return false
		}
	}

	return true
}

// Value is a typed attribute instance on an entity or relation. Exactly one
// "arm" of this struct is meaningful at a time, selected by Kind; Go has no
// tagged-union syntax, so this flat layout avoids interface boxing for what
// is, by far, the hottest-allocated type in the codec.
type Value struct {
	Kind DataType

	Bool bool

	Int64     int64
	Int64Unit *ids.ID

	Float64     float64
	Float64Unit *ids.ID

	DecimalExponent int32
	DecimalMantissa DecimalMantissa
	DecimalUnit     *ids.ID

	Text         string
	TextLanguage *ids.ID

	Bytes []byte

	DateDays      int32
	DateOffsetMin int16

	TimeMicros      int64
	TimeOffsetMin   int16
	DatetimeMicros  int64
	DatetimeOffset  int16

	Schedule string

	PointLat float64
	PointLon float64
	PointAlt *float64

	RectMinLat float64
	RectMinLon float64
	RectMaxLat float64
	RectMaxLon float64

	EmbeddingSubType EmbeddingSubType
	EmbeddingDims    int
	EmbeddingData    []byte
}

// DataType returns this value's wire data type.
func (v Value) DataType() DataType { return v.Kind }

// Validate checks the invariants that aren't already guaranteed by the Go
// type system (NaN rejection, coordinate ranges, decimal normalization,
// embedding shape).
func (v Value) Validate() error {
	switch v.Kind {
	case DataTypeFloat64:
		if math.IsNaN(v.Float64) {
			return errs.ErrFloatIsNaN
		}
	case DataTypeDecimal:
		return validateDecimal(v.DecimalExponent, v.DecimalMantissa)
	case DataTypeDate:
		if v.DateOffsetMin < -1440 || v.DateOffsetMin > 1440 {
			return fmt.Errorf("%w: date offset_min %d", errs.ErrOffsetOutOfRange, v.DateOffsetMin)
		}
	case DataTypeTime:
		if v.TimeMicros < 0 || v.TimeMicros > 86_399_999_999 {
			return fmt.Errorf("%w: time_us %d", errs.ErrTimeOutOfRange, v.TimeMicros)
		}
		if v.TimeOffsetMin < -1440 || v.TimeOffsetMin > 1440 {
			return fmt.Errorf("%w: time offset_min %d", errs.ErrOffsetOutOfRange, v.TimeOffsetMin)
		}
	case DataTypeDatetime:
		if v.DatetimeOffset < -1440 || v.DatetimeOffset > 1440 {
			return fmt.Errorf("%w: datetime offset_min %d", errs.ErrOffsetOutOfRange, v.DatetimeOffset)
		}
	case DataTypePoint:
		if err := validateLatLon(v.PointLat, v.PointLon); err != nil {
			return err
		}
		if v.PointAlt != nil && math.IsNaN(*v.PointAlt) {
			return errs.ErrFloatIsNaN
		}
	case DataTypeRect:
		if err := validateLatLon(v.RectMinLat, v.RectMinLon); err != nil {
			return err
		}
		if err := validateLatLon(v.RectMaxLat, v.RectMaxLon); err != nil {
			return err
		}
	case DataTypeEmbedding:
		return validateEmbedding(v.EmbeddingSubType, v.EmbeddingDims, v.EmbeddingData)
	case DataTypeBytes:
		if len(v.Bytes) > boundsMaxBytesLen {
			return fmt.Errorf("%w: bytes length %d", errs.ErrLengthExceedsLimit, len(v.Bytes))
		}
	}

	return nil
}

// boundsMaxBytesLen mirrors primitives.MaxBytesLen without importing
// primitives here (model stays a leaf package with no codec dependency;
// the codec layer re-checks the same bound against the configured limit).
const boundsMaxBytesLen = 16 * 1024 * 1024

// boundsMaxEmbeddingDims and boundsMaxEmbeddingBytes mirror
// primitives.MaxEmbeddingDims/MaxEmbeddingBytes for the same leaf-package
// reason as boundsMaxBytesLen above. Encode-time validation must reject
// the same oversized embeddings decode-time validation rejects, or a
// caller can build an Edit that encodes cleanly but no decoder can read.
const (
	boundsMaxEmbeddingDims  = 1 << 20
	boundsMaxEmbeddingBytes = 8 * 1024 * 1024
)

func validateLatLon(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return errs.ErrFloatIsNaN
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: %v", errs.ErrLatitudeOutOfRange, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: %v", errs.ErrLongitudeOutOfRange, lon)
	}

	return nil
}

func validateDecimal(exponent int32, m DecimalMantissa) error {
	if m.IsZero() {
		if exponent != 0 {
			return errs.ErrDecimalNotNormalized
		}

		return nil
	}

	if m.IsBig {
		if len(m.Big) >= 2 {
			b0, b1 := m.Big[0], m.Big[1]
			if b0 == 0x00 && b1&0x80 == 0 {
				return errs.ErrDecimalMantissaNotMinimal
			}
			if b0 == 0xFF && b1&0x80 != 0 {
				return errs.ErrDecimalMantissaNotMinimal
			}
		}
		if mod10Big(m.Big) == 0 {
			return errs.ErrDecimalNotNormalized
		}

		return nil
	}

	if m.I64%10 == 0 {
		return errs.ErrDecimalNotNormalized
	}

	return nil
}

// mod10Big computes the big-endian two's-complement byte string's value
// modulo 10, using a Horner-style fold (256 mod 10 == 6), handling negative
// values via the (~bytes)+1 trick.
func mod10Big(b []byte) int {
	negative := len(b) > 0 && b[0]&0x80 != 0
	if !negative {
		r := 0
		for _, by := range b {
			r = (r*6 + int(by)) % 10
		}

		return r
	}

	r := 0
	carry := 1
	// Fold ~b + 1 (two's-complement negation) byte by byte, most
	// significant first, propagating the +1 carry from the least
	// significant byte.
	inverted := make([]byte, len(b))
	for i := len(b) - 1; i >= 0; i-- {
		v := int(^b[i]) + carry
		carry = 0
		if v > 0xFF {
			v -= 0x100
			carry = 1
		}
		inverted[i] = byte(v)
	}
	for _, by := range inverted {
		r = (r*6 + int(by)) % 10
	}

	return r
}

func validateEmbedding(sub EmbeddingSubType, dims int, data []byte) error {
	if dims > boundsMaxEmbeddingDims {
		return fmt.Errorf("%w: embedding dims %d", errs.ErrLengthExceedsLimit, dims)
	}

	expected := sub.BytesForDims(dims)
	if expected > boundsMaxEmbeddingBytes {
		return fmt.Errorf("%w: embedding payload %d", errs.ErrLengthExceedsLimit, expected)
	}

	if len(data) != expected {
		return fmt.Errorf("%w: dims=%d expected=%d actual=%d", errs.ErrEmbeddingDataMismatch, dims, expected, len(data))
	}

	switch sub {
	case EmbeddingFloat32:
		for i := 0; i+4 <= len(data); i += 4 {
			bits := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24
			if math.IsNaN(float64(math.Float32frombits(bits))) {
				return errs.ErrFloatIsNaN
			}
		}
	case EmbeddingBinary:
		if dims%8 != 0 && len(data) > 0 {
			last := data[len(data)-1]
			usedBits := uint(dims % 8)
			unusedMask := byte(0xFF) << usedBits
			if last&unusedMask != 0 {
				return fmt.Errorf("%w: unused bits of last binary embedding byte must be zero", errs.ErrEmbeddingDataMismatch)
			}
		}
	}

	return nil
}

// PropertyValue pairs a property id with its value, the unit of attachment
// for CreateEntity.Values and UpdateEntity.SetProperties.
type PropertyValue struct {
	Property ids.ID
	Value    Value
}
