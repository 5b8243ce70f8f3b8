package parquet

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/honeymaro/hyparquet-go/format"
)

// defaultConverters returns the logical-type conversion table the Page
// Decoder consults after physical decoding (§4.5). Request.Parsers merges
// on top, so a caller can override one entry without losing the rest.
func defaultConverters() map[format.ConvertedType]Converter {
	return map[format.ConvertedType]Converter{
		format.UTF8:            convertUTF8,
		format.Enum:             convertUTF8,
		format.JSON:             convertUTF8,
		format.Decimal:         convertDecimal,
		format.Date:            convertDate,
		format.TimeMillis:      convertTimeMillis,
		format.TimeMicros:      convertTimeMicros,
		format.TimestampMillis: convertTimestampMillis,
		format.TimestampMicros: convertTimestampMicros,
		format.Interval:        convertInterval,
		format.BSON:            convertBSON,
		format.UUID:            convertUUID,
		format.Float16:         convertFloat16,
	}
}

func convertUTF8(v Value, _ *format.SchemaElement) (Value, error) {
	v.Converted = string(v.Bytes)
	return v, nil
}

func convertBSON(v Value, _ *format.SchemaElement) (Value, error) {
	v.Converted = v.Bytes
	return v, nil
}

// convertDecimal reconstructs a signed big-endian integer with the schema
// element's declared scale, returned as a *big.Rat so callers retain exact
// precision instead of a lossy float64.
func convertDecimal(v Value, elem *format.SchemaElement) (Value, error) {
	var unscaled *big.Int
	switch {
	case len(v.Bytes) > 0:
		unscaled = bigIntFromSignedBytes(v.Bytes)
	case v.Kind == format.Int32:
		unscaled = big.NewInt(int64(v.Int32))
	case v.Kind == format.Int64:
		unscaled = big.NewInt(v.Int64)
	default:
		return v, fmt.Errorf("convert: DECIMAL requires a byte array or integer physical type")
	}

	scale := int32(0)
	if elem.Scale != nil {
		scale = *elem.Scale
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	v.Converted = new(big.Rat).SetFrac(unscaled, denom)
	return v, nil
}

func bigIntFromSignedBytes(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		// Two's complement: subtract 2^(8*len(b)).
		full := new(big.Int).Lsh(big.NewInt(1), uint(len(b))*8)
		n.Sub(n, full)
	}
	return n
}

func convertDate(v Value, _ *format.SchemaElement) (Value, error) {
	v.Converted = time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32))
	return v, nil
}

func convertTimeMillis(v Value, _ *format.SchemaElement) (Value, error) {
	v.Converted = time.Duration(v.Int32) * time.Millisecond
	return v, nil
}

func convertTimeMicros(v Value, _ *format.SchemaElement) (Value, error) {
	v.Converted = time.Duration(v.Int64) * time.Microsecond
	return v, nil
}

func convertTimestampMillis(v Value, _ *format.SchemaElement) (Value, error) {
	v.Converted = time.UnixMilli(v.Int64).UTC()
	return v, nil
}

func convertTimestampMicros(v Value, _ *format.SchemaElement) (Value, error) {
	v.Converted = time.UnixMicro(v.Int64).UTC()
	return v, nil
}

// convertInterval decodes the 12-byte FIXED_LEN_BYTE_ARRAY INTERVAL
// encoding: three little-endian uint32 fields (months, days, millis).
func convertInterval(v Value, _ *format.SchemaElement) (Value, error) {
	if len(v.Bytes) != 12 {
		return v, fmt.Errorf("convert: INTERVAL requires a 12-byte fixed array, got %d", len(v.Bytes))
	}
	v.Converted = Interval{
		Months: binary.LittleEndian.Uint32(v.Bytes[0:4]),
		Days:   binary.LittleEndian.Uint32(v.Bytes[4:8]),
		Millis: binary.LittleEndian.Uint32(v.Bytes[8:12]),
	}
	return v, nil
}

// Interval is the decoded form of the parquet INTERVAL converted type.
type Interval struct {
	Months uint32
	Days   uint32
	Millis uint32
}

// convertUUID decodes a 16-byte FIXED_LEN_BYTE_ARRAY as a UUID. Registered
// under the synthetic format.UUID key (see logicalKey in decoder.go): UUID
// has no legacy format.ConvertedType id and only ever arrives via a
// SchemaElement's LogicalType annotation.
func convertUUID(v Value, _ *format.SchemaElement) (Value, error) {
	id, err := uuid.FromBytes(v.Bytes)
	if err != nil {
		return v, fmt.Errorf("convert: UUID: %w", err)
	}
	v.Converted = id
	return v, nil
}

// convertFloat16 decodes a 2-byte FIXED_LEN_BYTE_ARRAY IEEE 754 half-float
// into a float32. Registered under the synthetic format.Float16 key for the
// same reason as convertUUID: FLOAT16 has no legacy ConvertedType id.
func convertFloat16(v Value, _ *format.SchemaElement) (Value, error) {
	if len(v.Bytes) != 2 {
		return v, fmt.Errorf("convert: FLOAT16 requires a 2-byte fixed array, got %d", len(v.Bytes))
	}
	bits := uint16(v.Bytes[0]) | uint16(v.Bytes[1])<<8
	v.Converted = float16ToFloat32(bits)
	return v, nil
}

func float16ToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h & 0x3ff)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: normalize.
		for frac&0x400 == 0 {
			frac <<= 1
			exp--
		}
		exp++
		frac &= 0x3ff
	case 0x1f:
		if frac == 0 {
			return math.Float32frombits(sign | 0x7f800000)
		}
		return math.Float32frombits(sign | 0x7f800000 | frac<<13)
	}

	exp = exp - 15 + 127
	return math.Float32frombits(sign | exp<<23 | frac<<13)
}
