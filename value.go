package parquet

import "github.com/honeymaro/hyparquet-go/format"

// Value holds one decoded, logically-converted parquet value. Unlike the
// teacher's Value type — an unsafe-pointer-packed struct tuned to avoid
// allocation across millions of values per second in a read/write engine —
// this is a plain tagged struct: this module optimizes for straightforward,
// reviewable decode logic over micro-allocation avoidance.
type Value struct {
	// Kind mirrors the physical type this value was decoded from. Logical
	// conversion (§4.5) leaves Kind and the physical fields as decoded and
	// stores its result in Converted, whose Go type need not match Kind
	// (e.g. a converted STRING is a Go string, a converted TIMESTAMP a
	// time.Time).
	Kind format.Type

	Boolean bool
	Int32   int32
	Int64   int64
	Int96   [12]byte
	Float32 float32
	Float64 float64
	Bytes   []byte // BYTE_ARRAY, FIXED_LEN_BYTE_ARRAY, and converted STRING

	// Converted holds the logical value produced by a converter hook (see
	// convert.go), when one ran. Its dynamic type depends on the logical
	// type: string, a decimal representation, time.Time, uuid.UUID, etc.
	// Zero value (nil) means no converter ran and the physical fields above
	// are authoritative.
	Converted any
}

// Any returns the value as a Go value, preferring a logical conversion when
// one is present.
func (v Value) Any() any {
	if v.Converted != nil {
		return v.Converted
	}
	switch v.Kind {
	case format.Boolean:
		return v.Boolean
	case format.Int32:
		return v.Int32
	case format.Int64:
		return v.Int64
	case format.Int96:
		return v.Int96
	case format.Float:
		return v.Float32
	case format.Double:
		return v.Float64
	case format.ByteArray, format.FixedLenByteArray:
		return v.Bytes
	default:
		return nil
	}
}

func int32Value(v int32) Value   { return Value{Kind: format.Int32, Int32: v} }
func int64Value(v int64) Value   { return Value{Kind: format.Int64, Int64: v} }
func boolValue(v bool) Value     { return Value{Kind: format.Boolean, Boolean: v} }
func float32Value(v float32) Value { return Value{Kind: format.Float, Float32: v} }
func float64Value(v float64) Value { return Value{Kind: format.Double, Float64: v} }
func bytesValue(v []byte) Value  { return Value{Kind: format.ByteArray, Bytes: v} }
func int96Value(v [12]byte) Value { return Value{Kind: format.Int96, Int96: v} }
