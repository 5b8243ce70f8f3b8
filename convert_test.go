package parquet

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/honeymaro/hyparquet-go/format"
)

func TestApplyConvertersUUIDViaLogicalType(t *testing.T) {
	id := uuid.New()
	elem := &format.SchemaElement{
		Type:        typ(format.FixedLenByteArray),
		TypeLength:  i32p(16),
		LogicalType: &format.LogicalType{UUID: &format.UUIDType{}},
	}
	values := []Value{bytesValue(id[:])}

	out, err := applyConverters(values, elem, defaultConverters(), true)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, id, out[0].Any())
}

func TestApplyConvertersFloat16ViaLogicalType(t *testing.T) {
	elem := &format.SchemaElement{
		Type:        typ(format.FixedLenByteArray),
		TypeLength:  i32p(2),
		LogicalType: &format.LogicalType{Float16: &format.Float16Type{}},
	}
	// 0x3C00 is 1.0 in IEEE 754 half precision, little-endian bytes.
	values := []Value{bytesValue([]byte{0x00, 0x3C})}

	out, err := applyConverters(values, elem, defaultConverters(), true)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, float32(1.0), out[0].Any())
}

func TestLogicalKeyPrefersConvertedType(t *testing.T) {
	ct := format.Decimal
	elem := &format.SchemaElement{
		ConvertedType: &ct,
		LogicalType:   &format.LogicalType{UUID: &format.UUIDType{}},
	}
	key, ok := logicalKey(elem)
	require.True(t, ok)
	require.Equal(t, format.Decimal, key)
}

func TestLogicalKeyAbsentWhenNeitherAnnotationPresent(t *testing.T) {
	_, ok := logicalKey(&format.SchemaElement{})
	require.False(t, ok)
}
