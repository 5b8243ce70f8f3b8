package parquet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDictionaryLookup(t *testing.T) {
	d := &Dictionary{Values: []Value{int32Value(1), int32Value(2), int32Value(3)}}
	require.Equal(t, 3, d.Len())

	v, ok := d.Lookup(1)
	require.True(t, ok)
	require.Equal(t, int32(2), v.Any())
}

func TestDictionaryLookupOutOfRange(t *testing.T) {
	d := &Dictionary{Values: []Value{int32Value(1)}}
	_, ok := d.Lookup(5)
	require.False(t, ok)
	_, ok = d.Lookup(-1)
	require.False(t, ok)
}

func TestDictionaryLookupNilDictionary(t *testing.T) {
	var d *Dictionary
	_, ok := d.Lookup(0)
	require.False(t, ok)
}
