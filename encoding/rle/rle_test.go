package rle

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeRunLength builds a single run-length-encoded run: count repetitions
// of value, packed at bitWidth bits.
func encodeRunLength(count int, value uint32, bitWidth int) []byte {
	var buf []byte
	buf = appendUvarint(buf, uint64(count)<<1)
	n := (bitWidth + 7) / 8
	for i := 0; i < n; i++ {
		buf = append(buf, byte(value>>(8*i)))
	}
	return buf
}

// encodeBitPacked builds a single bit-packed run from values (len(values)
// must be a multiple of 8).
func encodeBitPacked(values []uint32, bitWidth int) []byte {
	if len(values)%8 != 0 {
		panic("bit-packed run length must be a multiple of 8")
	}
	numGroups := len(values) / 8
	var buf []byte
	buf = appendUvarint(buf, uint64(numGroups)<<1|1)

	var bitBuf uint64
	var bitCount uint
	for _, v := range values {
		bitBuf |= uint64(v) << bitCount
		bitCount += uint(bitWidth)
		for bitCount >= 8 {
			buf = append(buf, byte(bitBuf))
			bitBuf >>= 8
			bitCount -= 8
		}
	}
	if bitCount > 0 {
		buf = append(buf, byte(bitBuf))
	}
	return buf
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func TestDecodeInt32RunLength(t *testing.T) {
	src := encodeRunLength(5, 7, 3)
	got, n, err := DecodeInt32(nil, src, 3, 5)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	require.Equal(t, []int32{7, 7, 7, 7, 7}, got)
}

func TestDecodeInt32BitPacked(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 4, 5, 6, 7}
	src := encodeBitPacked(values, 3)
	got, n, err := DecodeInt32(nil, src, 3, len(values))
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	want := make([]int32, len(values))
	for i, v := range values {
		want[i] = int32(v)
	}
	require.Equal(t, want, got)
}

func TestDecodeInt32MixedRuns(t *testing.T) {
	var src []byte
	src = append(src, encodeRunLength(3, 9, 4)...)
	src = append(src, encodeBitPacked([]uint32{1, 2, 3, 4, 5, 6, 7, 8}, 4)...)

	got, n, err := DecodeInt32(nil, src, 4, 11)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	require.Equal(t, []int32{9, 9, 9, 1, 2, 3, 4, 5, 6, 7, 8}, got)
}

func TestDecodeInt32ZeroBitWidth(t *testing.T) {
	got, n, err := DecodeInt32(nil, nil, 0, 4)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Equal(t, []int32{0, 0, 0, 0}, got)
}

func TestDecodeBoolean(t *testing.T) {
	src := encodeBitPacked([]uint32{1, 0, 1, 1, 0, 0, 1, 0}, 1)
	got, _, err := DecodeBoolean(nil, src, 8)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true, true, false, false, true, false}, got)
}

func TestDecodeLevels(t *testing.T) {
	payload := encodeRunLength(6, 1, 1)
	var src []byte
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	src = append(src, lenBuf[:]...)
	src = append(src, payload...)
	src = append(src, 0xAA) // trailing byte belonging to the values section

	got, n, err := DecodeLevels(src, 1, 6)
	require.NoError(t, err)
	require.Equal(t, 4+len(payload), n)
	require.Equal(t, []int32{1, 1, 1, 1, 1, 1}, got)
}

func TestBitWidthForMaxLevel(t *testing.T) {
	require.Equal(t, 0, BitWidthForMaxLevel(0))
	require.Equal(t, 1, BitWidthForMaxLevel(1))
	require.Equal(t, 2, BitWidthForMaxLevel(2))
	require.Equal(t, 2, BitWidthForMaxLevel(3))
	require.Equal(t, 3, BitWidthForMaxLevel(4))
}
