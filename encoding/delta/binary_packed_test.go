package delta

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeHeader builds a DELTA_BINARY_PACKED preamble.
func encodeHeader(blockSize, miniBlocks, totalCount int, first int64) []byte {
	var buf []byte
	buf = appendUvarint(buf, uint64(blockSize))
	buf = appendUvarint(buf, uint64(miniBlocks))
	buf = appendUvarint(buf, uint64(totalCount))
	buf = appendZigzag(buf, first)
	return buf
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func appendZigzag(buf []byte, v int64) []byte {
	return appendUvarint(buf, uint64(v<<1)^uint64(v>>63))
}

// encodeBlock builds one block: min delta, miniblock bit widths, then
// tightly bit-packed (width*valuesPerMiniBlock bits, byte-aligned) values
// for each miniblock, where values are already (delta - minDelta).
func encodeBlock(minDelta int64, miniBlockValues [][]uint64, widths []int) []byte {
	var buf []byte
	buf = appendZigzag(buf, minDelta)
	for _, w := range widths {
		buf = append(buf, byte(w))
	}
	for i, values := range miniBlockValues {
		width := widths[i]
		var bitBuf uint64
		var bitCount uint
		for _, v := range values {
			bitBuf |= v << bitCount
			bitCount += uint(width)
			for bitCount >= 8 {
				buf = append(buf, byte(bitBuf))
				bitBuf >>= 8
				bitCount -= 8
			}
		}
		if bitCount > 0 {
			buf = append(buf, byte(bitBuf))
		}
	}
	return buf
}

func TestDecodeInt32SingleMiniBlock(t *testing.T) {
	// 1 block, 1 miniblock of 8 values, values: 10, 12, 11, 11, 15, 15, 15, 20, 20
	// first value = 10, deltas = [2, -1, 0, 4, 0, 0, 5, 0]
	deltas := []int64{2, -1, 0, 4, 0, 0, 5, 0}
	minDelta := int64(-1)
	width := 3 // max adjusted delta = 5-(-1)=6 needs 3 bits
	adjusted := make([]uint64, len(deltas))
	for i, d := range deltas {
		adjusted[i] = uint64(d - minDelta)
	}

	src := encodeHeader(8, 1, 9, 10)
	src = append(src, encodeBlock(minDelta, [][]uint64{adjusted}, []int{width})...)

	got, n, err := DecodeInt32(src)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	require.Equal(t, []int32{10, 12, 11, 11, 15, 15, 15, 20, 20}, got)
}

func TestDecodeInt32EmptyStream(t *testing.T) {
	src := encodeHeader(128, 4, 0, 0)
	got, n, err := DecodeInt32(src)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	require.Empty(t, got)
}

func TestDecodeInt32SingleValue(t *testing.T) {
	src := encodeHeader(128, 4, 1, 77)
	got, n, err := DecodeInt32(src)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	require.Equal(t, []int32{77}, got)
}

func TestDecodeLengthByteArray(t *testing.T) {
	values := []string{"ab", "x", "hello"}
	lengths := make([]int64, len(values))
	for i, v := range values {
		lengths[i] = int64(len(v))
	}
	// Encode the lengths as a trivial one-miniblock DELTA_BINARY_PACKED stream.
	first := lengths[0]
	deltas := make([]int64, len(lengths)-1)
	minDelta := int64(0)
	for i := 1; i < len(lengths); i++ {
		deltas[i-1] = lengths[i] - lengths[i-1]
		if deltas[i-1] < minDelta {
			minDelta = deltas[i-1]
		}
	}
	maxAdjusted := uint64(0)
	adjusted := make([]uint64, 8)
	for i := range adjusted {
		if i < len(deltas) {
			adjusted[i] = uint64(deltas[i] - minDelta)
		}
		if adjusted[i] > maxAdjusted {
			maxAdjusted = adjusted[i]
		}
	}
	width := 0
	for (uint64(1) << width) <= maxAdjusted {
		width++
	}

	lengthStream := encodeHeader(8, 1, len(values), first)
	lengthStream = append(lengthStream, encodeBlock(minDelta, [][]uint64{adjusted}, []int{width})...)

	var src []byte
	src = append(src, lengthStream...)
	for _, v := range values {
		src = append(src, v...)
	}

	got, err := DecodeLengthByteArray(nil, src, len(values))
	require.NoError(t, err)
	want := make([][]byte, len(values))
	for i, v := range values {
		want[i] = []byte(v)
	}
	require.Equal(t, want, got)
}

func TestDecodeByteArrayPrefixSharing(t *testing.T) {
	values := []string{"airplane", "airport", "boat"}
	// prefix lengths: 0, 3 ("air"), 0 ; suffix: full, "port", full
	prefixLens := []int64{0, 3, 0}
	suffixes := []string{"airplane", "port", "boat"}
	suffixLens := make([]int64, len(suffixes))
	for i, s := range suffixes {
		suffixLens[i] = int64(len(s))
	}

	encodeSimpleDeltaStream := func(nums []int64) []byte {
		first := nums[0]
		deltas := make([]int64, len(nums)-1)
		minDelta := int64(0)
		for i := 1; i < len(nums); i++ {
			deltas[i-1] = nums[i] - nums[i-1]
			if deltas[i-1] < minDelta {
				minDelta = deltas[i-1]
			}
		}
		maxAdjusted := uint64(0)
		adjusted := make([]uint64, 8)
		for i := range adjusted {
			if i < len(deltas) {
				adjusted[i] = uint64(deltas[i] - minDelta)
			}
			if adjusted[i] > maxAdjusted {
				maxAdjusted = adjusted[i]
			}
		}
		width := 0
		for (uint64(1) << width) <= maxAdjusted {
			width++
		}
		buf := encodeHeader(8, 1, len(nums), first)
		buf = append(buf, encodeBlock(minDelta, [][]uint64{adjusted}, []int{width})...)
		return buf
	}

	var src []byte
	src = append(src, encodeSimpleDeltaStream(prefixLens)...)
	src = append(src, encodeSimpleDeltaStream(suffixLens)...)
	for _, s := range suffixes {
		src = append(src, s...)
	}

	got, err := DecodeByteArray(nil, src, len(values))
	require.NoError(t, err)
	want := make([][]byte, len(values))
	for i, v := range values {
		want[i] = []byte(v)
	}
	require.Equal(t, want, got)
}
