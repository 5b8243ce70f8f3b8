package bytestreamsplit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	// Two 2-byte values: 0x1234, 0x5678 (little-endian: {0x34,0x12}, {0x78,0x56})
	// split layout: run0 = low bytes {0x34,0x78}, run1 = high bytes {0x12,0x56}
	src := []byte{0x34, 0x78, 0x12, 0x56}
	got, err := Decode(nil, src, 2, 2)
	require.NoError(t, err)
	require.Equal(t, [][]byte{{0x34, 0x12}, {0x78, 0x56}}, got)
}

func TestDecodeFloat32(t *testing.T) {
	// values 1.0, -2.5 as float32 LE bytes, byte-stream-split across 4 runs.
	b1 := []byte{0x00, 0x00, 0x80, 0x3f} // 1.0
	b2 := []byte{0x00, 0x00, 0x20, 0xc0} // -2.5
	var src []byte
	for j := 0; j < 4; j++ {
		src = append(src, b1[j], b2[j])
	}
	got, err := DecodeFloat32(nil, src, 2)
	require.NoError(t, err)
	require.InDelta(t, 1.0, got[0], 1e-9)
	require.InDelta(t, -2.5, got[1], 1e-9)
}
