// Package bytestreamsplit implements BYTE_STREAM_SPLIT: for a K-byte
// physical type, the page stores K contiguous runs of N bytes, where
// value i's bytes are run[j][i] for j in 0..K. Grounded on the teacher's
// encoding/bytestreamsplit package (purego path).
package bytestreamsplit

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode reconstructs count little-endian values of byteWidth bytes each
// from their byte-stream-split layout, writing each value's bytes into dst.
func Decode(dst [][]byte, src []byte, count, byteWidth int) ([][]byte, error) {
	need := count * byteWidth
	if len(src) < need {
		return dst, fmt.Errorf("bytestreamsplit: stream too short: need %d bytes, have %d", need, len(src))
	}
	for i := 0; i < count; i++ {
		value := make([]byte, byteWidth)
		for j := 0; j < byteWidth; j++ {
			value[j] = src[j*count+i]
		}
		dst = append(dst, value)
	}
	return dst, nil
}

func DecodeFloat32(dst []float32, src []byte, count int) ([]float32, error) {
	raw, err := Decode(nil, src, count, 4)
	if err != nil {
		return dst, err
	}
	for _, b := range raw {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return dst, nil
}

func DecodeFloat64(dst []float64, src []byte, count int) ([]float64, error) {
	raw, err := Decode(nil, src, count, 8)
	if err != nil {
		return dst, err
	}
	for _, b := range raw {
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(b)))
	}
	return dst, nil
}
