// Package plain decodes the PLAIN physical-type encoding: each physical
// type's fixed-width little-endian layout, with BYTE_ARRAY and
// FIXED_LEN_BYTE_ARRAY as length-prefixed or fixed-length byte runs.
//
// Grounded on the teacher's encoding/plain package, reworked from an
// io.Reader-streaming decoder to one operating on an already-buffered page
// body, per the specification's buffered-page model.
package plain

import (
	"encoding/binary"
	"fmt"
	"math"
)

func DecodeBoolean(dst []bool, src []byte, count int) ([]bool, error) {
	need := (count + 7) / 8
	if len(src) < need {
		return dst, fmt.Errorf("plain: boolean stream too short: need %d bytes, have %d", need, len(src))
	}
	for i := 0; i < count; i++ {
		b := src[i/8]
		dst = append(dst, (b>>(uint(i)%8))&1 != 0)
	}
	return dst, nil
}

func DecodeInt32(dst []int32, src []byte, count int) ([]int32, error) {
	if len(src) < count*4 {
		return dst, fmt.Errorf("plain: int32 stream too short: need %d bytes, have %d", count*4, len(src))
	}
	for i := 0; i < count; i++ {
		dst = append(dst, int32(binary.LittleEndian.Uint32(src[i*4:])))
	}
	return dst, nil
}

func DecodeInt64(dst []int64, src []byte, count int) ([]int64, error) {
	if len(src) < count*8 {
		return dst, fmt.Errorf("plain: int64 stream too short: need %d bytes, have %d", count*8, len(src))
	}
	for i := 0; i < count; i++ {
		dst = append(dst, int64(binary.LittleEndian.Uint64(src[i*8:])))
	}
	return dst, nil
}

// DecodeInt96 decodes the deprecated 12-byte INT96 layout, historically used
// for timestamps. Values are returned as raw 12-byte arrays; conversion to a
// time value is a logical-type concern handled by the convert hook table.
func DecodeInt96(dst [][12]byte, src []byte, count int) ([][12]byte, error) {
	if len(src) < count*12 {
		return dst, fmt.Errorf("plain: int96 stream too short: need %d bytes, have %d", count*12, len(src))
	}
	for i := 0; i < count; i++ {
		var v [12]byte
		copy(v[:], src[i*12:i*12+12])
		dst = append(dst, v)
	}
	return dst, nil
}

func DecodeFloat32(dst []float32, src []byte, count int) ([]float32, error) {
	if len(src) < count*4 {
		return dst, fmt.Errorf("plain: float stream too short: need %d bytes, have %d", count*4, len(src))
	}
	for i := 0; i < count; i++ {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:])))
	}
	return dst, nil
}

func DecodeFloat64(dst []float64, src []byte, count int) ([]float64, error) {
	if len(src) < count*8 {
		return dst, fmt.Errorf("plain: double stream too short: need %d bytes, have %d", count*8, len(src))
	}
	for i := 0; i < count; i++ {
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:])))
	}
	return dst, nil
}

// DecodeByteArray decodes count length-prefixed (4-byte LE length) byte
// runs, returning the number of bytes consumed from src.
func DecodeByteArray(dst [][]byte, src []byte, count int) ([][]byte, int, error) {
	pos := 0
	for i := 0; i < count; i++ {
		if pos+4 > len(src) {
			return dst, pos, fmt.Errorf("plain: byte array length prefix truncated at value %d", i)
		}
		n := int(binary.LittleEndian.Uint32(src[pos:]))
		pos += 4
		if n < 0 || pos+n > len(src) {
			return dst, pos, fmt.Errorf("plain: byte array value %d length %d exceeds page body", i, n)
		}
		dst = append(dst, src[pos:pos+n])
		pos += n
	}
	return dst, pos, nil
}

// DecodeFixedLenByteArray decodes count fixed-length byte runs of the given
// size, returning the number of bytes consumed from src.
func DecodeFixedLenByteArray(dst [][]byte, src []byte, count, size int) ([][]byte, int, error) {
	need := count * size
	if len(src) < need {
		return dst, 0, fmt.Errorf("plain: fixed-length byte array stream too short: need %d bytes, have %d", need, len(src))
	}
	for i := 0; i < count; i++ {
		dst = append(dst, src[i*size:i*size+size])
	}
	return dst, need, nil
}
