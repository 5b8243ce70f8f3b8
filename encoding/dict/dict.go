// Package dict decodes PLAIN_DICTIONARY and RLE_DICTIONARY data pages: a
// one-byte bit width followed by a hybrid RLE/bit-packed stream of
// dictionary indices.
//
// Grounded on the teacher's encoding/dict package and encoding/rle/dict.go,
// adapted to the buffer-based rle.DecodeInt32.
package dict

import (
	"fmt"

	"github.com/honeymaro/hyparquet-go/encoding/rle"
)

// DecodeIndices reads the bit-width prefix byte and decodes count
// dictionary indices from src. It returns the indices and the number of
// bytes of src consumed (including the bit-width byte).
func DecodeIndices(src []byte, count int) ([]int32, int, error) {
	if len(src) < 1 {
		return nil, 0, fmt.Errorf("dict: missing bit width byte")
	}
	bitWidth := int(src[0])
	if bitWidth > 32 {
		return nil, 0, fmt.Errorf("dict: bit width %d exceeds 32", bitWidth)
	}
	indices, n, err := rle.DecodeInt32(make([]int32, 0, count), src[1:], bitWidth, count)
	if err != nil {
		return nil, 0, err
	}
	return indices, 1 + n, nil
}
