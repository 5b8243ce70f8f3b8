// Package snappy implements the SNAPPY parquet compression codec using the
// raw block format (not the framed streaming format).
//
// Grounded on the teacher's compress/snappy package.
package snappy

import (
	"fmt"

	"github.com/klauspost/compress/snappy"

	"github.com/honeymaro/hyparquet-go/format"
)

type Codec struct{}

func (Codec) String() string { return "SNAPPY" }

func (Codec) CompressionCodec() format.CompressionCodec { return format.Snappy }

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	out, err := snappy.Decode(dst, src)
	if err != nil {
		return dst, fmt.Errorf("snappy: %w", err)
	}
	return out, nil
}
