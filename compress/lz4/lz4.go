// Package lz4 implements the LZ4_RAW parquet compression codec: a single
// raw (frame-less) LZ4 block, which requires knowing the uncompressed size
// up front to decompress — unlike the other codecs here, there is no
// streaming reader to adapt, so this decodes directly against the
// destination buffer.
//
// Grounded on the teacher's compress/lz4 package.
package lz4

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/honeymaro/hyparquet-go/format"
)

type Codec struct{}

func (Codec) String() string { return "LZ4_RAW" }

func (Codec) CompressionCodec() format.CompressionCodec { return format.Lz4Raw }

// Decode expects dst already sized to the uncompressed length: the
// compress.Table dispatcher pre-sizes dst to the page header's declared
// uncompressed_page_size before calling any codec.
func (Codec) Decode(dst, src []byte) ([]byte, error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return dst[:n], nil
}
