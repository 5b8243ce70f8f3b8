// Package zstd implements the ZSTD parquet compression codec.
//
// Grounded on the teacher's compress/zstd package.
package zstd

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/honeymaro/hyparquet-go/compress"
	"github.com/honeymaro/hyparquet-go/format"
)

type Codec struct {
	decompressor compress.Decompressor
}

func (*Codec) String() string { return "ZSTD" }

func (*Codec) CompressionCodec() format.CompressionCodec { return format.Zstd }

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	out, err := c.decompressor.Decode(dst, src, func(r io.Reader) (compress.Reader, error) {
		z, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return reader{z}, nil
	})
	if err != nil {
		return out, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}

type reader struct{ *zstd.Decoder }

func (r reader) Close() error             { r.Decoder.Close(); return nil }
func (r reader) Reset(rr io.Reader) error { return r.Decoder.Reset(rr) }
