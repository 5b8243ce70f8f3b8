// Package brotli implements the BROTLI parquet compression codec.
//
// Grounded on the teacher's compress/brotli package.
package brotli

import (
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/honeymaro/hyparquet-go/compress"
	"github.com/honeymaro/hyparquet-go/format"
)

type Codec struct {
	decompressor compress.Decompressor
}

func (*Codec) String() string { return "BROTLI" }

func (*Codec) CompressionCodec() format.CompressionCodec { return format.Brotli }

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	out, err := c.decompressor.Decode(dst, src, func(r io.Reader) (compress.Reader, error) {
		return reader{brotli.NewReader(r)}, nil
	})
	if err != nil {
		return out, fmt.Errorf("brotli: %w", err)
	}
	return out, nil
}

type reader struct{ *brotli.Reader }

func (r reader) Close() error { return nil }

func (r reader) Reset(rr io.Reader) error { return r.Reader.Reset(rr) }
