// Package gzip implements the GZIP parquet compression codec.
//
// Grounded on the teacher's compress/gzip package.
package gzip

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/honeymaro/hyparquet-go/compress"
	"github.com/honeymaro/hyparquet-go/format"
)

type Codec struct {
	decompressor compress.Decompressor
}

func (*Codec) String() string { return "GZIP" }

func (*Codec) CompressionCodec() format.CompressionCodec { return format.Gzip }

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	out, err := c.decompressor.Decode(dst, src, func(r io.Reader) (compress.Reader, error) {
		z, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return reader{z}, nil
	})
	if err != nil {
		return out, fmt.Errorf("gzip: %w", err)
	}
	return out, nil
}

type reader struct{ *gzip.Reader }

func (r reader) Reset(rr io.Reader) error { return r.Reader.Reset(rr) }
