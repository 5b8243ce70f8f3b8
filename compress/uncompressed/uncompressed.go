// Package uncompressed implements the UNCOMPRESSED parquet codec: the page
// body is returned unchanged.
package uncompressed

import "github.com/honeymaro/hyparquet-go/format"

type Codec struct{}

func (Codec) String() string { return "UNCOMPRESSED" }

func (Codec) CompressionCodec() format.CompressionCodec { return format.Uncompressed }

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}
