package parquet

import (
	"github.com/honeymaro/hyparquet-go/compress"
	"github.com/honeymaro/hyparquet-go/compress/brotli"
	"github.com/honeymaro/hyparquet-go/compress/gzip"
	"github.com/honeymaro/hyparquet-go/compress/lz4"
	"github.com/honeymaro/hyparquet-go/compress/snappy"
	"github.com/honeymaro/hyparquet-go/compress/uncompressed"
	"github.com/honeymaro/hyparquet-go/compress/zstd"
	"github.com/honeymaro/hyparquet-go/format"
)

// defaultCompressors builds the decompressor table wired for every codec
// this module ships a decoder for. A Request.Compressors override merges
// on top of this table rather than replacing it wholesale.
func defaultCompressors() compress.Table {
	return compress.Table{
		format.Uncompressed: uncompressed.Codec{},
		format.Snappy:       snappy.Codec{},
		format.Gzip:         &gzip.Codec{},
		format.Zstd:         &zstd.Codec{},
		format.Lz4Raw:       lz4.Codec{},
		format.Brotli:       &brotli.Codec{},
	}
}
