package parquet

import "context"

// ByteSource is the abstract byte-addressable source the read pipeline
// fetches file bytes from. Implementations may wrap a local file, an HTTP
// range-request client, or an in-memory buffer; calls may be issued
// concurrently and must be idempotent.
type ByteSource interface {
	// ByteLength returns the total size of the source in bytes.
	ByteLength() int64

	// Slice returns the bytes in [start, end). end is exclusive. Slice may
	// be called concurrently by multiple goroutines for overlapping or
	// disjoint ranges.
	Slice(ctx context.Context, start, end int64) ([]byte, error)
}
