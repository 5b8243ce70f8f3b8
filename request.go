package parquet

import (
	"runtime"

	"github.com/honeymaro/hyparquet-go/compress"
	"github.com/honeymaro/hyparquet-go/format"
)

// RowFormat selects the shape of assembled rows.
type RowFormat int

const (
	// RowArray emits each row as a positional tuple over Request.Columns.
	RowArray RowFormat = iota
	// RowObject emits each row as a keyed map matching the schema's field
	// names, with nested groups as nested maps and REPEATED groups as
	// ordered slices.
	RowObject
)

// Converter rewrites a physically-decoded value into its logical-type
// representation (STRING, DECIMAL, TIMESTAMP, UUID, ...). See convert.go
// for the default table.
type Converter func(v Value, elem *format.SchemaElement) (Value, error)

// OnChunkFunc is invoked once per decoded page, per the ordering guarantees
// in the specification's concurrency section: within one column chunk,
// calls are delivered in page order with monotonically non-decreasing
// rowStart. Across columns no ordering is guaranteed.
//
// Unlike the specification's documented JS behavior (callback errors are
// silently lost), an error returned here is surfaced on Read's returned
// error — see the Open Questions resolution in DESIGN.md.
type OnChunkFunc func(column string, data DecodedColumn, rowStart, rowEnd int64) error

// OnCompleteFunc is invoked once, after every column of every selected row
// group has been decoded and assembled, with rows in ascending global row
// order.
type OnCompleteFunc func(rows []Row) error

// Row is one assembled record, shaped per Request.RowFormat: a []any for
// RowArray (positional, matching Request.Columns order) or a
// map[string]any for RowObject (keyed by schema field name, nested groups
// as nested maps, REPEATED groups as slices).
type Row = any

// Request describes one read: a row range, a column subset, and the
// knobs named in the specification's external-interfaces section.
type Request struct {
	// File is the byte source to read from.
	File ByteSource
	// Metadata is the parsed footer. Required: footer parsing is an
	// external collaborator this module does not implement.
	Metadata *format.FileMetaData

	// Columns restricts the read to these dotted leaf paths. Empty means
	// every leaf column.
	Columns []string

	// RowStart and RowEnd bound the row range read, as a half-open
	// interval [RowStart, RowEnd). Zero RowEnd means the file's full row
	// count.
	RowStart int64
	RowEnd   int64

	RowFormat RowFormat

	// RawDictionary, when true, returns dictionary-encoded columns as raw
	// integer indices instead of indirecting through the dictionary.
	RawDictionary bool

	// Parsers overrides or extends the default logical-type converter
	// table (see convert.go), keyed by format.ConvertedType.
	Parsers map[format.ConvertedType]Converter

	// Compressors overrides or extends the default decompressor table.
	Compressors compress.Table

	// UTF8 gates whether STRING-converted BYTE_ARRAY values are decoded as
	// Go strings (true, the default) or left as raw bytes.
	UTF8 *bool

	// MaxConcurrency bounds how many row groups and, within a row group,
	// columns may be decoded concurrently. Zero means GOMAXPROCS(0) — the
	// specification's open question on unbounded row-group concurrency is
	// resolved here with a bounded worker pool.
	MaxConcurrency int

	OnChunk    OnChunkFunc
	OnComplete OnCompleteFunc
}

func (r *Request) utf8() bool {
	if r.UTF8 == nil {
		return true
	}
	return *r.UTF8
}

func (r *Request) maxConcurrency() int {
	if r.MaxConcurrency > 0 {
		return r.MaxConcurrency
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Request) rowEnd() int64 {
	if r.RowEnd > 0 {
		return r.RowEnd
	}
	return r.Metadata.NumRows
}

func (r *Request) converters() map[format.ConvertedType]Converter {
	table := defaultConverters()
	for k, v := range r.Parsers {
		table[k] = v
	}
	return table
}

func (r *Request) compressors() compress.Table {
	table := defaultCompressors()
	for k, v := range r.Compressors {
		table[k] = v
	}
	return table
}
