// Package format defines the wire shapes of Apache Parquet metadata and page
// headers consumed by this module.
//
// The footer (FileMetaData) is produced by an external Thrift-compact parser
// — this package only describes the shape that parser is expected to hand
// back, per the contract in the specification's external-interfaces section.
// Page headers, which this module does parse itself (see ReadPageHeader in
// compact.go), use the same struct shapes.
package format

import "fmt"

// Type is the physical type of a parquet leaf column.
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return fmt.Sprintf("Type(%d)", int32(t))
	}
}

// Encoding identifies how a page's values (or dictionary indices) are laid
// out in bytes.
type Encoding int32

const (
	Plain Encoding = iota
	_             // GROUP_VAR_INT, never implemented by the reference format
	PlainDictionary
	RLE
	BitPacked // deprecated
	DeltaBinaryPacked
	DeltaLengthByteArray
	DeltaByteArray
	RLEDictionary
	ByteStreamSplit
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return fmt.Sprintf("Encoding(%d)", int32(e))
	}
}

// CompressionCodec identifies the codec a column chunk's pages are
// compressed with.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	LZO
	Brotli
	LZ4
	Zstd
	Lz4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case LZO:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case LZ4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return fmt.Sprintf("CompressionCodec(%d)", int32(c))
	}
}

// FieldRepetitionType is the REQUIRED/OPTIONAL/REPEATED kind of a schema
// element's edge to its parent.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return fmt.Sprintf("FieldRepetitionType(%d)", int32(r))
	}
}

// ConvertedType is the legacy logical-type annotation carried by a schema
// element (STRING, DECIMAL, LIST, MAP, DATE, TIMESTAMP_MILLIS, ...).
type ConvertedType int32

const (
	ConvertedNone ConvertedType = -1

	UTF8 ConvertedType = iota - 1
	Map
	MapKeyValue
	List
	Enum
	Decimal
	Date
	TimeMillis
	TimeMicros
	TimestampMillis
	TimestampMicros
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32ConvertedType
	Int64ConvertedType
	JSON
	BSON
	Interval

	// UUID and Float16 are not legacy converted-type ids — the Thrift IDL
	// only ever annotated them via the newer LogicalType union (see
	// LogicalType below) — but this package extends the converted-type key
	// space to cover them too, so callers configure every logical-type
	// converter (§4.5) through one map keyed by ConvertedType regardless of
	// which annotation a schema element actually carries.
	UUID
	Float16
)

// LogicalType is the new-style logical-type annotation union. Most variants
// (STRING, DECIMAL, DATE, TIMESTAMP, ...) are also expressible as a legacy
// ConvertedType and arrive that way in this module's metadata contract; UUID
// and FLOAT16 have no legacy converted-type id and only ever arrive here.
type LogicalType struct {
	UUID    *UUIDType
	Float16 *Float16Type
}

// UUIDType marks a 16-byte FIXED_LEN_BYTE_ARRAY leaf as a UUID. Empty, like
// the Thrift IDL's UUIDType struct: the annotation carries no fields of its
// own.
type UUIDType struct{}

// Float16Type marks a 2-byte FIXED_LEN_BYTE_ARRAY leaf as an IEEE 754
// half-precision float. Empty, like the Thrift IDL's Float16Type struct.
type Float16Type struct{}

// PageType discriminates the four page kinds named in the specification.
type PageType int32

const (
	DataPage PageType = iota
	IndexPage
	DictionaryPage
	DataPageV2
)

func (p PageType) String() string {
	switch p {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return fmt.Sprintf("PageType(%d)", int32(p))
	}
}

// SchemaElement is one node (flattened, pre-order) of a parquet schema tree.
type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	ConvertedType  *ConvertedType
	Scale          *int32
	Precision      *int32
	FieldID        *int32
	LogicalType    *LogicalType
}

// Statistics carries the optional page/column statistics; this module never
// interprets them (predicate pushdown on statistics is a non-goal) beyond
// passing them through.
type Statistics struct {
	Max         []byte
	Min         []byte
	NullCount   *int64
	DistinctCount *int64
	MaxValue    []byte
	MinValue    []byte
}

// ColumnMetaData describes one column chunk's physical layout, per the
// specification's metadata contract.
type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	DataPageOffset        int64
	IndexPageOffset       *int64
	DictionaryPageOffset  *int64
	Statistics            *Statistics
}

// ColumnChunk is one column's byte range and metadata within a row group.
type ColumnChunk struct {
	FilePath   string
	FileOffset int64
	MetaData   *ColumnMetaData
}

// RowGroup is an ordered set of column chunks sharing a row count and a
// file-global starting row index (the starting row index is derived by the
// caller by accumulating NumRows across prior row groups; it is not part of
// the wire format).
type RowGroup struct {
	Columns  []ColumnChunk
	NumRows  int64
	TotalByteSize int64
}

// FileMetaData is the parsed Thrift footer, produced by an external parser.
type FileMetaData struct {
	Version   int32
	Schema    []SchemaElement
	NumRows   int64
	RowGroups []RowGroup
}

// DictionaryPageHeader describes a DICTIONARY page.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  bool
}

// DataPageHeader describes a DATA_PAGE (V1) page.
type DataPageHeader struct {
	NumValues               int32
	Encoding                Encoding
	DefinitionLevelEncoding Encoding
	RepetitionLevelEncoding Encoding
	Statistics              *Statistics
}

// DataPageHeaderV2 describes a DATA_PAGE_V2 page.
type DataPageHeaderV2 struct {
	NumValues                  int32
	NumNulls                   int32
	NumRows                    int32
	Encoding                   Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
	IsCompressed               bool
	Statistics                 *Statistics
}

// PageHeader is the compact-Thrift struct preceding every page body.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	DictionaryPageHeader *DictionaryPageHeader
	DataPageHeader       *DataPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
}

// NumValues returns the page's declared value count regardless of page kind.
func (h *PageHeader) NumValues() int32 {
	switch {
	case h.DataPageHeader != nil:
		return h.DataPageHeader.NumValues
	case h.DataPageHeaderV2 != nil:
		return h.DataPageHeaderV2.NumValues
	case h.DictionaryPageHeader != nil:
		return h.DictionaryPageHeader.NumValues
	default:
		return 0
	}
}
