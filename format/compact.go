package format

import (
	"errors"
	"fmt"
)

// ErrShortBuffer is returned by ReadPageHeader when buf does not contain a
// complete header. Callers operating against a bounded peek window (see the
// dictionary-count fast path, dictionaryPageCount in the root package's
// reader.go) should retry with a larger window.
var ErrShortBuffer = errors.New("format: buffer too short to contain a page header")

const (
	compactStop         = 0x00
	compactBooleanTrue  = 0x01
	compactBooleanFalse = 0x02
	compactByte         = 0x03
	compactI16          = 0x04
	compactI32          = 0x05
	compactI64          = 0x06
	compactDouble       = 0x07
	compactBinary       = 0x08
	compactList         = 0x09
	compactSet          = 0x0a
	compactMap          = 0x0b
	compactStruct       = 0x0c
)

// compactReader decodes the Thrift compact protocol, scoped to the field
// shapes used by parquet page headers. It never reads a message envelope:
// parquet stores bare compact structs back to back.
type compactReader struct {
	buf []byte
	pos int
}

func (r *compactReader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrShortBuffer
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *compactReader) uvarint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.byte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, fmt.Errorf("format: varint overflow")
		}
	}
}

func zigzagDecode32(u uint64) int32 {
	v := uint32(u)
	return int32(v>>1) ^ -int32(v&1)
}

func zigzagDecode64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

func (r *compactReader) i16() (int16, error) {
	u, err := r.uvarint()
	if err != nil {
		return 0, err
	}
	return int16(zigzagDecode32(u)), nil
}

func (r *compactReader) i32() (int32, error) {
	u, err := r.uvarint()
	if err != nil {
		return 0, err
	}
	return zigzagDecode32(u), nil
}

func (r *compactReader) i64() (int64, error) {
	u, err := r.uvarint()
	if err != nil {
		return 0, err
	}
	return zigzagDecode64(u), nil
}

func (r *compactReader) binary() ([]byte, error) {
	n, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// fieldHeader reports the compact type nibble and field id of the next
// field, or (0, 0, false, nil) at STOP. lastID is the previous sibling
// field's id (0 at the start of a struct), per the compact protocol's
// delta-encoded field ids.
func (r *compactReader) fieldHeader(lastID int16) (fieldType byte, fieldID int16, stop bool, err error) {
	b, err := r.byte()
	if err != nil {
		return 0, 0, false, err
	}
	if b == compactStop {
		return 0, 0, true, nil
	}
	delta := (b >> 4) & 0x0f
	fieldType = b & 0x0f
	if delta == 0 {
		fieldID, err = r.i16()
		if err != nil {
			return 0, 0, false, err
		}
		return fieldType, fieldID, false, nil
	}
	return fieldType, lastID + int16(delta), false, nil
}

// skip discards a value of the given compact type, including nested
// structs/lists/maps/sets, without interpreting it. Used for fields this
// module does not model (column/page statistics, CRC, index page headers).
func (r *compactReader) skip(fieldType byte) error {
	switch fieldType {
	case compactBooleanTrue, compactBooleanFalse:
		return nil
	case compactByte:
		_, err := r.byte()
		return err
	case compactI16, compactI32, compactI64:
		_, err := r.uvarint()
		return err
	case compactDouble:
		if r.pos+8 > len(r.buf) {
			return ErrShortBuffer
		}
		r.pos += 8
		return nil
	case compactBinary:
		_, err := r.binary()
		return err
	case compactStruct:
		var lastID int16
		for {
			ft, id, stop, err := r.fieldHeader(lastID)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			if err := r.skip(ft); err != nil {
				return err
			}
			lastID = id
		}
	case compactList, compactSet:
		b, err := r.byte()
		if err != nil {
			return err
		}
		elemType := b & 0x0f
		size := int(b>>4) & 0x0f
		if size == 15 {
			n, err := r.uvarint()
			if err != nil {
				return err
			}
			size = int(n)
		}
		for i := 0; i < size; i++ {
			if err := r.skip(elemType); err != nil {
				return err
			}
		}
		return nil
	case compactMap:
		n, err := r.uvarint()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		kv, err := r.byte()
		if err != nil {
			return err
		}
		keyType, valType := kv>>4, kv&0x0f
		for i := uint64(0); i < n; i++ {
			if err := r.skip(keyType); err != nil {
				return err
			}
			if err := r.skip(valType); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("format: unsupported compact type %#x", fieldType)
	}
}

// ReadPageHeader parses a compact-Thrift PageHeader from the start of buf.
// It returns the header and the number of bytes consumed. If buf does not
// hold a complete header, it returns ErrShortBuffer so the caller can retry
// with a larger window (see the dictionary-count fast path).
func ReadPageHeader(buf []byte) (*PageHeader, int, error) {
	r := &compactReader{buf: buf}
	h := &PageHeader{}

	var lastID int16
	for {
		ft, id, stop, err := r.fieldHeader(lastID)
		if err != nil {
			return nil, 0, err
		}
		if stop {
			break
		}
		lastID = id

		switch id {
		case 1: // type
			v, err := readEnum(r, ft)
			if err != nil {
				return nil, 0, err
			}
			h.Type = PageType(v)
		case 2: // uncompressed_page_size
			v, err := r.i32()
			if err != nil {
				return nil, 0, err
			}
			h.UncompressedPageSize = v
		case 3: // compressed_page_size
			v, err := r.i32()
			if err != nil {
				return nil, 0, err
			}
			h.CompressedPageSize = v
		case 5: // data_page_header
			dph, err := readDataPageHeader(r, ft)
			if err != nil {
				return nil, 0, err
			}
			h.DataPageHeader = dph
		case 7: // dictionary_page_header
			dict, err := readDictionaryPageHeader(r, ft)
			if err != nil {
				return nil, 0, err
			}
			h.DictionaryPageHeader = dict
		case 8: // data_page_header_v2
			dphv2, err := readDataPageHeaderV2(r, ft)
			if err != nil {
				return nil, 0, err
			}
			h.DataPageHeaderV2 = dphv2
		default: // crc (4), index_page_header (6), or unknown future field
			if err := r.skip(ft); err != nil {
				return nil, 0, err
			}
		}
	}

	return h, r.pos, nil
}

func readEnum(r *compactReader, fieldType byte) (int32, error) {
	if fieldType != compactI32 {
		return 0, fmt.Errorf("format: expected i32 enum, got compact type %#x", fieldType)
	}
	return r.i32()
}

func readDataPageHeader(r *compactReader, fieldType byte) (*DataPageHeader, error) {
	if fieldType != compactStruct {
		return nil, fmt.Errorf("format: expected struct for data_page_header, got compact type %#x", fieldType)
	}
	h := &DataPageHeader{}
	var lastID int16
	for {
		ft, id, stop, err := r.fieldHeader(lastID)
		if err != nil {
			return nil, err
		}
		if stop {
			return h, nil
		}
		lastID = id
		switch id {
		case 1:
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			h.NumValues = v
		case 2:
			v, err := readEnum(r, ft)
			if err != nil {
				return nil, err
			}
			h.Encoding = Encoding(v)
		case 3:
			v, err := readEnum(r, ft)
			if err != nil {
				return nil, err
			}
			h.DefinitionLevelEncoding = Encoding(v)
		case 4:
			v, err := readEnum(r, ft)
			if err != nil {
				return nil, err
			}
			h.RepetitionLevelEncoding = Encoding(v)
		default: // statistics (5) or unknown future field
			if err := r.skip(ft); err != nil {
				return nil, err
			}
		}
	}
}

func readDictionaryPageHeader(r *compactReader, fieldType byte) (*DictionaryPageHeader, error) {
	if fieldType != compactStruct {
		return nil, fmt.Errorf("format: expected struct for dictionary_page_header, got compact type %#x", fieldType)
	}
	h := &DictionaryPageHeader{}
	var lastID int16
	for {
		ft, id, stop, err := r.fieldHeader(lastID)
		if err != nil {
			return nil, err
		}
		if stop {
			return h, nil
		}
		lastID = id
		switch id {
		case 1:
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			h.NumValues = v
		case 2:
			v, err := readEnum(r, ft)
			if err != nil {
				return nil, err
			}
			h.Encoding = Encoding(v)
		case 3:
			h.IsSorted = ft == compactBooleanTrue
		default:
			if err := r.skip(ft); err != nil {
				return nil, err
			}
		}
	}
}

func readDataPageHeaderV2(r *compactReader, fieldType byte) (*DataPageHeaderV2, error) {
	if fieldType != compactStruct {
		return nil, fmt.Errorf("format: expected struct for data_page_header_v2, got compact type %#x", fieldType)
	}
	// is_compressed defaults to true per the parquet Thrift IDL when absent.
	h := &DataPageHeaderV2{IsCompressed: true}
	var lastID int16
	for {
		ft, id, stop, err := r.fieldHeader(lastID)
		if err != nil {
			return nil, err
		}
		if stop {
			return h, nil
		}
		lastID = id
		switch id {
		case 1:
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			h.NumValues = v
		case 2:
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			h.NumNulls = v
		case 3:
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			h.NumRows = v
		case 4:
			v, err := readEnum(r, ft)
			if err != nil {
				return nil, err
			}
			h.Encoding = Encoding(v)
		case 5:
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			h.DefinitionLevelsByteLength = v
		case 6:
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			h.RepetitionLevelsByteLength = v
		case 7:
			h.IsCompressed = ft == compactBooleanTrue
		default: // statistics (8) or unknown future field
			if err := r.skip(ft); err != nil {
				return nil, err
			}
		}
	}
}
