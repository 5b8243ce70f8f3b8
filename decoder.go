package parquet

import (
	"github.com/honeymaro/hyparquet-go/encoding/bytestreamsplit"
	"github.com/honeymaro/hyparquet-go/encoding/delta"
	"github.com/honeymaro/hyparquet-go/encoding/dict"
	"github.com/honeymaro/hyparquet-go/encoding/plain"
	"github.com/honeymaro/hyparquet-go/encoding/rle"
	"github.com/honeymaro/hyparquet-go/format"
)

// leafInfo carries everything the Page Decoder needs about one leaf column
// beyond what a page header itself declares.
type leafInfo struct {
	Path               string
	Type               format.Type
	TypeLength         int
	Element            *format.SchemaElement
	MaxRepetitionLevel int
	MaxDefinitionLevel int
}

// DecodedColumn is one page's decoded output: a value sequence plus its
// parallel repetition/definition level sequences (§3). Levels are nil for a
// leaf whose corresponding max level is zero, matching the specification's
// "for non-nullable leaves levels are omitted" rule.
type DecodedColumn struct {
	Values           []Value
	DefinitionLevels []int32
	RepetitionLevels []int32
}

// decodeLevels splits the decompressed page body into (repLevels, defLevels,
// remainder), per §4.5's V1/V2 layout rules.
func decodeLevels(body []byte, leaf *leafInfo, v2 *format.DataPageHeaderV2, numValues int) (rep, def []int32, rest []byte, err error) {
	rest = body

	if v2 != nil {
		if leaf.MaxRepetitionLevel > 0 {
			n := int(v2.RepetitionLevelsByteLength)
			if n > len(rest) {
				return nil, nil, nil, newError(CorruptPage, "repetition level stream length %d exceeds page body", n)
			}
			bitWidth := rle.BitWidthForMaxLevel(leaf.MaxRepetitionLevel)
			rep, _, err = rle.DecodeInt32(make([]int32, 0, numValues), rest[:n], bitWidth, numValues)
			if err != nil {
				return nil, nil, nil, wrapError(CorruptPage, err, "decoding repetition levels")
			}
			rest = rest[n:]
		}
		if leaf.MaxDefinitionLevel > 0 {
			n := int(v2.DefinitionLevelsByteLength)
			if n > len(rest) {
				return nil, nil, nil, newError(CorruptPage, "definition level stream length %d exceeds page body", n)
			}
			bitWidth := rle.BitWidthForMaxLevel(leaf.MaxDefinitionLevel)
			def, _, err = rle.DecodeInt32(make([]int32, 0, numValues), rest[:n], bitWidth, numValues)
			if err != nil {
				return nil, nil, nil, wrapError(CorruptPage, err, "decoding definition levels")
			}
			rest = rest[n:]
		}
		return rep, def, rest, nil
	}

	if leaf.MaxRepetitionLevel > 0 {
		bitWidth := rle.BitWidthForMaxLevel(leaf.MaxRepetitionLevel)
		var n int
		rep, n, err = rle.DecodeLevels(rest, bitWidth, numValues)
		if err != nil {
			return nil, nil, nil, wrapError(CorruptPage, err, "decoding repetition levels")
		}
		rest = rest[n:]
	}
	if leaf.MaxDefinitionLevel > 0 {
		bitWidth := rle.BitWidthForMaxLevel(leaf.MaxDefinitionLevel)
		var n int
		def, n, err = rle.DecodeLevels(rest, bitWidth, numValues)
		if err != nil {
			return nil, nil, nil, wrapError(CorruptPage, err, "decoding definition levels")
		}
		rest = rest[n:]
	}
	return rep, def, rest, nil
}

// decodePage decodes one page's body (already decompressed) into either a
// Dictionary (for a DICTIONARY page, returned as the first result) or a
// DecodedColumn (for a data page, returned as the second result).
func decodePage(p *page, leaf *leafInfo, dictionary *Dictionary, req *Request) (*Dictionary, *DecodedColumn, error) {
	h := p.header

	if h.Type == format.DictionaryPage {
		count := int(h.DictionaryPageHeader.NumValues)
		values, err := decodePlainValues(p.body, leaf.Type, leaf.TypeLength, count)
		if err != nil {
			return nil, nil, wrapError(CorruptPage, err, "decoding dictionary page for %s", leaf.Path)
		}
		return &Dictionary{Values: values}, nil, nil
	}

	var (
		numValues int
		encoding  format.Encoding
		v2        *format.DataPageHeaderV2
	)
	switch {
	case h.DataPageHeader != nil:
		numValues = int(h.DataPageHeader.NumValues)
		encoding = h.DataPageHeader.Encoding
	case h.DataPageHeaderV2 != nil:
		numValues = int(h.DataPageHeaderV2.NumValues)
		encoding = h.DataPageHeaderV2.Encoding
		v2 = h.DataPageHeaderV2
	default:
		return nil, nil, newError(CorruptPage, "page header for %s names neither a data nor dictionary page", leaf.Path)
	}

	rep, def, rest, err := decodeLevels(p.body, leaf, v2, numValues)
	if err != nil {
		return nil, nil, err
	}

	// Only values at the max definition level are materialized (§4.5); a
	// non-nullable leaf has no definition levels, so every position holds a
	// value.
	numPresent := numValues
	if def != nil {
		numPresent = 0
		for _, d := range def {
			if int(d) == leaf.MaxDefinitionLevel {
				numPresent++
			}
		}
	}

	values, isRawIndex, err := decodeValues(rest, encoding, leaf, dictionary, numPresent, req.RawDictionary)
	if err != nil {
		return nil, nil, wrapError(CorruptPage, err, "decoding values for %s", leaf.Path)
	}

	if !isRawIndex {
		values, err = applyConverters(values, leaf.Element, req.converters(), req.utf8())
		if err != nil {
			return nil, nil, wrapError(CorruptPage, err, "converting values for %s", leaf.Path)
		}
	}

	return nil, &DecodedColumn{Values: values, DefinitionLevels: def, RepetitionLevels: rep}, nil
}

// decodeValues dispatches on encoding to produce the page's value sequence,
// per the table in §4.5. The second result reports whether the values are
// raw dictionary indices (raw=true requested on a dictionary-encoded page),
// in which case the caller skips logical-type conversion: indices carry no
// logical meaning until indirected through the dictionary.
func decodeValues(src []byte, encoding format.Encoding, leaf *leafInfo, dictionary *Dictionary, count int, raw bool) ([]Value, bool, error) {
	switch encoding {
	case format.Plain:
		values, err := decodePlainValues(src, leaf.Type, leaf.TypeLength, count)
		return values, false, err

	case format.PlainDictionary, format.RLEDictionary:
		indices, _, err := dict.DecodeIndices(src, count)
		if err != nil {
			return nil, false, err
		}
		if raw {
			values := make([]Value, len(indices))
			for i, idx := range indices {
				values[i] = int32Value(idx)
			}
			return values, true, nil
		}
		values := make([]Value, len(indices))
		for i, idx := range indices {
			v, ok := dictionary.Lookup(idx)
			if !ok {
				return nil, false, newError(CorruptPage, "dictionary index %d out of range (dictionary has %d entries)", idx, dictionary.Len())
			}
			values[i] = v
		}
		return values, false, nil

	case format.RLE:
		if leaf.Type != format.Boolean {
			return nil, false, newError(CorruptPage, "RLE encoding is only valid for BOOLEAN, got %s", leaf.Type)
		}
		bools, _, err := rle.DecodeBoolean(make([]bool, 0, count), src, count)
		if err != nil {
			return nil, false, err
		}
		values := make([]Value, len(bools))
		for i, b := range bools {
			values[i] = boolValue(b)
		}
		return values, false, nil

	case format.DeltaBinaryPacked:
		switch leaf.Type {
		case format.Int32:
			raw, _, err := delta.DecodeInt32(src)
			if err != nil {
				return nil, false, err
			}
			return int32Values(raw), false, nil
		case format.Int64:
			raw, _, err := delta.DecodeInt64(src)
			if err != nil {
				return nil, false, err
			}
			return int64Values(raw), false, nil
		default:
			return nil, false, newError(CorruptPage, "DELTA_BINARY_PACKED is only valid for INT32/INT64, got %s", leaf.Type)
		}

	case format.DeltaLengthByteArray:
		raw, err := delta.DecodeLengthByteArray(nil, src, count)
		if err != nil {
			return nil, false, err
		}
		return byteArrayValues(raw), false, nil

	case format.DeltaByteArray:
		raw, err := delta.DecodeByteArray(nil, src, count)
		if err != nil {
			return nil, false, err
		}
		return byteArrayValues(raw), false, nil

	case format.ByteStreamSplit:
		width := physicalWidth(leaf.Type, leaf.TypeLength)
		if width == 0 {
			return nil, false, newError(CorruptPage, "BYTE_STREAM_SPLIT is not valid for %s", leaf.Type)
		}
		raw, err := bytestreamsplit.Decode(nil, src, count, width)
		if err != nil {
			return nil, false, err
		}
		values, err := byteStreamSplitValues(raw, leaf.Type)
		return values, false, err

	default:
		return nil, false, newError(UnsupportedFeature, "unsupported value encoding %s", encoding)
	}
}

func physicalWidth(t format.Type, typeLength int) int {
	switch t {
	case format.Int32, format.Float:
		return 4
	case format.Int64, format.Double:
		return 8
	case format.Int96:
		return 12
	case format.FixedLenByteArray:
		return typeLength
	default:
		return 0
	}
}

func decodePlainValues(src []byte, t format.Type, typeLength, count int) ([]Value, error) {
	switch t {
	case format.Boolean:
		raw, err := plain.DecodeBoolean(nil, src, count)
		if err != nil {
			return nil, err
		}
		values := make([]Value, len(raw))
		for i, b := range raw {
			values[i] = boolValue(b)
		}
		return values, nil
	case format.Int32:
		raw, err := plain.DecodeInt32(nil, src, count)
		if err != nil {
			return nil, err
		}
		return int32Values(raw), nil
	case format.Int64:
		raw, err := plain.DecodeInt64(nil, src, count)
		if err != nil {
			return nil, err
		}
		return int64Values(raw), nil
	case format.Int96:
		raw, err := plain.DecodeInt96(nil, src, count)
		if err != nil {
			return nil, err
		}
		values := make([]Value, len(raw))
		for i, b := range raw {
			values[i] = int96Value(b)
		}
		return values, nil
	case format.Float:
		raw, err := plain.DecodeFloat32(nil, src, count)
		if err != nil {
			return nil, err
		}
		values := make([]Value, len(raw))
		for i, f := range raw {
			values[i] = float32Value(f)
		}
		return values, nil
	case format.Double:
		raw, err := plain.DecodeFloat64(nil, src, count)
		if err != nil {
			return nil, err
		}
		values := make([]Value, len(raw))
		for i, f := range raw {
			values[i] = float64Value(f)
		}
		return values, nil
	case format.ByteArray:
		raw, _, err := plain.DecodeByteArray(nil, src, count)
		if err != nil {
			return nil, err
		}
		return byteArrayValues(raw), nil
	case format.FixedLenByteArray:
		raw, _, err := plain.DecodeFixedLenByteArray(nil, src, count, typeLength)
		if err != nil {
			return nil, err
		}
		return byteArrayValues(raw), nil
	default:
		return nil, newError(UnsupportedFeature, "unsupported physical type %s", t)
	}
}

func int32Values(raw []int32) []Value {
	values := make([]Value, len(raw))
	for i, v := range raw {
		values[i] = int32Value(v)
	}
	return values
}

func int64Values(raw []int64) []Value {
	values := make([]Value, len(raw))
	for i, v := range raw {
		values[i] = int64Value(v)
	}
	return values
}

func byteArrayValues(raw [][]byte) []Value {
	values := make([]Value, len(raw))
	for i, b := range raw {
		values[i] = bytesValue(b)
	}
	return values
}

func byteStreamSplitValues(raw [][]byte, t format.Type) ([]Value, error) {
	values := make([]Value, len(raw))
	for i, b := range raw {
		v, err := decodePlainValues(b, t, len(b), 1)
		if err != nil {
			return nil, err
		}
		values[i] = v[0]
	}
	return values, nil
}

// logicalKey resolves the converter-table key for elem, preferring the
// legacy ConvertedType annotation and falling back to the new-style
// LogicalType union for the two variants ConvertedType cannot express: UUID
// and FLOAT16 only ever arrive via LogicalType (§4.5).
func logicalKey(elem *format.SchemaElement) (format.ConvertedType, bool) {
	if elem.ConvertedType != nil {
		return *elem.ConvertedType, true
	}
	if elem.LogicalType != nil {
		switch {
		case elem.LogicalType.UUID != nil:
			return format.UUID, true
		case elem.LogicalType.Float16 != nil:
			return format.Float16, true
		}
	}
	return format.ConvertedNone, false
}

// applyConverters runs the configured logical-type converter over every
// value, keyed by the schema element's converted/logical type (§4.5). A
// leaf with no logical-type annotation, or one with no matching converter,
// is left unchanged.
func applyConverters(values []Value, elem *format.SchemaElement, converters map[format.ConvertedType]Converter, utf8 bool) ([]Value, error) {
	key, ok := logicalKey(elem)
	if !ok {
		return values, nil
	}
	if key == format.UTF8 && !utf8 {
		return values, nil
	}
	convert, ok := converters[key]
	if !ok {
		return values, nil
	}
	out := make([]Value, len(values))
	for i, v := range values {
		cv, err := convert(v, elem)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}
