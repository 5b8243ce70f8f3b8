package parquet

import (
	"github.com/honeymaro/hyparquet-go/compress"
	"github.com/honeymaro/hyparquet-go/format"
)

// decompressPage returns p's body with its codec applied, per the
// Decompressor Dispatch contract (§4.4): V1 pages (and dictionary pages)
// compress the entire body; V2 data pages compress only the value bytes,
// leaving the level streams at the front of the body uncompressed.
func decompressPage(p *page, codec format.CompressionCodec, table compress.Table) ([]byte, error) {
	h := p.header

	decode := func(src []byte, size int) ([]byte, error) {
		if _, ok := table[codec]; !ok {
			return nil, newError(UnsupportedFeature, "no decompressor configured for codec %s", codec)
		}
		out, err := table.Decode(codec, nil, src, size)
		if err != nil {
			return nil, wrapError(CorruptPage, err, "decompressing page")
		}
		return out, nil
	}

	if h.DataPageHeaderV2 != nil {
		levelsLen := int(h.DataPageHeaderV2.RepetitionLevelsByteLength + h.DataPageHeaderV2.DefinitionLevelsByteLength)
		if levelsLen > len(p.body) {
			return nil, newError(CorruptPage, "level stream length %d exceeds page body of %d bytes", levelsLen, len(p.body))
		}
		if !h.DataPageHeaderV2.IsCompressed || codec == format.Uncompressed {
			return p.body, nil
		}

		levels := p.body[:levelsLen]
		compressed := p.body[levelsLen:]
		uncompressedValuesSize := int(h.UncompressedPageSize) - levelsLen

		values, err := decode(compressed, uncompressedValuesSize)
		if err != nil {
			return nil, err
		}

		out := make([]byte, 0, levelsLen+len(values))
		out = append(out, levels...)
		out = append(out, values...)
		return out, nil
	}

	return decode(p.body, int(h.UncompressedPageSize))
}
