package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadPageHeaderDictionary(t *testing.T) {
	buf := []byte{
		0x15, 0x04, // field 1 (type, i32): DictionaryPage(2) -> zigzag(2)=4
		0x15, 0xC8, 0x01, // field 2 (uncompressed_page_size, i32): zigzag(100)
		0x15, 0x64, // field 3 (compressed_page_size, i32): zigzag(50)
		0x4C, // field 7 (dictionary_page_header, struct), delta=4
		0x15, 0x06, // field 1 (num_values, i32): zigzag(3)
		0x15, 0x00, // field 2 (encoding, i32 enum): Plain(0)
		0x12,       // field 3 (is_sorted, bool false)
		0x00,       // STOP dictionary_page_header
		0x00,       // STOP PageHeader
		0xFF, 0xFF, // trailing bytes belonging to the next page
	}

	h, n, err := ReadPageHeader(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf)-2, n)
	require.Equal(t, DictionaryPage, h.Type)
	require.EqualValues(t, 100, h.UncompressedPageSize)
	require.EqualValues(t, 50, h.CompressedPageSize)
	require.NotNil(t, h.DictionaryPageHeader)
	require.EqualValues(t, 3, h.DictionaryPageHeader.NumValues)
	require.Equal(t, Plain, h.DictionaryPageHeader.Encoding)
	require.False(t, h.DictionaryPageHeader.IsSorted)
	require.Nil(t, h.DataPageHeader)
	require.Nil(t, h.DataPageHeaderV2)
}

func TestReadPageHeaderShortBuffer(t *testing.T) {
	buf := []byte{0x15, 0x00, 0x15, 0xC8}
	_, _, err := ReadPageHeader(buf)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestReadPageHeaderDataPageV2(t *testing.T) {
	buf := []byte{
		0x15, 0x06, // field 1 (type, i32): DataPageV2(3) -> zigzag(3)=6
		0x15, 0x0A, // field 2 (uncompressed_page_size): zigzag(5)
		0x15, 0x0A, // field 3 (compressed_page_size): zigzag(5)
		0x5C, // field 8 (data_page_header_v2, struct), delta=5
		0x15, 0x14, // field 1 (num_values): zigzag(10)
		0x15, 0x04, // field 2 (num_nulls): zigzag(2)
		0x15, 0x14, // field 3 (num_rows): zigzag(10)
		0x15, 0x00, // field 4 (encoding): Plain(0)
		0x15, 0x04, // field 5 (definition_levels_byte_length): zigzag(2)
		0x15, 0x00, // field 6 (repetition_levels_byte_length): zigzag(0)
		0x00, // STOP data_page_header_v2 (is_compressed omitted -> defaults true)
		0x00, // STOP PageHeader
	}

	h, n, err := ReadPageHeader(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, DataPageV2, h.Type)
	require.NotNil(t, h.DataPageHeaderV2)
	require.EqualValues(t, 10, h.DataPageHeaderV2.NumValues)
	require.EqualValues(t, 2, h.DataPageHeaderV2.NumNulls)
	require.EqualValues(t, 10, h.DataPageHeaderV2.NumRows)
	require.EqualValues(t, 2, h.DataPageHeaderV2.DefinitionLevelsByteLength)
	require.EqualValues(t, 0, h.DataPageHeaderV2.RepetitionLevelsByteLength)
	require.True(t, h.DataPageHeaderV2.IsCompressed)
}
