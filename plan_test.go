package parquet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/honeymaro/hyparquet-go/format"
)

func flatMetadata() *format.FileMetaData {
	return &format.FileMetaData{
		NumRows: 10,
		Schema: []format.SchemaElement{
			{Name: "schema", NumChildren: i32p(2)},
			{Name: "a", RepetitionType: rtp(format.Required), Type: typ(format.Int32)},
			{Name: "b", RepetitionType: rtp(format.Required), Type: typ(format.Int32)},
		},
		RowGroups: []format.RowGroup{
			{NumRows: 4, Columns: []format.ColumnChunk{
				{MetaData: &format.ColumnMetaData{PathInSchema: []string{"a"}, DataPageOffset: 0, TotalCompressedSize: 10}},
				{MetaData: &format.ColumnMetaData{PathInSchema: []string{"b"}, DataPageOffset: 10, TotalCompressedSize: 10}},
			}},
			{NumRows: 6, Columns: []format.ColumnChunk{
				{MetaData: &format.ColumnMetaData{PathInSchema: []string{"a"}, DataPageOffset: 20, TotalCompressedSize: 15}},
				{MetaData: &format.ColumnMetaData{PathInSchema: []string{"b"}, DataPageOffset: 35, TotalCompressedSize: 15}},
			}},
		},
	}
}

func TestPlanAllColumnsAllRows(t *testing.T) {
	req := &Request{Metadata: flatMetadata()}
	groups, err := plan(req)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, int64(0), groups[0].GroupStartRow)
	require.Equal(t, int64(4), groups[0].GroupRows)
	require.Equal(t, int64(4), groups[1].GroupStartRow)
	require.Equal(t, int64(6), groups[1].GroupRows)
	require.Len(t, groups[0].ColumnRanges, 2)
}

func TestPlanRowRangeSkipsDisjointGroups(t *testing.T) {
	req := &Request{Metadata: flatMetadata(), RowStart: 5, RowEnd: 8}
	groups, err := plan(req)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, 1, groups[0].GroupIndex)
}

func TestPlanOutOfRangeRejected(t *testing.T) {
	req := &Request{Metadata: flatMetadata(), RowStart: 0, RowEnd: 100}
	_, err := plan(req)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, InvalidRequest, pe.Kind)
}

func TestPlanMissingColumnRejected(t *testing.T) {
	req := &Request{Metadata: flatMetadata(), Columns: []string{"nope"}}
	_, err := plan(req)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, InvalidRequest, pe.Kind)
}

func TestPlanMinimality(t *testing.T) {
	// Requesting one column should only ever yield that column's ranges,
	// never the unrequested sibling's bytes.
	req := &Request{Metadata: flatMetadata(), Columns: []string{"a"}}
	groups, err := plan(req)
	require.NoError(t, err)
	for _, g := range groups {
		require.Len(t, g.ColumnRanges, 1)
		require.Equal(t, "a", g.ColumnRanges[0].Path)
	}
}

func TestByteRangesSortedUnion(t *testing.T) {
	groups, err := plan(&Request{Metadata: flatMetadata()})
	require.NoError(t, err)
	ranges := byteRanges(groups)
	for i := 1; i < len(ranges); i++ {
		require.LessOrEqual(t, ranges[i-1][0], ranges[i][0])
	}
	require.Len(t, ranges, 4)
}
