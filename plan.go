package parquet

import (
	"sort"
	"strings"

	"github.com/honeymaro/hyparquet-go/format"
)

// ColumnRange is one column chunk's byte window within a group plan.
type ColumnRange struct {
	Path      string
	StartByte int64
	EndByte   int64

	chunk *format.ColumnChunk
}

// GroupPlan names one row group's participation in a request: its absolute
// row span and the byte ranges of every requested column chunk within it.
type GroupPlan struct {
	GroupIndex   int
	GroupStartRow int64
	GroupRows    int64
	ColumnRanges []ColumnRange
}

// plan enumerates the (row-group, column) pairs intersecting the request
// and returns their byte ranges, per the specification's Planner (§4.1).
// Row groups whose row span is disjoint from [rowStart, rowEnd) are
// omitted entirely; columns not named in req.Columns are omitted. Column
// order within each GroupPlan follows req.Columns.
func plan(req *Request) ([]GroupPlan, error) {
	md := req.Metadata
	if md == nil {
		return nil, newError(InvalidRequest, "Metadata is required")
	}

	columns := req.Columns
	if len(columns) == 0 {
		root, err := schemaTree(md)
		if err != nil {
			return nil, err
		}
		columns = leafPaths(root)
	}

	rowStart := req.RowStart
	rowEnd := req.rowEnd()
	if rowStart < 0 || rowEnd < rowStart || rowEnd > md.NumRows {
		return nil, newError(InvalidRequest, "row range [%d, %d) out of bounds for %d rows", rowStart, rowEnd, md.NumRows)
	}

	wanted := make(map[string]int, len(columns))
	for i, c := range columns {
		wanted[c] = i
	}

	groups := make([]GroupPlan, 0, len(md.RowGroups))
	var groupStart int64
	for gi := range md.RowGroups {
		rg := &md.RowGroups[gi]
		groupRows := rg.NumRows
		start, end := groupStart, groupStart+groupRows
		groupStart = end

		if end <= rowStart || start >= rowEnd {
			continue
		}

		ranges := make([]ColumnRange, len(columns))
		found := make([]bool, len(columns))
		for ci := range rg.Columns {
			cc := &rg.Columns[ci]
			path := strings.Join(cc.MetaData.PathInSchema, ".")
			idx, ok := wanted[path]
			if !ok {
				continue
			}
			startByte := cc.MetaData.DataPageOffset
			if cc.MetaData.DictionaryPageOffset != nil && *cc.MetaData.DictionaryPageOffset < startByte {
				startByte = *cc.MetaData.DictionaryPageOffset
			}
			ranges[idx] = ColumnRange{
				Path:      path,
				StartByte: startByte,
				EndByte:   startByte + cc.MetaData.TotalCompressedSize,
				chunk:     cc,
			}
			found[idx] = true
		}
		for i, ok := range found {
			if !ok {
				return nil, newError(InvalidRequest, "Column '%s' not found", columns[i])
			}
		}

		groups = append(groups, GroupPlan{
			GroupIndex:    gi,
			GroupStartRow: start,
			GroupRows:     groupRows,
			ColumnRanges:  ranges,
		})
	}

	return groups, nil
}

// byteRanges returns the full set of disjoint, sorted [start,end) byte
// ranges a plan touches, used to seed the Prefetch Cache (§4.2).
func byteRanges(groups []GroupPlan) [][2]int64 {
	var ranges [][2]int64
	for _, g := range groups {
		for _, cr := range g.ColumnRanges {
			ranges = append(ranges, [2]int64{cr.StartByte, cr.EndByte})
		}
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i][0] < ranges[j][0] })
	return ranges
}
