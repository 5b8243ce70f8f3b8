package parquet

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/honeymaro/hyparquet-go/format"
	"github.com/honeymaro/hyparquet-go/schema"
)

// chunkPage is one decoded page delivered from a column chunk, carrying the
// absolute starting row index of its first value (§4.6).
type chunkPage struct {
	column   string
	data     *DecodedColumn
	rowStart int64
	rowEnd   int64
}

// readColumnChunk drains one column chunk's page stream: the first page, if
// DICTIONARY, is decoded and retained; every subsequent page is decoded
// against it and appended to the returned slice. Pages within a chunk are
// always decoded in order (§4.6).
func readColumnChunk(ctx context.Context, c *cache, cr ColumnRange, leaf *leafInfo, groupStartRow int64, req *Request) ([]chunkPage, error) {
	table := req.compressors()
	codec := cr.chunk.MetaData.Codec

	pr := newPageReader(c, cr.StartByte, cr.EndByte, cr.chunk.MetaData.NumValues)

	var dictionary *Dictionary
	var pages []chunkPage
	row := groupStartRow

	for {
		pg, err := pr.next(ctx)
		if err != nil {
			return nil, err
		}
		if pg == nil {
			break
		}

		body, err := decompressPage(pg, codec, table)
		if err != nil {
			return nil, err
		}
		pg.body = body

		dict, decoded, err := decodePage(pg, leaf, dictionary, req)
		if err != nil {
			return nil, err
		}
		if dict != nil {
			dictionary = dict
			continue
		}

		rowCount := rowsInPage(pg, decoded, leaf)
		cp := chunkPage{column: cr.Path, data: decoded, rowStart: row, rowEnd: row + rowCount}
		pages = append(pages, cp)

		if req.OnChunk != nil {
			if err := req.OnChunk(cr.Path, *decoded, cp.rowStart, cp.rowEnd); err != nil {
				return nil, err
			}
		}

		row += rowCount
	}

	return pages, nil
}

// rowsInPage returns the number of logical rows a page contributes: for a
// leaf with no repetition (every value starts a new row), that's the value
// count; for a repeated leaf, it's the number of rep_level==0 entries.
func rowsInPage(p *page, decoded *DecodedColumn, leaf *leafInfo) int64 {
	if leaf.MaxRepetitionLevel == 0 {
		if decoded.DefinitionLevels != nil {
			return int64(len(decoded.DefinitionLevels))
		}
		return int64(len(decoded.Values))
	}
	var rows int64
	for _, r := range decoded.RepetitionLevels {
		if r == 0 {
			rows++
		}
	}
	return rows
}

// readRowGroup reads every requested column of one row group concurrently,
// bounded by req.maxConcurrency(), and returns each column's decoded pages.
func readRowGroup(ctx context.Context, c *cache, gp GroupPlan, leaves map[string]*leafInfo, req *Request) (map[string][]chunkPage, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(req.maxConcurrency())

	results := make([][]chunkPage, len(gp.ColumnRanges))
	for i, cr := range gp.ColumnRanges {
		i, cr := i, cr
		leaf, ok := leaves[cr.Path]
		if !ok {
			return nil, newError(CorruptMetadata, "no schema leaf for column %q", cr.Path)
		}
		g.Go(func() error {
			pages, err := readColumnChunk(ctx, c, cr, leaf, gp.GroupStartRow, req)
			if err != nil {
				return err
			}
			results[i] = pages
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byColumn := make(map[string][]chunkPage, len(gp.ColumnRanges))
	for i, cr := range gp.ColumnRanges {
		byColumn[cr.Path] = results[i]
	}
	return byColumn, nil
}

// buildLeafInfo derives the leafInfo table for every requested column path,
// used by readRowGroup/readColumnChunk.
func buildLeafInfo(md *format.FileMetaData, columns []string) (map[string]*leafInfo, error) {
	root, err := schemaTree(md)
	if err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(columns))
	for _, c := range columns {
		want[c] = true
	}

	out := make(map[string]*leafInfo)
	for _, l := range schema.Leaves(root) {
		path := l.PathString()
		if !want[path] {
			continue
		}
		elem := l.Node.Element
		typeLength := 0
		if elem.TypeLength != nil {
			typeLength = int(*elem.TypeLength)
		}
		physType := format.Boolean
		if elem.Type != nil {
			physType = *elem.Type
		}
		out[path] = &leafInfo{
			Path:               path,
			Type:               physType,
			TypeLength:         typeLength,
			Element:            elem,
			MaxRepetitionLevel: l.MaxRepetitionLevel,
			MaxDefinitionLevel: l.MaxDefinitionLevel,
		}
	}
	return out, nil
}
