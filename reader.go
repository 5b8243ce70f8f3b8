package parquet

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/honeymaro/hyparquet-go/format"
	"github.com/honeymaro/hyparquet-go/schema"
)

// dictCountPeekStart and dictCountPeekCap bound ReadDictionaryCount's header
// peek: start small, double on a short read, give up past the cap rather
// than fetch an unbounded prefix for what is supposed to be a cheap call
// (§4.5, §9 open questions).
const (
	dictCountPeekStart = 256
	dictCountPeekCap   = 64 << 10
)

// resolveColumns returns the request's column list (defaulting to every
// leaf column) alongside the parsed schema tree.
func resolveColumns(req *Request) ([]string, *schema.Node, error) {
	root, err := schemaTree(req.Metadata)
	if err != nil {
		return nil, nil, err
	}
	columns := req.Columns
	if len(columns) == 0 {
		columns = leafPaths(root)
	}
	return columns, root, nil
}

// Read drives the full pipeline for req: planning, prefetching, concurrent
// per-row-group decoding, and Dremel assembly, invoking req.OnComplete once
// with every selected row in ascending global row order (§4.8). Returns the
// first error encountered by any stage.
func Read(ctx context.Context, req *Request) error {
	if req.Metadata == nil {
		return newError(InvalidRequest, "Metadata is required")
	}
	if req.File == nil {
		return newError(InvalidRequest, "File is required")
	}

	columns, root, err := resolveColumns(req)
	if err != nil {
		return err
	}

	groups, err := plan(req)
	if err != nil {
		return err
	}

	leaves, err := buildLeafInfo(req.Metadata, columns)
	if err != nil {
		return err
	}

	c := newCache(req.File, byteRanges(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.maxConcurrency())

	rowsByGroup := make([][]Row, len(groups))
	for i, gp := range groups {
		i, gp := i, gp
		g.Go(func() error {
			byColumn, err := readRowGroup(gctx, c, gp, leaves, req)
			if err != nil {
				return err
			}
			rows, err := assembleRows(gp, byColumn, root, columns, req)
			if err != nil {
				return err
			}
			rowsByGroup[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rowStart, rowEnd := req.RowStart, req.rowEnd()
	var allRows []Row
	for i, rows := range rowsByGroup {
		gp := groups[i]
		for j, row := range rows {
			global := gp.GroupStartRow + int64(j)
			if global < rowStart || global >= rowEnd {
				continue
			}
			allRows = append(allRows, row)
		}
	}

	if req.OnComplete != nil {
		return req.OnComplete(allRows)
	}
	return nil
}

// ReadColumn reads req.Columns' single column across every selected row
// group and returns its flattened, present-only value sequence (§4.8).
func ReadColumn(ctx context.Context, req *Request) ([]Value, error) {
	if len(req.Columns) != 1 {
		return nil, newError(InvalidRequest, "ReadColumn requires exactly one column")
	}
	col := req.Columns[0]

	groups, err := plan(req)
	if err != nil {
		return nil, err
	}
	leaves, err := buildLeafInfo(req.Metadata, req.Columns)
	if err != nil {
		return nil, err
	}
	c := newCache(req.File, byteRanges(groups))

	var values []Value
	for _, gp := range groups {
		byColumn, err := readRowGroup(ctx, c, gp, leaves, req)
		if err != nil {
			return nil, err
		}
		for _, p := range byColumn[col] {
			values = append(values, p.data.Values...)
		}
	}
	return values, nil
}

// ReadDictionary returns the first dictionary page found for req.Columns'
// single column, scanning row groups in file order, or (nil, nil) if none
// of them carry one (§4.8).
func ReadDictionary(ctx context.Context, req *Request) (*Dictionary, error) {
	if len(req.Columns) != 1 {
		return nil, newError(InvalidRequest, "ReadDictionary requires exactly one column")
	}
	col := req.Columns[0]

	groups, err := plan(req)
	if err != nil {
		return nil, err
	}
	leaves, err := buildLeafInfo(req.Metadata, req.Columns)
	if err != nil {
		return nil, err
	}
	leaf := leaves[col]

	c := newCache(req.File, byteRanges(groups))
	table := req.compressors()

	for _, gp := range groups {
		cr := gp.ColumnRanges[0]
		if cr.chunk.MetaData.DictionaryPageOffset == nil {
			continue
		}

		pr := newPageReader(c, cr.StartByte, cr.EndByte, cr.chunk.MetaData.NumValues)
		pg, err := pr.next(ctx)
		if err != nil {
			return nil, err
		}
		if pg == nil || !pg.isDictionary() {
			continue
		}

		body, err := decompressPage(pg, cr.chunk.MetaData.Codec, table)
		if err != nil {
			return nil, err
		}
		pg.body = body

		dict, _, err := decodePage(pg, leaf, nil, req)
		if err != nil {
			return nil, err
		}
		return dict, nil
	}
	return nil, nil
}

// ReadDictionaryCount returns the num_values field of the first dictionary
// page found for req.Columns' single column, without decoding the page
// body (§4.5's dictionary-count fast path). found is false if no selected
// row group's chunk carries a dictionary page.
func ReadDictionaryCount(ctx context.Context, req *Request) (count int32, found bool, err error) {
	if len(req.Columns) != 1 {
		return 0, false, newError(InvalidRequest, "ReadDictionaryCount requires exactly one column")
	}

	groups, err := plan(req)
	if err != nil {
		return 0, false, err
	}

	for _, gp := range groups {
		cr := gp.ColumnRanges[0]
		if cr.chunk.MetaData.DictionaryPageOffset == nil {
			continue
		}
		offset := *cr.chunk.MetaData.DictionaryPageOffset
		count, err := dictionaryPageCount(ctx, req.File, offset, cr.EndByte)
		if err != nil {
			return 0, false, err
		}
		return count, true, nil
	}
	return 0, false, nil
}

// dictionaryPageCount fetches a bounded prefix at offset, parses just the
// compact-Thrift page header, and returns its declared value count without
// ever fetching the dictionary page's body.
func dictionaryPageCount(ctx context.Context, source ByteSource, offset, chunkEnd int64) (int32, error) {
	window := int64(dictCountPeekStart)
	for {
		end := offset + window
		if end > chunkEnd {
			end = chunkEnd
		}

		buf, err := source.Slice(ctx, offset, end)
		if err != nil {
			return 0, wrapError(ByteSourceError, err, "fetching dictionary page header at %d", offset)
		}

		header, _, err := format.ReadPageHeader(buf)
		if err == nil {
			if header.DictionaryPageHeader == nil {
				return 0, newError(CorruptPage, "page at offset %d is not a dictionary page", offset)
			}
			return header.DictionaryPageHeader.NumValues, nil
		}
		if err != format.ErrShortBuffer || end == chunkEnd || window >= dictCountPeekCap {
			return 0, wrapError(CorruptPage, err, "reading dictionary page header at offset %d", offset)
		}
		window *= 2
	}
}
