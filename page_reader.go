package parquet

import (
	"context"

	"github.com/honeymaro/hyparquet-go/format"
)

// headerPeekWindow is the initial number of bytes fetched to parse one page
// header. Grown geometrically on a short read, mirroring the dictionary-
// count fast path's retry strategy (§9 open questions, §4.5).
const headerPeekWindow = 1 << 10

// pageReader iterates the page stream of one column chunk's byte window,
// per the specification's Page Reader (§4.3).
type pageReader struct {
	cache    *cache
	offset   int64
	end      int64
	values   int64
	wantVals int64
}

func newPageReader(c *cache, startByte, endByte int64, numValues int64) *pageReader {
	return &pageReader{cache: c, offset: startByte, end: endByte, wantVals: numValues}
}

// next returns the next page, or (nil, nil) when the chunk is exhausted.
func (pr *pageReader) next(ctx context.Context) (*page, error) {
	if pr.values >= pr.wantVals || pr.offset >= pr.end {
		return nil, nil
	}

	header, headerSize, err := pr.readHeader(ctx)
	if err != nil {
		return nil, err
	}

	bodyStart := pr.offset + int64(headerSize)
	bodyEnd := bodyStart + int64(header.CompressedPageSize)
	if bodyEnd > pr.end {
		return nil, newError(CorruptPage, "page body [%d,%d) exceeds chunk window end %d", bodyStart, bodyEnd, pr.end)
	}

	body, err := pr.cache.slice(ctx, bodyStart, bodyEnd)
	if err != nil {
		return nil, err
	}

	pr.offset = bodyEnd
	if header.Type != format.DictionaryPage {
		pr.values += int64(header.NumValues())
	}

	return &page{header: header, body: body}, nil
}

// readHeader fetches and parses the compact-Thrift page header at the
// reader's current offset, growing the peek window on a short read.
func (pr *pageReader) readHeader(ctx context.Context) (*format.PageHeader, int, error) {
	window := int64(headerPeekWindow)
	for {
		end := pr.offset + window
		if end > pr.end {
			end = pr.end
		}
		buf, err := pr.cache.slice(ctx, pr.offset, end)
		if err != nil {
			return nil, 0, err
		}

		header, n, err := format.ReadPageHeader(buf)
		if err == nil {
			return header, n, nil
		}
		if err != format.ErrShortBuffer || end == pr.end {
			return nil, 0, wrapError(CorruptPage, err, "reading page header at offset %d", pr.offset)
		}
		window *= 2
	}
}
