package parquet

import "github.com/honeymaro/hyparquet-go/format"

// page is one page header plus its compressed body, as yielded by the Page
// Reader (§4.3). Body's length equals header.CompressedPageSize.
type page struct {
	header *format.PageHeader
	body   []byte
}

func (p *page) numValues() int32 { return p.header.NumValues() }

func (p *page) isDictionary() bool { return p.header.Type == format.DictionaryPage }

func (p *page) isDataPageV2() bool { return p.header.Type == format.DataPageV2 }
