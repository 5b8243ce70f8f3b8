package parquet

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// prefetchGapThreshold is the maximum byte gap between two requested ranges
// that still gets coalesced into one prefetch segment (§4.2).
const prefetchGapThreshold = 32 << 10

// segment is one coalesced, lazily-fetched byte range.
type segment struct {
	start, end int64

	mu   sync.Mutex
	data []byte
	have bool
}

// cache wraps a ByteSource with a coalesced, single-flight prefetch layer.
// Grounded on the singleflight-per-key dedup pattern in
// github.com/meigma/blob's cache Reader, adapted from a content-hash keyed
// file cache to a byte-range keyed segment cache.
type cache struct {
	source   ByteSource
	segments []*segment
	group    singleflight.Group
}

// newCache builds a prefetch cache from the union of every column range a
// plan touches, merging ranges no more than prefetchGapThreshold apart.
func newCache(source ByteSource, ranges [][2]int64) *cache {
	c := &cache{source: source}
	if len(ranges) == 0 {
		return c
	}

	sorted := make([][2]int64, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	cur := sorted[0]
	for _, r := range sorted[1:] {
		if r[0]-cur[1] <= prefetchGapThreshold {
			if r[1] > cur[1] {
				cur[1] = r[1]
			}
			continue
		}
		c.segments = append(c.segments, &segment{start: cur[0], end: cur[1]})
		cur = r
	}
	c.segments = append(c.segments, &segment{start: cur[0], end: cur[1]})

	return c
}

// find returns the segment containing [start,end), or nil if none covers it.
func (c *cache) find(start, end int64) *segment {
	for _, s := range c.segments {
		if start >= s.start && end <= s.end {
			return s
		}
	}
	return nil
}

// slice returns the bytes in [start,end), resolving against a pre-fetched
// segment when one covers the range and falling through to the underlying
// source otherwise. Concurrent calls landing on the same segment share one
// fetch.
func (c *cache) slice(ctx context.Context, start, end int64) ([]byte, error) {
	s := c.find(start, end)
	if s == nil {
		b, err := c.source.Slice(ctx, start, end)
		if err != nil {
			return nil, wrapError(ByteSourceError, err, "fetching [%d,%d)", start, end)
		}
		return b, nil
	}

	key := fmt.Sprintf("%d-%d", s.start, s.end)
	v, err, _ := c.group.Do(key, func() (any, error) {
		s.mu.Lock()
		if s.have {
			s.mu.Unlock()
			return s.data, nil
		}
		s.mu.Unlock()

		b, err := c.source.Slice(ctx, s.start, s.end)
		if err != nil {
			return nil, wrapError(ByteSourceError, err, "fetching segment [%d,%d)", s.start, s.end)
		}

		s.mu.Lock()
		s.data = b
		s.have = true
		s.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}

	data := v.([]byte)
	return data[start-s.start : end-s.start], nil
}
