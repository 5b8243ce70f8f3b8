package parquet

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingSource struct {
	data  []byte
	calls int64
}

func (s *countingSource) ByteLength() int64 { return int64(len(s.data)) }

func (s *countingSource) Slice(_ context.Context, start, end int64) ([]byte, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.data[start:end], nil
}

func TestCacheCoalescesNearbyRanges(t *testing.T) {
	src := &countingSource{data: make([]byte, 100000)}
	// Gap of 100 bytes, well under prefetchGapThreshold: should merge into
	// one segment.
	c := newCache(src, [][2]int64{{0, 10}, {110, 120}})
	require.Len(t, c.segments, 1)
	require.Equal(t, int64(0), c.segments[0].start)
	require.Equal(t, int64(120), c.segments[0].end)
}

func TestCacheKeepsDistantRangesSeparate(t *testing.T) {
	src := &countingSource{data: make([]byte, 100000)}
	c := newCache(src, [][2]int64{{0, 10}, {90000, 90010}})
	require.Len(t, c.segments, 2)
}

func TestCacheSliceFetchesOnceForOverlappingCallers(t *testing.T) {
	src := &countingSource{data: []byte("0123456789")}
	c := newCache(src, [][2]int64{{0, 10}})

	ctx := context.Background()
	b1, err := c.slice(ctx, 0, 4)
	require.NoError(t, err)
	require.Equal(t, []byte("0123"), b1)

	b2, err := c.slice(ctx, 4, 10)
	require.NoError(t, err)
	require.Equal(t, []byte("456789"), b2)

	require.EqualValues(t, 1, atomic.LoadInt64(&src.calls))
}

func TestCacheSliceFallsThroughWhenUncovered(t *testing.T) {
	src := &countingSource{data: []byte("0123456789")}
	c := newCache(src, nil)

	b, err := c.slice(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("234"), b)
}
