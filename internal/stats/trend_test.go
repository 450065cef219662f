package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/servicehub/servicehub/internal/domain/status"
)

func TestParseRange(t *testing.T) {
	for _, raw := range []string{"1h", "6h", "24h", "7d", "30d", "90d"} {
		r, err := ParseRange(raw)
		require.NoError(t, err)
		require.Equal(t, TimeRange(raw), r)
	}

	_, err := ParseRange("2h")
	require.Error(t, err)
	_, err = ParseRange("")
	require.Error(t, err)
}

func TestTrendBuckets_Cardinality(t *testing.T) {
	end := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	cases := map[TimeRange]int{
		Range1h:  12,
		Range6h:  12,
		Range24h: 24,
		Range7d:  28,
		Range30d: 30,
		Range90d: 30,
	}
	for r, want := range cases {
		buckets := TrendBuckets(nil, end, r)
		require.Len(t, buckets, want, "range %s", r)
	}
}

func TestTrendBuckets_EmptyReportsZeros(t *testing.T) {
	end := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	buckets := TrendBuckets(nil, end, Range1h)
	for _, b := range buckets {
		require.Equal(t, Metrics{}, b.Metrics)
	}
}

func TestTrendBuckets_AscendingContiguous(t *testing.T) {
	end := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	buckets := TrendBuckets(nil, end, Range24h)

	require.Equal(t, end.Add(-24*time.Hour), buckets[0].Start)
	require.Equal(t, end, buckets[len(buckets)-1].End)
	for i := 1; i < len(buckets); i++ {
		require.Equal(t, buckets[i-1].End, buckets[i].Start)
	}
}

func TestTrendBuckets_Placement(t *testing.T) {
	end := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	start := end.Add(-time.Hour)

	records := []*status.Record{
		rec(status.Online, 100, start),                      // first bucket, inclusive start
		rec(status.Online, 100, start.Add(4*time.Minute)),   // still first bucket
		rec(status.Offline, 100, start.Add(5*time.Minute)),  // second bucket boundary
		rec(status.Online, 100, end.Add(-time.Millisecond)), // last bucket
		rec(status.Online, 100, end),                        // excluded, end is exclusive
		rec(status.Online, 100, start.Add(-time.Second)),    // excluded, before range
	}

	buckets := TrendBuckets(records, end, Range1h)
	require.Len(t, buckets, 12)

	require.Equal(t, 2, buckets[0].TotalChecks)
	require.Equal(t, 1, buckets[1].TotalChecks)
	require.Equal(t, 0.0, buckets[1].Uptime)
	require.Equal(t, 1, buckets[11].TotalChecks)

	var total int
	for _, b := range buckets {
		total += b.TotalChecks
	}
	require.Equal(t, 4, total)
}
