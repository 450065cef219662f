package stats

import (
	"fmt"
	"time"

	"github.com/servicehub/servicehub/internal/domain/status"
)

// TimeRange is a charting range. Each range has a fixed total span and a
// fixed bucket width, so every trend query produces the same cardinality
// regardless of how many records fall inside it.
type TimeRange string

const (
	Range1h  TimeRange = "1h"
	Range6h  TimeRange = "6h"
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
)

var rangeTable = map[TimeRange]struct {
	total time.Duration
	width time.Duration
}{
	Range1h:  {time.Hour, 5 * time.Minute},
	Range6h:  {6 * time.Hour, 30 * time.Minute},
	Range24h: {24 * time.Hour, time.Hour},
	Range7d:  {7 * 24 * time.Hour, 6 * time.Hour},
	Range30d: {30 * 24 * time.Hour, 24 * time.Hour},
	Range90d: {90 * 24 * time.Hour, 72 * time.Hour},
}

func ParseRange(s string) (TimeRange, error) {
	r := TimeRange(s)
	if _, ok := rangeTable[r]; !ok {
		return "", fmt.Errorf("unknown time range %q", s)
	}
	return r, nil
}

func (r TimeRange) Span() time.Duration        { return rangeTable[r].total }
func (r TimeRange) BucketWidth() time.Duration { return rangeTable[r].width }

// Bucket is one fixed-width subdivision of a trend range, aggregated over
// the records whose checked_at falls in [Start, End).
type Bucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Metrics
}

// TrendBuckets splits the range ending at end into fixed buckets, oldest
// first. Empty buckets report zeros; values are never carried forward from
// neighbours.
func TrendBuckets(records []*status.Record, end time.Time, r TimeRange) []Bucket {
	total, width := r.Span(), r.BucketWidth()
	n := int((total + width - 1) / width)
	start := end.Add(-total)

	grouped := make([][]*status.Record, n)
	for _, rec := range records {
		if rec.CheckedAt.Before(start) || !rec.CheckedAt.Before(end) {
			continue
		}
		i := int(rec.CheckedAt.Sub(start) / width)
		if i >= n {
			i = n - 1
		}
		grouped[i] = append(grouped[i], rec)
	}

	buckets := make([]Bucket, n)
	for i := range buckets {
		bs := start.Add(time.Duration(i) * width)
		be := bs.Add(width)
		if be.After(end) {
			be = end
		}
		buckets[i] = Bucket{Start: bs, End: be, Metrics: Aggregate(grouped[i], EmptyUnknown)}
	}
	return buckets
}
