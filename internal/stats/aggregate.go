// Package stats reduces windows of status records into the derived metrics
// the dashboard serves: uptime, response-time percentiles, error rate, health
// scores and trend buckets. Everything here is a pure function over slices.
package stats

import (
	"math"
	"sort"

	"github.com/servicehub/servicehub/internal/domain/status"
)

// EmptyWindowPolicy decides what an aggregate over zero records means.
// Per-service views treat an empty window as healthy (no evidence of
// failure); overview summaries and trend buckets treat it as unknown and
// report zeros. Callers must pick one; there is no default.
type EmptyWindowPolicy int

const (
	EmptyHealthy EmptyWindowPolicy = iota
	EmptyUnknown
)

// Metrics is the aggregate over one window of records.
type Metrics struct {
	TotalChecks        int     `json:"total_checks"`
	SuccessfulChecks   int     `json:"successful_checks"`
	FailedChecks       int     `json:"failed_checks"`
	Uptime             float64 `json:"uptime"`
	ErrorRate          float64 `json:"error_rate"`
	AvgResponseTime    float64 `json:"avg_response_time_ms"`
	MedianResponseTime int64   `json:"median_response_time_ms"`
	P95ResponseTime    int64   `json:"p95_response_time_ms"`
	P99ResponseTime    int64   `json:"p99_response_time_ms"`
}

// Aggregate reduces records into Metrics. A check counts as successful only
// when its status is online; the error rate is computed from the failed
// count directly rather than derived from uptime.
func Aggregate(records []*status.Record, policy EmptyWindowPolicy) Metrics {
	total := len(records)
	if total == 0 {
		if policy == EmptyHealthy {
			return Metrics{Uptime: 100}
		}
		return Metrics{}
	}

	successful := 0
	times := make([]int64, 0, total)
	for _, r := range records {
		if r.Status == status.Online {
			successful++
		}
		if r.ResponseTime != nil {
			times = append(times, *r.ResponseTime)
		}
	}
	failed := total - successful

	m := Metrics{
		TotalChecks:      total,
		SuccessfulChecks: successful,
		FailedChecks:     failed,
		Uptime:           round2(float64(successful) / float64(total) * 100),
		ErrorRate:        round2(float64(failed) / float64(total) * 100),
	}

	if len(times) > 0 {
		sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
		var sum int64
		for _, t := range times {
			sum += t
		}
		m.AvgResponseTime = round2(float64(sum) / float64(len(times)))
		m.MedianResponseTime = nearestRank(times, 0.5)
		m.P95ResponseTime = nearestRank(times, 0.95)
		m.P99ResponseTime = nearestRank(times, 0.99)
	}
	return m
}

// nearestRank picks the value at index floor(n*q) from an ascending slice.
// No interpolation; median uses q=0.5 which matches floor(n/2).
func nearestRank(sorted []int64, q float64) int64 {
	idx := int(float64(len(sorted)) * q)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
