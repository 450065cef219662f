package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/servicehub/internal/domain/status"
)

func rec(st status.Status, rtMs int64, at time.Time) *status.Record {
	return &status.Record{
		ServiceID:    uuid.Nil,
		Status:       st,
		ResponseTime: &rtMs,
		CheckedAt:    at,
	}
}

func TestAggregate_Empty(t *testing.T) {
	healthy := Aggregate(nil, EmptyHealthy)
	require.Equal(t, 100.0, healthy.Uptime)
	require.Equal(t, 0, healthy.TotalChecks)
	require.Equal(t, 0.0, healthy.ErrorRate)

	unknown := Aggregate(nil, EmptyUnknown)
	require.Equal(t, Metrics{}, unknown)
}

func TestAggregate_MixedWindow(t *testing.T) {
	now := time.Now()
	var records []*status.Record
	for i := 0; i < 7; i++ {
		records = append(records, rec(status.Online, int64((i+1)*100), now))
	}
	records = append(records,
		rec(status.Warning, 800, now),
		rec(status.Error, 900, now),
		rec(status.Offline, 1000, now),
	)

	m := Aggregate(records, EmptyHealthy)
	require.Equal(t, 10, m.TotalChecks)
	require.Equal(t, 7, m.SuccessfulChecks)
	require.Equal(t, 3, m.FailedChecks)
	require.Equal(t, 70.0, m.Uptime)
	require.Equal(t, 30.0, m.ErrorRate)
	require.Equal(t, 550.0, m.AvgResponseTime)
	require.Equal(t, int64(600), m.MedianResponseTime)
}

func TestAggregate_OnlyOnlineCountsAsSuccess(t *testing.T) {
	now := time.Now()
	m := Aggregate([]*status.Record{
		rec(status.Warning, 100, now),
		rec(status.Error, 100, now),
		rec(status.Offline, 100, now),
	}, EmptyHealthy)
	require.Equal(t, 0, m.SuccessfulChecks)
	require.Equal(t, 0.0, m.Uptime)
	require.Equal(t, 100.0, m.ErrorRate)
}

func TestAggregate_NilResponseTimesSkipped(t *testing.T) {
	now := time.Now()
	withRT := rec(status.Online, 200, now)
	noRT := &status.Record{Status: status.Offline, CheckedAt: now}

	m := Aggregate([]*status.Record{withRT, noRT}, EmptyHealthy)
	require.Equal(t, 2, m.TotalChecks)
	require.Equal(t, 200.0, m.AvgResponseTime)
	require.Equal(t, int64(200), m.MedianResponseTime)
}

func TestAggregate_PercentilesNearestRank(t *testing.T) {
	now := time.Now()
	records := make([]*status.Record, 0, 100)
	for i := 1; i <= 100; i++ {
		records = append(records, rec(status.Online, int64(i), now))
	}

	m := Aggregate(records, EmptyHealthy)
	// index floor(n*q) into the ascending slice, zero-based
	require.Equal(t, int64(51), m.MedianResponseTime)
	require.Equal(t, int64(96), m.P95ResponseTime)
	require.Equal(t, int64(100), m.P99ResponseTime)
}

func TestAggregate_SingleRecordPercentiles(t *testing.T) {
	m := Aggregate([]*status.Record{rec(status.Online, 42, time.Now())}, EmptyHealthy)
	require.Equal(t, int64(42), m.MedianResponseTime)
	require.Equal(t, int64(42), m.P95ResponseTime)
	require.Equal(t, int64(42), m.P99ResponseTime)
}

func TestAggregate_UptimeRounding(t *testing.T) {
	now := time.Now()
	records := []*status.Record{
		rec(status.Online, 10, now),
		rec(status.Online, 10, now),
		rec(status.Offline, 10, now),
	}
	m := Aggregate(records, EmptyHealthy)
	require.Equal(t, 66.67, m.Uptime)
	require.Equal(t, 33.33, m.ErrorRate)
}
