// Package monitor drives periodic bulk health runs. Scheduling is the only
// thing that lives here; the probing and persistence semantics belong to the
// health runner.
package monitor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/servicehub/servicehub/internal/health"
)

var (
	mTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_ticks_total", Help: "Bulk run ticks",
	})
	mFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_services_failed_total", Help: "Per-service failures across runs",
	})
	mTickDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "monitor_tick_duration_seconds", Help: "Bulk run duration",
		Buckets: prometheus.DefBuckets,
	})
)

type Runner struct {
	log      *zap.Logger
	runner   *health.Runner
	interval time.Duration
}

func New(log *zap.Logger, hr *health.Runner, interval time.Duration) *Runner {
	return &Runner{log: log, runner: hr, interval: interval}
}

// Run checks immediately, then on every tick until the context ends.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	mTicks.Inc()

	report, err := r.runner.RunAll(ctx)
	if err != nil {
		r.log.Warn("bulk run", zap.Error(err))
		return
	}
	if n := len(report.Failed); n > 0 {
		mFailed.Add(float64(n))
	}
	mTickDur.Observe(time.Since(start).Seconds())
}
