// Package health runs probes against monitored services, persists the
// resulting status records and emits status-change events. The bulk path
// fans out across all active services with a bounded worker count and
// isolates each service's failures from the rest of the batch.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/domain/status"
	"github.com/servicehub/servicehub/internal/obs/retry"
	"github.com/servicehub/servicehub/internal/probe"
)

const DefaultMaxConcurrency = 16

var (
	mProbes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "health_probes_total", Help: "Probes attempted",
	})
	mByStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "health_probe_results_total", Help: "Probe results by status",
	}, []string{"status"})
	mChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "health_status_changes_total", Help: "Status changes emitted",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "health_errors_total", Help: "Persist or lookup errors",
	})
	mLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "health_probe_latency_seconds",
		Help:    "End-to-end probe latency",
		Buckets: prometheus.DefBuckets,
	})
)

// Outcome pairs a service with its freshly appended record.
type Outcome struct {
	Service *service.Service `json:"service"`
	Record  *status.Record   `json:"record"`
}

// Failure carries the error for a service whose check could not be recorded.
type Failure struct {
	Service *service.Service `json:"service"`
	Err     string           `json:"error"`
}

// Report partitions a bulk run into recorded checks and failures.
type Report struct {
	Successful []Outcome `json:"successful"`
	Failed     []Failure `json:"failed"`
	Total      int       `json:"total"`
}

type Runner struct {
	log            *zap.Logger
	services       service.Repo
	store          status.Store
	events         status.Events // optional
	prober         *probe.Prober
	clock          func() time.Time
	maxConcurrency int
}

type Option func(*Runner)

func WithEvents(ev status.Events) Option {
	return func(r *Runner) { r.events = ev }
}

func WithMaxConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxConcurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.clock = now }
}

func NewRunner(log *zap.Logger, services service.Repo, store status.Store, prober *probe.Prober, opts ...Option) *Runner {
	r := &Runner{
		log:            log,
		services:       services,
		store:          store,
		prober:         prober,
		clock:          func() time.Time { return time.Now().UTC() },
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunAll probes every active service concurrently and waits for all of them
// to settle. One service's probe or persist failure never aborts the others.
func (r *Runner) RunAll(ctx context.Context) (*Report, error) {
	tr := otel.Tracer("health.runner")
	ctx, span := tr.Start(ctx, "health.run_all")
	defer span.End()

	active, err := r.services.ListActive(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list active services: %w", err)
	}

	report := &Report{Total: len(active)}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.maxConcurrency)
	)

	for _, svc := range active {
		wg.Add(1)
		go func(svc *service.Service) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rec, err := r.checkOne(ctx, svc)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, Failure{Service: svc, Err: err.Error()})
				return
			}
			report.Successful = append(report.Successful, Outcome{Service: svc, Record: rec})
		}(svc)
	}
	wg.Wait()

	span.SetAttributes(
		attribute.Int("run.total", report.Total),
		attribute.Int("run.failed", len(report.Failed)),
	)
	r.log.Info("bulk health run finished",
		zap.Int("total", report.Total),
		zap.Int("successful", len(report.Successful)),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// CheckService probes a single service by id. Unknown ids and persistence
// failures surface to the caller; probe failures do not, they become records.
func (r *Runner) CheckService(ctx context.Context, id uuid.UUID) (*status.Record, error) {
	svc, err := r.services.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	return r.checkOne(ctx, svc)
}

func (r *Runner) checkOne(ctx context.Context, svc *service.Service) (*status.Record, error) {
	prev, err := r.store.Latest(ctx, svc.ID)
	if err != nil {
		mErrors.Inc()
		r.log.Warn("latest record lookup", zap.String("service", svc.Name), zap.Error(err))
	}

	res := r.probeWithRetries(ctx, svc)

	mProbes.Inc()
	mByStatus.WithLabelValues(string(res.Status)).Inc()
	mLatency.Observe(float64(res.ResponseTime) / 1000)

	rt := res.ResponseTime
	rec := &status.Record{
		ServiceID:    svc.ID,
		Status:       res.Status,
		ResponseTime: &rt,
		StatusCode:   res.StatusCode,
		ErrorMessage: res.ErrorMessage,
		CheckedAt:    r.clock(),
	}
	if err := r.store.Append(ctx, rec); err != nil {
		mErrors.Inc()
		return nil, fmt.Errorf("append status record: %w", err)
	}

	if prev == nil || prev.Status != rec.Status {
		r.emitStatusChange(svc, prev, rec)
	}
	return rec, nil
}

// probeWithRetries re-attempts network-level failures up to the service's
// configured retry budget. Timeouts are terminal: the attempt already
// consumed the full timeout, so retrying would multiply the wall time.
func (r *Runner) probeWithRetries(ctx context.Context, svc *service.Service) probe.Result {
	res := r.prober.Probe(ctx, svc.ProbeTarget(), svc.Timeout)
	for attempt := 0; attempt < svc.RetryAttempts; attempt++ {
		if res.Status != status.Offline || res.TimedOut || ctx.Err() != nil {
			break
		}
		res = r.prober.Probe(ctx, svc.ProbeTarget(), svc.Timeout)
	}
	return res
}

// emitStatusChange publishes fire-and-forget: the spawned goroutine retries
// briefly, logs the terminal error and never reports back to the check path.
func (r *Runner) emitStatusChange(svc *service.Service, prev, rec *status.Record) {
	mChanges.Inc()
	if r.events == nil {
		return
	}

	old := status.Status("")
	if prev != nil {
		old = prev.Status
	}
	ev := status.Changed{
		ServiceID: svc.ID,
		OldStatus: old,
		NewStatus: rec.Status,
		At:        rec.CheckedAt,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = retry.Do(ctx, func() error {
			return r.events.PublishStatusChanged(ctx, ev)
		}, retry.DefaultEventsPolicy(r.log.With(zap.String("service", svc.Name))))
	}()
}
