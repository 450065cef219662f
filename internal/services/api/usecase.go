package api

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/domain/status"
	"github.com/servicehub/servicehub/internal/health"
	"github.com/servicehub/servicehub/internal/probe"
	"github.com/servicehub/servicehub/internal/stats"
)

var (
	ErrEmptyName  = errors.New("service name must not be empty")
	ErrInvalidURL = errors.New("service url must be absolute http(s)")
)

type Usecase struct {
	repo   service.Repo
	store  status.Store
	runner *health.Runner
	clk    func() time.Time
}

func NewUsecase(repo service.Repo, store status.Store, runner *health.Runner, clk func() time.Time) *Usecase {
	if clk == nil {
		clk = func() time.Time { return time.Now().UTC() }
	}
	return &Usecase{repo: repo, store: store, runner: runner, clk: clk}
}

type CreateInput struct {
	Name                 string `json:"name"`
	URL                  string `json:"url"`
	HealthCheckURL       string `json:"health_check_url"`
	Category             string `json:"category"`
	TimeoutSeconds       int    `json:"timeout_seconds"`
	RetryAttempts        int    `json:"retry_attempts"`
	ExpectedResponseTime int64  `json:"expected_response_ms"`
}

func (u *Usecase) CreateService(ctx context.Context, in CreateInput) (*service.Service, error) {
	if in.Name == "" {
		return nil, ErrEmptyName
	}
	if !validURL(in.URL) {
		return nil, ErrInvalidURL
	}
	if in.HealthCheckURL != "" && !validURL(in.HealthCheckURL) {
		return nil, ErrInvalidURL
	}

	timeout := time.Duration(in.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}

	s := &service.Service{
		ID:                   uuid.New(),
		Name:                 in.Name,
		URL:                  in.URL,
		HealthCheckURL:       in.HealthCheckURL,
		Category:             in.Category,
		IsActive:             true,
		Timeout:              timeout,
		RetryAttempts:        in.RetryAttempts,
		ExpectedResponseTime: in.ExpectedResponseTime,
	}
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (u *Usecase) GetService(ctx context.Context, id uuid.UUID) (*service.Service, error) {
	return u.repo.GetByID(ctx, id)
}

func (u *Usecase) ListServices(ctx context.Context) ([]*service.Service, error) {
	return u.repo.List(ctx)
}

// UpdateService applies a batch of tagged update operations atomically from
// the caller's perspective: either all ops validate and the service is
// stored, or nothing changes.
func (u *Usecase) UpdateService(ctx context.Context, id uuid.UUID, ops []service.UpdateOp) (*service.Service, error) {
	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, op := range ops {
		if err := s.Apply(op); err != nil {
			return nil, err
		}
	}
	if err := u.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (u *Usecase) DeleteService(ctx context.Context, id uuid.UUID) error {
	return u.repo.SoftDelete(ctx, id)
}

func (u *Usecase) CheckService(ctx context.Context, id uuid.UUID) (*status.Record, error) {
	return u.runner.CheckService(ctx, id)
}

func (u *Usecase) RunAllChecks(ctx context.Context) (*health.Report, error) {
	return u.runner.RunAll(ctx)
}

// ServiceMetrics aggregates one service's window. The empty window counts as
// healthy here: absence of checks is not evidence of failure for a single
// service view.
func (u *Usecase) ServiceMetrics(ctx context.Context, id uuid.UUID, rng stats.TimeRange) (*stats.Metrics, error) {
	if _, err := u.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	now := u.clk()
	window, err := u.store.Window(ctx, id, now.Add(-rng.Span()), now)
	if err != nil {
		return nil, err
	}
	m := stats.Aggregate(window, stats.EmptyHealthy)
	return &m, nil
}

func (u *Usecase) ServiceTrend(ctx context.Context, id uuid.UUID, rng stats.TimeRange) ([]stats.Bucket, error) {
	if _, err := u.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	now := u.clk()
	window, err := u.store.Window(ctx, id, now.Add(-rng.Span()), now)
	if err != nil {
		return nil, err
	}
	return stats.TrendBuckets(window, now, rng), nil
}

// ServiceOverview is one row of the overview listing, most recent check
// first.
type ServiceOverview struct {
	Service *service.Service      `json:"service"`
	Status  stats.ComponentStatus `json:"status"`
	Latest  *status.Record        `json:"latest,omitempty"`
	Metrics stats.Metrics         `json:"metrics"`
	Score   int                   `json:"score"`
}

type Overview struct {
	Services    []ServiceOverview  `json:"services"`
	Status      stats.SystemStatus `json:"status"`
	Score       int                `json:"score"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// SystemOverview summarises all active services over the last 24 hours using
// the overview score strategy (0.7 uptime / 0.3 response). Services with no
// checks report zeroed metrics rather than claiming perfect uptime.
func (u *Usecase) SystemOverview(ctx context.Context) (*Overview, error) {
	active, window, now, err := u.activeWindow(ctx, stats.Range24h)
	if err != nil {
		return nil, err
	}

	latest := stats.LatestByService(window)
	perService := make(map[uuid.UUID][]*status.Record, len(active))
	for _, r := range window {
		perService[r.ServiceID] = append(perService[r.ServiceID], r)
	}

	rows := make([]ServiceOverview, 0, len(active))
	for _, svc := range active {
		m := stats.Aggregate(perService[svc.ID], stats.EmptyUnknown)
		rows = append(rows, ServiceOverview{
			Service: svc,
			Status:  stats.ComponentFromRecord(latest[svc.ID]),
			Latest:  latest[svc.ID],
			Metrics: m,
			Score:   stats.OverviewScore(m.Uptime, m.AvgResponseTime),
		})
	}
	sortByLatestDesc(rows)

	pooled := stats.Aggregate(window, stats.EmptyHealthy)
	score := stats.OverviewScore(pooled.Uptime, pooled.AvgResponseTime)
	return &Overview{
		Services:    rows,
		Status:      stats.ScoreStatus(score),
		Score:       score,
		GeneratedAt: now,
	}, nil
}

// SystemHealth builds the composite snapshot using the system score strategy
// (0.6 uptime / 0.2 response / 0.2 success rate).
func (u *Usecase) SystemHealth(ctx context.Context) (*stats.SystemSnapshot, error) {
	active, window, now, err := u.activeWindow(ctx, stats.Range24h)
	if err != nil {
		return nil, err
	}
	snap := stats.BuildSystemSnapshot(active, window, now)
	return &snap, nil
}

func (u *Usecase) activeWindow(ctx context.Context, rng stats.TimeRange) ([]*service.Service, []*status.Record, time.Time, error) {
	active, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	ids := make([]uuid.UUID, 0, len(active))
	for _, s := range active {
		ids = append(ids, s.ID)
	}
	now := u.clk()
	window, err := u.store.WindowAll(ctx, ids, now.Add(-rng.Span()), now)
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	return active, window, now, nil
}

// sortByLatestDesc orders overview rows most-recent-check first; services
// without any record sink to the bottom.
func sortByLatestDesc(rows []ServiceOverview) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Latest, rows[j].Latest
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.CheckedAt.After(b.CheckedAt)
		}
	})
}

func validURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
