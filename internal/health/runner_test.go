package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/domain/status"
	"github.com/servicehub/servicehub/internal/probe"
	"github.com/servicehub/servicehub/internal/repository/memory"
)

func newTestProber() *probe.Prober {
	return probe.New(probe.Config{Timeout: 2 * time.Second, UserAgent: "test"})
}

func newService(repo *memory.ServiceRepo, t *testing.T, name, url string) *service.Service {
	t.Helper()
	svc := &service.Service{
		ID:       uuid.New(),
		Name:     name,
		URL:      url,
		Category: "test",
		IsActive: true,
		Timeout:  2 * time.Second,
	}
	require.NoError(t, repo.Create(context.Background(), svc))
	return svc
}

// failingStore rejects appends for one service and delegates the rest.
type failingStore struct {
	status.Store
	reject uuid.UUID
}

func (s *failingStore) Append(ctx context.Context, r *status.Record) error {
	if r.ServiceID == s.reject {
		return errors.New("disk full")
	}
	return s.Store.Append(ctx, r)
}

type captureEvents struct {
	ch chan status.Changed
}

func (c *captureEvents) PublishStatusChanged(_ context.Context, ev status.Changed) error {
	c.ch <- ev
	return nil
}

func TestRunAll_IsolatesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := memory.NewServiceRepo()
	a := newService(repo, t, "alpha", srv.URL)
	b := newService(repo, t, "bravo", srv.URL)
	newService(repo, t, "charlie", srv.URL)

	store := &failingStore{Store: memory.NewStatusStore(), reject: b.ID}
	runner := NewRunner(zap.NewNop(), repo, store, newTestProber())

	report, err := runner.RunAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Total)
	require.Len(t, report.Successful, 2)
	require.Len(t, report.Failed, 1)
	require.Equal(t, b.ID, report.Failed[0].Service.ID)
	require.Contains(t, report.Failed[0].Err, "disk full")

	rec, err := store.Latest(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, status.Online, rec.Status)
}

func TestRunAll_SkipsInactive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := memory.NewServiceRepo()
	newService(repo, t, "active", srv.URL)
	disabled := newService(repo, t, "disabled", srv.URL)
	require.NoError(t, repo.SoftDelete(context.Background(), disabled.ID))

	store := memory.NewStatusStore()
	runner := NewRunner(zap.NewNop(), repo, store, newTestProber())

	report, err := runner.RunAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Total)

	rec, err := store.Latest(context.Background(), disabled.ID)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestCheckService_UnknownID(t *testing.T) {
	runner := NewRunner(zap.NewNop(), memory.NewServiceRepo(), memory.NewStatusStore(), newTestProber())

	_, err := runner.CheckService(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestCheckService_RecordsFailureAsRecord(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	repo := memory.NewServiceRepo()
	svc := newService(repo, t, "missing-endpoint", srv.URL)
	store := memory.NewStatusStore()
	runner := NewRunner(zap.NewNop(), repo, store, newTestProber())

	rec, err := runner.CheckService(context.Background(), svc.ID)
	require.NoError(t, err)
	require.Equal(t, status.Warning, rec.Status)
	require.Equal(t, "HTTP 404: Endpoint Not Found", rec.ErrorMessage)
	require.NotZero(t, rec.ID)
}

func TestCheckService_EmitsOnStatusChange(t *testing.T) {
	var code int32 = http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(int(atomic.LoadInt32(&code)))
	}))
	defer srv.Close()

	repo := memory.NewServiceRepo()
	svc := newService(repo, t, "flappy", srv.URL)
	store := memory.NewStatusStore()
	events := &captureEvents{ch: make(chan status.Changed, 4)}
	runner := NewRunner(zap.NewNop(), repo, store, newTestProber(), WithEvents(events))

	ctx := context.Background()

	// first check has no previous record, so it emits
	_, err := runner.CheckService(ctx, svc.ID)
	require.NoError(t, err)
	ev := waitEvent(t, events.ch)
	require.Equal(t, svc.ID, ev.ServiceID)
	require.Equal(t, status.Status(""), ev.OldStatus)
	require.Equal(t, status.Online, ev.NewStatus)

	// same status again, no event
	_, err = runner.CheckService(ctx, svc.ID)
	require.NoError(t, err)
	requireNoEvent(t, events.ch)

	// flip to a warning, event with the old status
	atomic.StoreInt32(&code, http.StatusNotFound)
	_, err = runner.CheckService(ctx, svc.ID)
	require.NoError(t, err)
	ev = waitEvent(t, events.ch)
	require.Equal(t, status.Online, ev.OldStatus)
	require.Equal(t, status.Warning, ev.NewStatus)
}

func waitEvent(t *testing.T, ch chan status.Changed) status.Changed {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("no status change event")
		return status.Changed{}
	}
}

func requireNoEvent(t *testing.T, ch chan status.Changed) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
