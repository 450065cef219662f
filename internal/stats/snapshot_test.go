package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/domain/status"
)

func recFor(id uuid.UUID, st status.Status, rtMs int64, at time.Time) *status.Record {
	r := rec(st, rtMs, at)
	r.ServiceID = id
	return r
}

func TestLatestByService(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	window := []*status.Record{
		recFor(a, status.Online, 100, now.Add(-2*time.Minute)),
		recFor(a, status.Offline, 100, now.Add(-time.Minute)),
		recFor(b, status.Warning, 100, now),
	}

	latest := LatestByService(window)
	require.Len(t, latest, 2)
	require.Equal(t, status.Offline, latest[a].Status)
	require.Equal(t, status.Warning, latest[b].Status)
}

func TestLatestByService_Empty(t *testing.T) {
	require.Empty(t, LatestByService(nil))
}

func TestBuildSystemSnapshot_NoServices(t *testing.T) {
	now := time.Now()
	snap := BuildSystemSnapshot(nil, nil, now)

	require.Equal(t, SystemHealthy, snap.Status)
	require.Equal(t, 100, snap.Score)
	require.Empty(t, snap.Components)
	require.Equal(t, now, snap.GeneratedAt)
}

func TestBuildSystemSnapshot_ServiceWithoutRecords(t *testing.T) {
	svc := &service.Service{ID: uuid.New(), Name: "ghost", Category: "infra"}
	snap := BuildSystemSnapshot([]*service.Service{svc}, nil, time.Now())

	require.Len(t, snap.Components, 1)
	require.Equal(t, ComponentMajorOutage, snap.Components[0].Status)
	// empty per-service window counts as healthy for the uptime signal
	require.Equal(t, 100.0, snap.Components[0].Metrics.Uptime)
}

func TestBuildSystemSnapshot_Composite(t *testing.T) {
	now := time.Now()
	healthy := &service.Service{ID: uuid.New(), Name: "up", Category: "web"}
	broken := &service.Service{ID: uuid.New(), Name: "down", Category: "web"}

	var window []*status.Record
	for i := 0; i < 4; i++ {
		window = append(window, recFor(healthy.ID, status.Online, 200, now.Add(-time.Duration(i)*time.Minute)))
		window = append(window, recFor(broken.ID, status.Offline, 200, now.Add(-time.Duration(i)*time.Minute)))
	}

	snap := BuildSystemSnapshot([]*service.Service{healthy, broken}, window, now)

	require.Len(t, snap.Components, 2)
	require.Equal(t, ComponentOperational, snap.Components[0].Status)
	require.Equal(t, ComponentMajorOutage, snap.Components[1].Status)

	// mean uptime 50, response score 100, pooled success rate 50:
	// 0.6*50 + 0.2*100 + 0.2*50 = 60
	require.Equal(t, 60, snap.Score)
	require.Equal(t, SystemPartialOutage, snap.Status)
}
