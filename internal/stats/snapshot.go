package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/domain/status"
)

// LatestByService reduces a window to the most recent record per service.
// Pure function over an immutable snapshot; callers re-derive it per query
// instead of maintaining a shared cache.
func LatestByService(records []*status.Record) map[uuid.UUID]*status.Record {
	latest := make(map[uuid.UUID]*status.Record, len(records))
	for _, r := range records {
		if cur, ok := latest[r.ServiceID]; !ok || r.CheckedAt.After(cur.CheckedAt) {
			latest[r.ServiceID] = r
		}
	}
	return latest
}

// ComponentHealth is one service's slice of a system snapshot.
type ComponentHealth struct {
	ServiceID uuid.UUID       `json:"service_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Status    ComponentStatus `json:"status"`
	Metrics   Metrics         `json:"metrics"`
}

// SystemSnapshot is the composite health view over all active services in a
// window. It is recomputed on every query and never persisted.
type SystemSnapshot struct {
	Status      SystemStatus      `json:"status"`
	Score       int               `json:"score"`
	Components  []ComponentHealth `json:"components"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// BuildSystemSnapshot combines per-service aggregates into the composite
// score. The uptime signal is the mean of per-service uptimes (so a small
// flapping service weighs the same as a busy one), while the success-rate
// signal is the pooled fraction of successful checks across the window.
func BuildSystemSnapshot(services []*service.Service, window []*status.Record, now time.Time) SystemSnapshot {
	latest := LatestByService(window)
	perService := make(map[uuid.UUID][]*status.Record, len(services))
	for _, r := range window {
		perService[r.ServiceID] = append(perService[r.ServiceID], r)
	}

	components := make([]ComponentHealth, 0, len(services))
	var uptimeSum float64
	for _, svc := range services {
		m := Aggregate(perService[svc.ID], EmptyHealthy)
		uptimeSum += m.Uptime
		components = append(components, ComponentHealth{
			ServiceID: svc.ID,
			Name:      svc.Name,
			Category:  svc.Category,
			Status:    ComponentFromRecord(latest[svc.ID]),
			Metrics:   m,
		})
	}

	pooled := Aggregate(window, EmptyHealthy)
	meanUptime := 100.0
	if len(services) > 0 {
		meanUptime = round2(uptimeSum / float64(len(services)))
	}

	score := SystemScore(meanUptime, pooled.AvgResponseTime, pooled.Uptime)
	return SystemSnapshot{
		Status:      ScoreStatus(score),
		Score:       score,
		Components:  components,
		GeneratedAt: now,
	}
}
