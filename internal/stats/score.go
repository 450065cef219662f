package stats

import (
	"math"

	"github.com/servicehub/servicehub/internal/domain/status"
)

// SystemStatus is the discrete label derived from a composite health score.
type SystemStatus string

const (
	SystemHealthy       SystemStatus = "healthy"
	SystemDegraded      SystemStatus = "degraded"
	SystemPartialOutage SystemStatus = "partial_outage"
	SystemMajorOutage   SystemStatus = "major_outage"
)

// ComponentStatus is the per-service label derived from its latest record.
type ComponentStatus string

const (
	ComponentOperational         ComponentStatus = "operational"
	ComponentDegradedPerformance ComponentStatus = "degraded_performance"
	ComponentPartialOutage       ComponentStatus = "partial_outage"
	ComponentMajorOutage         ComponentStatus = "major_outage"
)

// ResponseScore maps average response time to 0..100: full marks under one
// second, then one point lost per 100ms, floored at zero.
func ResponseScore(avgResponseMs float64) float64 {
	if avgResponseMs < 1000 {
		return 100
	}
	return math.Max(0, 100-(avgResponseMs-1000)/100)
}

// SystemScore weighs uptime 0.6, response 0.2 and success rate 0.2. It and
// OverviewScore are deliberately distinct strategies: the system-health and
// overview consumers have always used different weightings, and unifying
// them would silently change observable scores.
func SystemScore(uptime, avgResponseMs, successRate float64) int {
	return int(math.Round(uptime*0.6 + ResponseScore(avgResponseMs)*0.2 + successRate*0.2))
}

// OverviewScore weighs uptime 0.7 and response 0.3.
func OverviewScore(uptime, avgResponseMs float64) int {
	return int(math.Round(uptime*0.7 + ResponseScore(avgResponseMs)*0.3))
}

// ScoreStatus maps a 0..100 health score to the discrete system status.
func ScoreStatus(score int) SystemStatus {
	switch {
	case score >= 95:
		return SystemHealthy
	case score >= 80:
		return SystemDegraded
	case score >= 50:
		return SystemPartialOutage
	default:
		return SystemMajorOutage
	}
}

// ComponentFromRecord maps a service's latest record to its component
// status. A service with no record at all counts as a major outage.
func ComponentFromRecord(rec *status.Record) ComponentStatus {
	if rec == nil {
		return ComponentMajorOutage
	}
	switch rec.Status {
	case status.Online:
		return ComponentOperational
	case status.Warning:
		return ComponentDegradedPerformance
	case status.Error:
		return ComponentPartialOutage
	default:
		return ComponentMajorOutage
	}
}
