package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service is a monitored HTTP endpoint. Soft-deleted services keep their
// status history but are excluded from bulk runs and aggregate views.
type Service struct {
	ID                   uuid.UUID     `json:"id"`
	Name                 string        `json:"name"`
	URL                  string        `json:"url"`
	HealthCheckURL       string        `json:"health_check_url,omitempty"`
	Category             string        `json:"category"`
	IsActive             bool          `json:"is_active"`
	Timeout              time.Duration `json:"timeout"`
	RetryAttempts        int           `json:"retry_attempts"`
	ExpectedResponseTime int64         `json:"expected_response_ms"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// ProbeTarget returns the URL the prober should hit: the dedicated health
// endpoint when configured, the service URL otherwise.
func (s *Service) ProbeTarget() string {
	if s.HealthCheckURL != "" {
		return s.HealthCheckURL
	}
	return s.URL
}

// UpdateKind enumerates the closed set of configuration updates a caller may
// apply to a service.
type UpdateKind string

const (
	UpdateEnable         UpdateKind = "enable"
	UpdateDisable        UpdateKind = "disable"
	UpdateRecategorize   UpdateKind = "recategorize"
	UpdateSetHealthCheck UpdateKind = "set_health_check"
)

// UpdateOp is one tagged update operation.
type UpdateOp struct {
	Kind           UpdateKind `json:"kind"`
	Category       string     `json:"category,omitempty"`
	HealthCheckURL string     `json:"health_check_url,omitempty"`
}

var ErrUnknownUpdateKind = errors.New("unknown update kind")

// Apply mutates the service according to op. Unknown kinds are rejected so
// exhaustiveness stays checkable at the call site.
func (s *Service) Apply(op UpdateOp) error {
	switch op.Kind {
	case UpdateEnable:
		s.IsActive = true
	case UpdateDisable:
		s.IsActive = false
	case UpdateRecategorize:
		s.Category = op.Category
	case UpdateSetHealthCheck:
		s.HealthCheckURL = op.HealthCheckURL
	default:
		return fmt.Errorf("%w: %q", ErrUnknownUpdateKind, op.Kind)
	}
	return nil
}
