package status

import (
	"time"

	"github.com/google/uuid"
)

// Status classifies the outcome of one probe.
type Status string

const (
	Online  Status = "online"
	Warning Status = "warning"
	Error   Status = "error"
	Offline Status = "offline"
)

func (s Status) Valid() bool {
	switch s {
	case Online, Warning, Error, Offline:
		return true
	}
	return false
}

// Record is one immutable health observation for a service. The log of
// records per service is append-only; nothing in the codebase updates a
// record after it has been stored.
type Record struct {
	ID           int64     `json:"id"`
	ServiceID    uuid.UUID `json:"service_id"`
	Status       Status    `json:"status"`
	ResponseTime *int64    `json:"response_time_ms"`
	StatusCode   *int      `json:"status_code,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}

// Changed is emitted when a service's status differs from its previous
// record. Delivery is fire-and-forget: publish failures are logged, never
// surfaced to the probe/persist path.
type Changed struct {
	ServiceID uuid.UUID `json:"service_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
	At        time.Time `json:"at"`
}
