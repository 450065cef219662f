package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/servicehub/servicehub/internal/domain/status"
)

type Notification struct {
	ID        int64         `json:"id"`
	ServiceID uuid.UUID     `json:"service_id"`
	OldStatus status.Status `json:"old_status"`
	NewStatus status.Status `json:"new_status"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}

// Dispatcher is the delivery sink. Implementations own their transport;
// callers treat Dispatch errors as log-and-continue.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *Notification) error
}

type Clock interface {
	Now() time.Time
}
