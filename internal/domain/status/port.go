package status

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the append-only status log. Window reads are ordered ascending by
// checked_at; Latest returns (nil, nil) when a service has no records yet.
type Store interface {
	Append(ctx context.Context, r *Record) error
	Latest(ctx context.Context, serviceID uuid.UUID) (*Record, error)
	Window(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*Record, error)
	WindowAll(ctx context.Context, serviceIDs []uuid.UUID, from, to time.Time) ([]*Record, error)
}

// Events is the outbound notification boundary.
type Events interface {
	PublishStatusChanged(ctx context.Context, ev Changed) error
}
