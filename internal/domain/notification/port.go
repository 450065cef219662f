package notification

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, n *Notification) error
	ListByService(ctx context.Context, serviceID uuid.UUID, limit int) ([]*Notification, error)
}
