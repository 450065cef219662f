package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/servicehub/servicehub/internal/domain/notification"
	"github.com/servicehub/servicehub/internal/domain/status"
)

var _ notification.Repo = (*NotificationRepo)(nil)

type NotificationRepo struct {
	db *DB
}

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const (
	qNotifInsert = `
INSERT INTO notifications (service_id, old_status, new_status, message, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;
`

	qNotifByService = `
SELECT id, service_id, old_status, new_status, message, created_at
FROM notifications
WHERE service_id = $1
ORDER BY created_at DESC
LIMIT $2;
`
)

func (r *NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return r.db.Pool.QueryRow(ctx, qNotifInsert,
		n.ServiceID, string(n.OldStatus), string(n.NewStatus), n.Message, n.CreatedAt,
	).Scan(&n.ID)
}

func (r *NotificationRepo) ListByService(ctx context.Context, serviceID uuid.UUID, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qNotifByService, serviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*notification.Notification, 0, limit)
	for rows.Next() {
		var n notification.Notification
		var oldSt, newSt string
		if err := rows.Scan(&n.ID, &n.ServiceID, &oldSt, &newSt, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.OldStatus = status.Status(oldSt)
		n.NewStatus = status.Status(newSt)
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
