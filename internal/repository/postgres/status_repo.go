package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/servicehub/servicehub/internal/domain/status"
)

var _ status.Store = (*StatusRepo)(nil)

// StatusRepo persists the append-only status log. There is deliberately no
// update or delete path for records.
type StatusRepo struct {
	db *DB
}

func NewStatusRepo(db *DB) *StatusRepo { return &StatusRepo{db: db} }

const (
	qStatusInsert = `
INSERT INTO status_records (service_id, status, response_time_ms, status_code, error_message, checked_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`

	qStatusLatest = `
SELECT id, service_id, status, response_time_ms, status_code, error_message, checked_at
FROM status_records
WHERE service_id = $1
ORDER BY checked_at DESC
LIMIT 1;
`

	qStatusWindow = `
SELECT id, service_id, status, response_time_ms, status_code, error_message, checked_at
FROM status_records
WHERE service_id = $1 AND checked_at >= $2 AND checked_at < $3
ORDER BY checked_at ASC;
`

	qStatusWindowAll = `
SELECT id, service_id, status, response_time_ms, status_code, error_message, checked_at
FROM status_records
WHERE service_id = ANY($1) AND checked_at >= $2 AND checked_at < $3
ORDER BY checked_at ASC;
`
)

func scanRecord(row pgx.Row, rec *status.Record) error {
	var st string
	if err := row.Scan(
		&rec.ID,
		&rec.ServiceID,
		&st,
		&rec.ResponseTime,
		&rec.StatusCode,
		&rec.ErrorMessage,
		&rec.CheckedAt,
	); err != nil {
		return fmt.Errorf("scan status record: %w", err)
	}
	rec.Status = status.Status(st)
	return nil
}

func (r *StatusRepo) Append(ctx context.Context, rec *status.Record) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return r.db.Pool.QueryRow(ctx, qStatusInsert,
		rec.ServiceID, string(rec.Status), rec.ResponseTime, rec.StatusCode, rec.ErrorMessage, rec.CheckedAt,
	).Scan(&rec.ID)
}

func (r *StatusRepo) Latest(ctx context.Context, serviceID uuid.UUID) (*status.Record, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var rec status.Record
	if err := scanRecord(r.db.Pool.QueryRow(ctx, qStatusLatest, serviceID), &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *StatusRepo) Window(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*status.Record, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qStatusWindow, serviceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query window: %w", err)
	}
	return collectRecords(rows)
}

func (r *StatusRepo) WindowAll(ctx context.Context, serviceIDs []uuid.UUID, from, to time.Time) ([]*status.Record, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qStatusWindowAll, serviceIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("query window all: %w", err)
	}
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]*status.Record, error) {
	defer rows.Close()

	var out []*status.Record
	for rows.Next() {
		var rec status.Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
