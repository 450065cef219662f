package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/servicehub/servicehub/internal/domain/service"
)

var _ service.Repo = (*ServiceRepo)(nil)

type ServiceRepo struct {
	db *DB
}

func NewServiceRepo(db *DB) *ServiceRepo { return &ServiceRepo{db: db} }

const (
	qServiceInsert = `
INSERT INTO services (id, name, url, health_check_url, category, is_active, timeout_sec, retry_attempts, expected_response_ms)
VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8)
RETURNING created_at, updated_at;
`

	qServiceCols = `id, name, url, health_check_url, category, is_active, timeout_sec, retry_attempts, expected_response_ms, created_at, updated_at`

	qServiceGet = `
SELECT ` + qServiceCols + ` FROM services WHERE id = $1;`

	qServiceList = `
SELECT ` + qServiceCols + ` FROM services ORDER BY category, name;`

	qServiceListActive = `
SELECT ` + qServiceCols + ` FROM services WHERE is_active = TRUE ORDER BY category, name;`

	qServiceUpdate = `
UPDATE services
SET name = $2, url = $3, health_check_url = $4, category = $5, is_active = $6,
    timeout_sec = $7, retry_attempts = $8, expected_response_ms = $9, updated_at = NOW()
WHERE id = $1;`

	qServiceSoftDelete = `
UPDATE services SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE;`
)

func scanService(row pgx.Row, s *service.Service) error {
	var timeoutSec int
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.URL,
		&s.HealthCheckURL,
		&s.Category,
		&s.IsActive,
		&timeoutSec,
		&s.RetryAttempts,
		&s.ExpectedResponseTime,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan service: %w", err)
	}
	s.Timeout = time.Duration(timeoutSec) * time.Second
	return nil
}

func (r *ServiceRepo) Create(ctx context.Context, s *service.Service) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	timeoutSec := int(s.Timeout / time.Second)
	row := r.db.Pool.QueryRow(ctx, qServiceInsert,
		s.ID, s.Name, s.URL, s.HealthCheckURL, s.Category, timeoutSec, s.RetryAttempts, s.ExpectedResponseTime,
	)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("insert service: %w", mapPgError(err))
	}
	s.IsActive = true
	return nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*service.Service, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var s service.Service
	if err := scanService(r.db.Pool.QueryRow(ctx, qServiceGet, id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) List(ctx context.Context) ([]*service.Service, error) {
	return r.list(ctx, qServiceList)
}

func (r *ServiceRepo) ListActive(ctx context.Context) ([]*service.Service, error) {
	return r.list(ctx, qServiceListActive)
}

func (r *ServiceRepo) list(ctx context.Context, q string) ([]*service.Service, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var out []*service.Service
	for rows.Next() {
		var s service.Service
		if err := scanService(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *service.Service) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	timeoutSec := int(s.Timeout / time.Second)
	cmd, err := r.db.Pool.Exec(ctx, qServiceUpdate,
		s.ID, s.Name, s.URL, s.HealthCheckURL, s.Category, s.IsActive, timeoutSec, s.RetryAttempts, s.ExpectedResponseTime,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", mapPgError(err))
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ServiceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qServiceSoftDelete, id)
	if err != nil {
		return fmt.Errorf("soft delete service: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
