package service

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	List(ctx context.Context) ([]*Service, error)
	ListActive(ctx context.Context) ([]*Service, error)
	Update(ctx context.Context, s *Service) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
