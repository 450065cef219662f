package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/repository/postgres"
)

var _ service.Repo = (*ServiceRepo)(nil)

type ServiceRepo struct {
	mu       sync.RWMutex
	services map[uuid.UUID]service.Service
}

func NewServiceRepo() *ServiceRepo {
	return &ServiceRepo{services: make(map[uuid.UUID]service.Service)}
}

func (r *ServiceRepo) Create(_ context.Context, s *service.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[s.ID]; ok {
		return postgres.ErrConflict
	}
	now := time.Now().UTC()
	s.IsActive = true
	s.CreatedAt = now
	s.UpdatedAt = now
	r.services[s.ID] = *s
	return nil
}

func (r *ServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*service.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return &s, nil
}

func (r *ServiceRepo) List(_ context.Context) ([]*service.Service, error) {
	return r.list(func(service.Service) bool { return true }), nil
}

func (r *ServiceRepo) ListActive(_ context.Context) ([]*service.Service, error) {
	return r.list(func(s service.Service) bool { return s.IsActive }), nil
}

func (r *ServiceRepo) list(keep func(service.Service) bool) []*service.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*service.Service, 0, len(r.services))
	for _, s := range r.services {
		if keep(s) {
			cp := s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *ServiceRepo) Update(_ context.Context, s *service.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[s.ID]; !ok {
		return postgres.ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	r.services[s.ID] = *s
	return nil
}

func (r *ServiceRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.services[id]
	if !ok || !s.IsActive {
		return postgres.ErrNotFound
	}
	s.IsActive = false
	s.UpdatedAt = time.Now().UTC()
	r.services[id] = s
	return nil
}
