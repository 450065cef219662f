// Package memory provides an in-process StatusStore with the same ordering
// and append-only semantics as the postgres implementation. It backs tests
// and the dev mode of the API binary.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/servicehub/servicehub/internal/domain/status"
)

var _ status.Store = (*StatusStore)(nil)

type StatusStore struct {
	mu     sync.RWMutex
	nextID int64
	logs   map[uuid.UUID][]status.Record
}

func NewStatusStore() *StatusStore {
	return &StatusStore{logs: make(map[uuid.UUID][]status.Record)}
}

// Append stores a copy of the record, so later mutation of the caller's
// struct cannot reach into the log.
func (s *StatusStore) Append(_ context.Context, rec *status.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rec.ID = s.nextID
	s.logs[rec.ServiceID] = append(s.logs[rec.ServiceID], *rec)
	return nil
}

func (s *StatusStore) Latest(_ context.Context, serviceID uuid.UUID) (*status.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[serviceID]
	if len(log) == 0 {
		return nil, nil
	}
	latest := log[0]
	for _, r := range log[1:] {
		if r.CheckedAt.After(latest.CheckedAt) {
			latest = r
		}
	}
	return &latest, nil
}

func (s *StatusStore) Window(_ context.Context, serviceID uuid.UUID, from, to time.Time) ([]*status.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedWindow(s.logs[serviceID], from, to), nil
}

func (s *StatusStore) WindowAll(_ context.Context, serviceIDs []uuid.UUID, from, to time.Time) ([]*status.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []status.Record
	for _, id := range serviceIDs {
		all = append(all, s.logs[id]...)
	}
	return sortedWindow(all, from, to), nil
}

func sortedWindow(log []status.Record, from, to time.Time) []*status.Record {
	out := make([]*status.Record, 0, len(log))
	for i := range log {
		r := log[i]
		if r.CheckedAt.Before(from) || !r.CheckedAt.Before(to) {
			continue
		}
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckedAt.Before(out[j].CheckedAt) })
	return out
}
