package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/servicehub/internal/domain/status"
)

func appendRecord(t *testing.T, s *StatusStore, id uuid.UUID, st status.Status, at time.Time) *status.Record {
	t.Helper()
	rt := int64(100)
	rec := &status.Record{ServiceID: id, Status: st, ResponseTime: &rt, CheckedAt: at}
	require.NoError(t, s.Append(context.Background(), rec))
	return rec
}

func TestStatusStore_AppendAssignsIDs(t *testing.T) {
	s := NewStatusStore()
	id := uuid.New()
	now := time.Now()

	first := appendRecord(t, s, id, status.Online, now)
	second := appendRecord(t, s, id, status.Offline, now.Add(time.Minute))

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
}

func TestStatusStore_LatestEmpty(t *testing.T) {
	s := NewStatusStore()

	rec, err := s.Latest(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestStatusStore_LatestPicksNewest(t *testing.T) {
	s := NewStatusStore()
	id := uuid.New()
	now := time.Now()

	appendRecord(t, s, id, status.Online, now.Add(-2*time.Minute))
	appendRecord(t, s, id, status.Warning, now)
	appendRecord(t, s, id, status.Offline, now.Add(-time.Minute))

	rec, err := s.Latest(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, status.Warning, rec.Status)
}

func TestStatusStore_WindowHalfOpenAscending(t *testing.T) {
	s := NewStatusStore()
	id := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		appendRecord(t, s, id, status.Online, base.Add(time.Duration(i)*time.Minute))
	}

	window, err := s.Window(context.Background(), id, base.Add(time.Minute), base.Add(4*time.Minute))
	require.NoError(t, err)
	require.Len(t, window, 3)
	for i := 1; i < len(window); i++ {
		require.True(t, window[i-1].CheckedAt.Before(window[i].CheckedAt))
	}
	require.Equal(t, base.Add(time.Minute), window[0].CheckedAt)
	require.Equal(t, base.Add(3*time.Minute), window[2].CheckedAt)
}

func TestStatusStore_WindowAll(t *testing.T) {
	s := NewStatusStore()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	appendRecord(t, s, a, status.Online, base)
	appendRecord(t, s, b, status.Offline, base.Add(time.Minute))
	appendRecord(t, s, c, status.Online, base.Add(2*time.Minute))

	window, err := s.WindowAll(context.Background(), []uuid.UUID{a, b}, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, window, 2)
	require.Equal(t, a, window[0].ServiceID)
	require.Equal(t, b, window[1].ServiceID)

	window, err = s.WindowAll(context.Background(), nil, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, window)
}

func TestStatusStore_AppendCopies(t *testing.T) {
	s := NewStatusStore()
	id := uuid.New()
	rec := appendRecord(t, s, id, status.Online, time.Now())

	rec.Status = status.Offline

	stored, err := s.Latest(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, status.Online, stored.Status)
}
