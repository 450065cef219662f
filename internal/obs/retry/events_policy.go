package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultEventsPolicy bounds the fire-and-forget status-change publish.
// Attempts stay small: the caller swallows the final error anyway, so a long
// retry tail would only delay the goroutine's exit.
func DefaultEventsPolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "status_events",
		Attempts: 4,
		Backoff:  ExpoJitter{Base: 100 * time.Millisecond, Max: 2 * time.Second, Jitter: 0.2},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("status event publish retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("status event publish failed", zap.Error(err))
			}
		},
	}
}
