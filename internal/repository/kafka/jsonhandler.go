package kafka

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// JSONHandler decodes message values into T before invoking fn. Malformed
// payloads are logged and skipped rather than redelivered forever.
func JSONHandler[T any](fn func(ctx context.Context, key []byte, msg *T) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		var msg T
		if err := json.Unmarshal(value, &msg); err != nil {
			zap.L().Warn("drop malformed message", zap.Error(err))
			return nil
		}
		return fn(ctx, key, &msg)
	}
}
