package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/servicehub/servicehub/internal/domain/notification"
)

var _ notification.Dispatcher = (*LogDispatcher)(nil)

// LogDispatcher is the default sink: it records the transition in the log.
// Real delivery channels (email, chat, webhooks) plug in behind the same
// interface and live outside this core.
type LogDispatcher struct {
	Log *zap.Logger
}

func (d *LogDispatcher) Dispatch(_ context.Context, n *notification.Notification) error {
	d.Log.Info("status change notification",
		zap.String("service_id", n.ServiceID.String()),
		zap.String("old", string(n.OldStatus)),
		zap.String("new", string(n.NewStatus)),
		zap.String("message", n.Message),
	)
	return nil
}
