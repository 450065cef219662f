// Package notifier consumes status-change events and fans them into the
// notification store and the delivery sink. Delivery failures are logged and
// dropped; they never block consumption.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/servicehub/servicehub/internal/domain/notification"
	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/domain/status"
	kafkax "github.com/servicehub/servicehub/internal/repository/kafka"
)

var (
	mConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_events_consumed_total", Help: "StatusChanged events consumed",
	})
	mDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_dispatched_total", Help: "Notifications handed to the sink",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_errors_total", Help: "Errors",
	})
)

type Runner struct {
	log      *zap.Logger
	cons     *kafkax.Consumer
	services service.Repo
	notifs   notification.Repo
	sink     notification.Dispatcher
	clock    notification.Clock
}

func NewRunner(
	log *zap.Logger,
	cons *kafkax.Consumer,
	services service.Repo,
	notifs notification.Repo,
	sink notification.Dispatcher,
	clock notification.Clock,
) *Runner {
	return &Runner{log: log, cons: cons, services: services, notifs: notifs, sink: sink, clock: clock}
}

func (r *Runner) Run(ctx context.Context) error {
	handler := kafkax.JSONHandler(
		func(ctx context.Context, _ []byte, ev *status.Changed) error {
			mConsumed.Inc()
			if ev.ServiceID == uuid.Nil || !ev.NewStatus.Valid() {
				r.log.Warn("invalid StatusChanged event", zap.String("service_id", ev.ServiceID.String()))
				return nil
			}
			return r.handle(ctx, ev)
		},
	)

	if err := r.cons.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		mErrors.Inc()
		r.log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return ctx.Err()
}

func (r *Runner) handle(ctx context.Context, ev *status.Changed) error {
	svc, err := r.services.GetByID(ctx, ev.ServiceID)
	if err != nil {
		mErrors.Inc()
		return fmt.Errorf("get service: %w", err)
	}

	n := &notification.Notification{
		ServiceID: svc.ID,
		OldStatus: ev.OldStatus,
		NewStatus: ev.NewStatus,
		Message:   fmt.Sprintf("%s changed status: %s -> %s", svc.Name, ev.OldStatus, ev.NewStatus),
		CreatedAt: r.clock.Now(),
	}

	if err := r.notifs.Create(ctx, n); err != nil {
		mErrors.Inc()
		return fmt.Errorf("store notification: %w", err)
	}

	if err := r.sink.Dispatch(ctx, n); err != nil {
		mErrors.Inc()
		r.log.Warn("dispatch notification", zap.String("service", svc.Name), zap.Error(err))
	} else {
		mDispatched.Inc()
	}
	return nil
}
