package kafka

import (
	"context"
	"encoding/json"

	"github.com/servicehub/servicehub/internal/domain/status"
)

var _ status.Events = (*StatusEventsKafka)(nil)

// StatusEventsKafka publishes status-change events as JSON keyed by service
// id, so per-service ordering is preserved within a partition.
type StatusEventsKafka struct {
	p *Producer
}

func NewStatusEventsKafka(p *Producer) *StatusEventsKafka { return &StatusEventsKafka{p: p} }

func (e *StatusEventsKafka) PublishStatusChanged(ctx context.Context, ev status.Changed) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return e.p.Publish(ctx, []byte(ev.ServiceID.String()), b)
}
