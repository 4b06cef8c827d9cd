package events

import (
	"context"

	"github.com/poiu748/cafe-alya/pkg/logger"
)

// LogPublisher stands in when no broker is configured.
type LogPublisher struct {
	logg *logger.Logger
}

func NewLogPublisher(logg *logger.Logger) *LogPublisher {
	return &LogPublisher{logg: logg}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	env, _, err := BuildEnvelope(event)
	if err != nil {
		return err
	}
	if p.logg != nil {
		ctx = p.logg.WithFields(ctx, map[string]any{
			"event_id":     env.EventID,
			"event_type":   env.EventType,
			"aggregate_id": env.AggregateID,
		})
		p.logg.Info(ctx, "event emitted (no broker)")
	}
	return nil
}
