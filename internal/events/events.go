package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Routing keys published on the café exchange.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	StockLow           = "stock.low"
)

const envelopeVersion = 1

// ActorRef identifies who caused the event, when known.
type ActorRef struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role,omitempty"`
}

// Event is a domain fact handed to a Publisher.
type Event struct {
	Type        string
	AggregateID uuid.UUID
	Actor       *ActorRef
	Data        any
	OccurredAt  time.Time
}

// Envelope is the JSON body put on the wire.
type Envelope struct {
	Version     int             `json:"version"`
	EventID     string          `json:"eventId"`
	EventType   string          `json:"eventType"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Actor       *ActorRef       `json:"actor,omitempty"`
	Data        json.RawMessage `json:"data"`
}

// Publisher delivers domain events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// BuildEnvelope assigns an event id and serializes the event.
func BuildEnvelope(event Event) (Envelope, []byte, error) {
	if event.Type == "" {
		return Envelope{}, nil, fmt.Errorf("event type is required")
	}
	data, err := json.Marshal(event.Data)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("marshal event data: %w", err)
	}
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	env := Envelope{
		Version:     envelopeVersion,
		EventID:     uuid.NewString(),
		EventType:   event.Type,
		AggregateID: event.AggregateID.String(),
		OccurredAt:  occurred.UTC(),
		Actor:       event.Actor,
		Data:        data,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return env, body, nil
}
