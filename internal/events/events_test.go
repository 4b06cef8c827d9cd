package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiu748/cafe-alya/pkg/logger"
)

func TestBuildEnvelope(t *testing.T) {
	orderID := uuid.New()
	occurred := time.Date(2024, 10, 15, 9, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	env, body, err := BuildEnvelope(Event{
		Type:        OrderCreated,
		AggregateID: orderID,
		Data:        map[string]any{"orderNumber": "20241015-001"},
		OccurredAt:  occurred,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, env.Version)
	assert.Equal(t, OrderCreated, env.EventType)
	assert.Equal(t, orderID.String(), env.AggregateID)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())

	var decoded Envelope
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.JSONEq(t, `{"orderNumber":"20241015-001"}`, string(decoded.Data))
}

func TestBuildEnvelopeRequiresType(t *testing.T) {
	_, _, err := BuildEnvelope(Event{})
	assert.Error(t, err)
}

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestRabbitPublisherWaitsForConfirm(t *testing.T) {
	ch := &fakeChannel{}
	acks := make(chan amqp.Confirmation, 1)
	pub := &RabbitPublisher{ch: ch, acks: acks, exchange: "cafe.events"}

	acks <- amqp.Confirmation{DeliveryTag: 1, Ack: true}
	err := pub.Publish(context.Background(), Event{Type: StockLow, AggregateID: uuid.New(), Data: map[string]string{"name": "milk"}})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	assert.Equal(t, StockLow, ch.keys[0])
	msg := ch.published[0]
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, StockLow, msg.Type)
	assert.NotEmpty(t, msg.MessageId)
}

func TestRabbitPublisherNack(t *testing.T) {
	acks := make(chan amqp.Confirmation, 1)
	pub := &RabbitPublisher{ch: &fakeChannel{}, acks: acks, exchange: "cafe.events"}

	acks <- amqp.Confirmation{DeliveryTag: 1, Ack: false}
	err := pub.Publish(context.Background(), Event{Type: OrderCreated})
	assert.Error(t, err)
}

func TestRabbitPublisherContextCancelled(t *testing.T) {
	pub := &RabbitPublisher{ch: &fakeChannel{}, acks: make(chan amqp.Confirmation), exchange: "cafe.events"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Publish(ctx, Event{Type: OrderCreated})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRabbitPublisherChannelError(t *testing.T) {
	boom := errors.New("channel closed")
	pub := &RabbitPublisher{ch: &fakeChannel{err: boom}, acks: make(chan amqp.Confirmation), exchange: "cafe.events"}

	err := pub.Publish(context.Background(), Event{Type: OrderCreated})
	assert.ErrorIs(t, err, boom)
}

func TestLogPublisher(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	pub := NewLogPublisher(logg)

	require.NoError(t, pub.Publish(context.Background(), Event{Type: OrderStatusChanged, AggregateID: uuid.New()}))
	assert.Contains(t, buf.String(), `"event_type":"order.status_changed"`)
}
