package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/order/domain"
)

func TestPublishOrderPlaced(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event domain.OrderPlacedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.OrderID != "ORD-1" || event.EventType != domain.EventTypeOrderPlaced || event.EventID == "" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewPublisherWithProducer(producer)
	err := p.PublishOrderPlaced(context.Background(), domain.OrderPlacedEvent{
		OrderID:       "ORD-1",
		CustomerEmail: "a@x.com",
		Total:         2000,
		Timestamp:     time.Date(2024, 1, 28, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishOrderStatusChangedFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer)
	err := p.PublishOrderStatusChanged(context.Background(), domain.OrderStatusChangedEvent{
		OrderID:        "ORD-1",
		PreviousStatus: domain.StatusPending,
		Status:         domain.StatusShipped,
	})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestHandleMessageDispatchesByEventType(t *testing.T) {
	c := newConsumer("storefront-test", Topics)

	var got domain.OrderStatusChangedEvent
	c.RegisterHandler(domain.EventTypeOrderStatusChanged, OrderStatusChangedHandler(
		func(_ context.Context, e domain.OrderStatusChangedEvent) error {
			got = e
			return nil
		}))

	payload, err := json.Marshal(domain.OrderStatusChangedEvent{OrderID: "ORD-7", Status: domain.StatusDelivered})
	require.NoError(t, err)

	msg := &sarama.ConsumerMessage{
		Topic: TopicOrderStatusChanged,
		Value: payload,
		Headers: []*sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte(domain.EventTypeOrderStatusChanged)},
			{Key: []byte(headerEventID), Value: []byte("evt-1")},
		},
	}
	assert.True(t, c.handleMessage(context.Background(), msg))
	assert.Equal(t, "ORD-7", got.OrderID)
	assert.Equal(t, domain.StatusDelivered, got.Status)

	// no handler registered for placed events
	msg.Headers[0].Value = []byte(domain.EventTypeOrderPlaced)
	assert.False(t, c.handleMessage(context.Background(), msg))

	msg.Headers = nil
	assert.False(t, c.handleMessage(context.Background(), msg))
}

func TestHandleMessageRejectsBadPayload(t *testing.T) {
	c := newConsumer("storefront-test", Topics)
	c.RegisterHandler(domain.EventTypeOrderPlaced, OrderPlacedHandler(
		func(context.Context, domain.OrderPlacedEvent) error { return nil }))

	msg := &sarama.ConsumerMessage{
		Topic:   TopicOrderPlaced,
		Value:   []byte("{not json"),
		Headers: []*sarama.RecordHeader{{Key: []byte(headerEventType), Value: []byte(domain.EventTypeOrderPlaced)}},
	}
	assert.False(t, c.handleMessage(context.Background(), msg))
}
