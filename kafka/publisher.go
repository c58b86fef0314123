package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/pkg/logger"
)

// Publisher delivers order events to Kafka
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
	breaker  *CircuitBreaker
}

var _ domain.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
		breaker:  newPublishBreaker(),
	}, nil
}

// NewPublisherWithProducer wraps an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer) *Publisher {
	return &Publisher{producer: producer, breaker: newPublishBreaker()}
}

func newPublishBreaker() *CircuitBreaker {
	return NewCircuitBreaker("kafka-publisher", 5, 30*time.Second)
}

// PublishOrderPlaced publishes an order placed event keyed by order id
func (p *Publisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	event.EventType = domain.EventTypeOrderPlaced
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	return p.publish(ctx, TopicOrderPlaced, event.EventType, event.EventID, event.OrderID, event,
		attribute.String("order.id", event.OrderID),
		attribute.Float64("order.total", event.Total),
		attribute.Int("order.items", len(event.Items)),
	)
}

// PublishOrderStatusChanged publishes a status transition keyed by order id
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent) error {
	event.EventType = domain.EventTypeOrderStatusChanged
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	return p.publish(ctx, TopicOrderStatusChanged, event.EventType, event.EventID, event.OrderID, event,
		attribute.String("order.id", event.OrderID),
		attribute.String("order.previous_status", event.PreviousStatus),
		attribute.String("order.status", event.Status),
	)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, eventID, key string, event any, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte(headerEventType), Value: []byte(eventType)},
		{Key: []byte(headerEventID), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	var partition int32
	var offset int64
	err = p.breaker.Call(func() error {
		var sendErr error
		partition, offset, sendErr = p.producer.SendMessage(msg)
		return sendErr
	})
	if errors.Is(err, ErrCircuitOpen) {
		span.SetStatus(codes.Error, "Circuit open")
		logger.Warn(ctx).Str("topic", topic).Str("order_id", key).Msg("Event dropped, broker circuit open")
		return err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", topic).
			Str("order_id", key).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Info(ctx).
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("order_id", key).
		Msg("Order event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
