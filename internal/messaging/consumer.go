package messaging

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var consumerTracer = otel.Tracer("messaging/consumer")

// HandlerFunc processes one message payload. Returning an error stops the
// consumer without committing the message.
type HandlerFunc func(ctx context.Context, payload []byte) error

type Consumer struct {
	reader   *kafka.Reader
	topic    string
	groupID  string
	consumed metric.Int64Counter
}

type consumerConfig struct {
	reader kafka.ReaderConfig
	meter  metric.Meter
}

type ConsumerOption func(*consumerConfig)

func WithStartOffset(offset int64) ConsumerOption {
	return func(cfg *consumerConfig) {
		cfg.reader.StartOffset = offset
	}
}

// WithMeter overrides the global meter used for the consumed-messages counter.
func WithMeter(meter metric.Meter) ConsumerOption {
	return func(cfg *consumerConfig) {
		cfg.meter = meter
	}
}

func NewConsumer(brokers []string, topic, groupID string, opts ...ConsumerOption) (*Consumer, error) {
	cfg := consumerConfig{
		reader: kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		},
		meter: otel.Meter("messaging"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	consumed, err := cfg.meter.Int64Counter("messaging.messages.consumed",
		metric.WithDescription("Messages handed to a consumer handler, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		reader:   kafka.NewReader(cfg.reader),
		topic:    topic,
		groupID:  groupID,
		consumed: consumed,
	}, nil
}

// Consume blocks until ctx is cancelled or handle fails, committing each
// message after it has been handled.
func (c *Consumer) Consume(ctx context.Context, handle HandlerFunc) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.process(ctx, msg, handle); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message, handle HandlerFunc) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrierFor(&msg))
	ctx, span := consumerTracer.Start(ctx, "process "+c.topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(c.spanAttributes(msg)...),
	)
	defer span.End()

	err := handle(ctx, msg.Value)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.consumed.Add(ctx, 1, metric.WithAttributes(
		semconv.MessagingDestinationName(c.topic),
		attribute.String("outcome", outcome),
	))

	return err
}

func (c *Consumer) spanAttributes(msg kafka.Message) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.MessagingSystemKafka,
		semconv.MessagingOperationName("process"),
		semconv.MessagingOperationTypeDeliver,
		semconv.MessagingDestinationName(c.topic),
		semconv.MessagingKafkaConsumerGroup(c.groupID),
		semconv.MessagingKafkaMessageOffset(int(msg.Offset)),
		semconv.MessagingDestinationPartitionID(strconv.Itoa(msg.Partition)),
		semconv.MessagingKafkaMessageKey(string(msg.Key)),
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
