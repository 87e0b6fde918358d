package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var producerTracer = otel.Tracer("messaging/producer")

// Producer publishes JSON events. The topic is chosen per message so one
// writer serves every event type the API emits. Messages with the same key
// land on the same partition.
type Producer struct {
	writer *kafka.Writer
	sent   metric.Int64Counter
}

func NewProducer(brokers []string) (*Producer, error) {
	sent, err := otel.Meter("messaging").Int64Counter("messaging.messages.sent",
		metric.WithDescription("Events written to the broker"),
	)
	if err != nil {
		return nil, err
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
		sent: sent,
	}, nil
}

func encodeMessage(topic, key string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s event: %w", topic, err)
	}
	return kafka.Message{Topic: topic, Key: []byte(key), Value: data}, nil
}

func (p *Producer) Publish(ctx context.Context, topic, key string, event any) error {
	msg, err := encodeMessage(topic, key, event)
	if err != nil {
		return err
	}

	ctx, span := producerTracer.Start(ctx, "send "+topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(topic),
			semconv.MessagingKafkaMessageKey(key),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, carrierFor(&msg))

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	p.sent.Add(ctx, 1, metric.WithAttributes(semconv.MessagingDestinationName(topic)))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
