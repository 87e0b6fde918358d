package messaging

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestHeaderCarrier(t *testing.T) {
	t.Run("set appends and then overwrites", func(t *testing.T) {
		msg := kafka.Message{}
		c := carrierFor(&msg)

		c.Set("traceparent", "a")
		c.Set("baggage", "b")
		c.Set("traceparent", "c")

		require.Len(t, msg.Headers, 2)
		assert.Equal(t, "c", c.Get("traceparent"))
		assert.Equal(t, "b", c.Get("baggage"))
		assert.Equal(t, []string{"traceparent", "baggage"}, c.Keys())
	})

	t.Run("get on missing key returns empty", func(t *testing.T) {
		msg := kafka.Message{}
		assert.Empty(t, carrierFor(&msg).Get("traceparent"))
	})

	t.Run("round trips trace context", func(t *testing.T) {
		prop := propagation.TraceContext{}
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x01, 0x02},
			SpanID:     trace.SpanID{0x03},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		msg := kafka.Message{}
		prop.Inject(ctx, carrierFor(&msg))

		got := trace.SpanContextFromContext(prop.Extract(context.Background(), carrierFor(&msg)))
		assert.Equal(t, sc.TraceID(), got.TraceID())
		assert.Equal(t, sc.SpanID(), got.SpanID())
		assert.True(t, got.IsSampled())
	})
}
