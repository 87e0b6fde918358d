package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
	"github.com/joao-fontenele/ecommerce-backend/internal/orders"
)

// AnalyticsHandler turns order.created events into order and revenue
// metrics.
type AnalyticsHandler struct {
	logger   *slog.Logger
	received metric.Int64Counter
	revenue  metric.Float64UpDownCounter
	items    metric.Int64Histogram
}

func NewAnalyticsHandler(meter metric.Meter, logger *slog.Logger) (*AnalyticsHandler, error) {
	received, err := meter.Int64Counter("orders.received",
		metric.WithDescription("order.created events consumed"),
	)
	if err != nil {
		return nil, err
	}

	// Totals come from clients and may be negative, so revenue can go down.
	revenue, err := meter.Float64UpDownCounter("orders.revenue",
		metric.WithDescription("Sum of order totals seen on order.created"),
	)
	if err != nil {
		return nil, err
	}

	items, err := meter.Int64Histogram("orders.items",
		metric.WithDescription("Line items per order"),
	)
	if err != nil {
		return nil, err
	}

	return &AnalyticsHandler{
		logger:   logger,
		received: received,
		revenue:  revenue,
		items:    items,
	}, nil
}

// Handle never fails on a bad payload: the message is logged and dropped so
// the consumer group keeps moving.
func (h *AnalyticsHandler) Handle(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("discarding malformed order created event", "error", err)
		return nil
	}

	if recomputed := orders.TotalAmount(event.Items); recomputed != event.TotalAmount {
		h.logger.Warn("order total does not match its items",
			"order_id", event.OrderID, "total_amount", event.TotalAmount, "items_total", recomputed)
	}

	h.received.Add(ctx, 1)
	h.revenue.Add(ctx, event.TotalAmount)
	h.items.Record(ctx, int64(len(event.Items)))

	h.logger.Info("order recorded",
		"order_id", event.OrderID,
		"user_id", event.UserID,
		"items", len(event.Items),
		"total_amount", event.TotalAmount,
	)
	return nil
}
