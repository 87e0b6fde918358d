package orders

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
)

type Store interface {
	Insert(ctx context.Context, order *domain.Order) error
	FindByUser(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error)
}

// ProductChecker is satisfied by the catalog service.
type ProductChecker interface {
	MissingProducts(ctx context.Context, ids []string) ([]string, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type Service struct {
	store     Store
	products  ProductChecker
	publisher Publisher
	logger    *slog.Logger
	created   metric.Int64Counter
	amounts   metric.Float64Histogram
	now       func() time.Time
}

func NewService(store Store, products ProductChecker, publisher Publisher, logger *slog.Logger) (*Service, error) {
	meter := otel.Meter("orders")

	created, err := meter.Int64Counter("orders.created",
		metric.WithDescription("Orders persisted"),
	)
	if err != nil {
		return nil, err
	}

	amounts, err := meter.Float64Histogram("orders.total_amount",
		metric.WithDescription("Total amount per created order"),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:     store,
		products:  products,
		publisher: publisher,
		logger:    logger,
		created:   created,
		amounts:   amounts,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateOrder persists an order once every referenced product is known to
// exist. The order total is the sum of the caller's item totals; prices are
// not consulted.
func (s *Service) CreateOrder(ctx context.Context, req domain.OrderRequest) (string, error) {
	if err := domain.Validate(&req); err != nil {
		return "", err
	}

	missing, err := s.products.MissingProducts(ctx, req.ProductIDs())
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		return "", domain.Invalidf("product %s not found", missing[0])
	}

	items := req.OrderItems()
	order := &domain.Order{
		UserID:      req.UserID,
		Items:       items,
		UserAddress: req.UserAddress,
		Timestamp:   s.now(),
		TotalAmount: TotalAmount(items),
	}

	if err := s.store.Insert(ctx, order); err != nil {
		return "", err
	}

	s.created.Add(ctx, 1)
	s.amounts.Record(ctx, order.TotalAmount)
	id := order.ID.Hex()

	if s.publisher != nil {
		event := domain.OrderCreatedEvent{
			OrderID:     id,
			UserID:      order.UserID,
			Items:       order.Items,
			TotalAmount: order.TotalAmount,
			Timestamp:   order.Timestamp,
		}
		if err := s.publisher.Publish(ctx, domain.TopicOrderCreated, id, event); err != nil {
			s.logger.Error("failed to publish order created event", "error", err, "order_id", id)
		}
	}

	return id, nil
}

func (s *Service) GetUserOrders(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
	if q.Limit < 1 {
		return nil, domain.Invalidf("limit must be a positive integer")
	}
	if q.Offset < 0 {
		return nil, domain.Invalidf("offset must be a non-negative integer")
	}

	return s.store.FindByUser(ctx, q)
}

// TotalAmount sums item totals in decimal so 19.99 + 19.99 is 39.98 exactly.
func TotalAmount(items []domain.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.TotalAmount))
	}
	return total.InexactFloat64()
}
