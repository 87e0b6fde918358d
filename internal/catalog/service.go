package catalog

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
)

type Store interface {
	Insert(ctx context.Context, product *domain.Product) error
	Find(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]struct{}, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	created   metric.Int64Counter
	now       func() time.Time
}

// NewService builds the catalog service. publisher may be nil, in which case
// no product.created events are emitted.
func NewService(store Store, publisher Publisher, logger *slog.Logger) (*Service, error) {
	created, err := otel.Meter("catalog").Int64Counter("catalog.products.created",
		metric.WithDescription("Products persisted to the catalog"),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		created:   created,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductRequest) (string, error) {
	if err := domain.Validate(&req); err != nil {
		return "", err
	}

	product := req.Product(s.now())
	if err := s.store.Insert(ctx, product); err != nil {
		return "", err
	}

	s.created.Add(ctx, 1)
	id := product.ID.Hex()

	if s.publisher != nil {
		event := domain.ProductCreatedEvent{
			ProductID: id,
			Name:      product.Name,
			Price:     product.Price,
			Timestamp: product.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, domain.TopicProductCreated, id, event); err != nil {
			s.logger.Error("failed to publish product created event", "error", err, "product_id", id)
		}
	}

	return id, nil
}

func (s *Service) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	if q.Limit < 1 {
		return nil, domain.Invalidf("limit must be a positive integer")
	}
	if q.Offset < 0 {
		return nil, domain.Invalidf("offset must be a non-negative integer")
	}

	products, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].Sizes == nil {
			products[i].Sizes = []domain.Size{}
		}
	}

	return products, nil
}

// MissingProducts reports which of ids are absent from the catalog, in the
// order given and without repeats. A malformed id is a validation error.
//
// Nothing stops a product from disappearing between this check and a later
// write that relies on it.
func (s *Service) MissingProducts(ctx context.Context, ids []string) ([]string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, domain.Invalidf("invalid product_id %q", id)
		}
		oids = append(oids, oid)
	}

	if len(oids) == 0 {
		return nil, nil
	}

	found, err := s.store.ExistingIDs(ctx, oids)
	if err != nil {
		return nil, err
	}

	var missing []string
	seen := make(map[primitive.ObjectID]bool, len(oids))
	for i, oid := range oids {
		if _, ok := found[oid]; ok || seen[oid] {
			continue
		}
		seen[oid] = true
		missing = append(missing, ids[i])
	}

	return missing, nil
}
