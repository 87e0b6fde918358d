package orders

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
)

const CollectionName = "orders"

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(CollectionName)}
}

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	result, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok || id.IsZero() {
		return domain.ErrNoInsertedID
	}

	order.ID = id
	return nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
	opts := options.Find().
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": q.UserID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	return orders, nil
}
