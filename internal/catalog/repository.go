package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
)

const CollectionName = "products"

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(CollectionName)}
}

func (r *ProductRepository) Insert(ctx context.Context, product *domain.Product) error {
	result, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok || id.IsZero() {
		return domain.ErrNoInsertedID
	}

	product.ID = id
	return nil
}

func (r *ProductRepository) Find(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	opts := options.Find().
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))

	cursor, err := r.coll.Find(ctx, productFilter(q), opts)
	if err != nil {
		if isInvalidPattern(err) {
			return nil, domain.Invalidf("invalid name pattern %q", q.Name)
		}
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		if isInvalidPattern(err) {
			return nil, domain.Invalidf("invalid name pattern %q", q.Name)
		}
		return nil, fmt.Errorf("decode products: %w", err)
	}

	return products, nil
}

// ExistingIDs returns which of ids are present, in a single round trip.
func (r *ProductRepository) ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find product ids: %w", err)
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode product ids: %w", err)
	}

	found := make(map[primitive.ObjectID]struct{}, len(docs))
	for _, d := range docs {
		found[d.ID] = struct{}{}
	}

	return found, nil
}

// productFilter matches name as a case-insensitive regular expression and
// size exactly against any entry of sizes.
func productFilter(q domain.ProductQuery) bson.M {
	filter := bson.M{}
	if q.Name != "" {
		filter["name"] = primitive.Regex{Pattern: q.Name, Options: "i"}
	}
	if q.Size != "" {
		filter["sizes.size"] = q.Size
	}
	return filter
}

// errCodeInvalidRegex is what the server reports for a $regex it cannot compile.
const errCodeInvalidRegex = 51091

func isInvalidPattern(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCode(errCodeInvalidRegex) || se.HasErrorMessage("Regular expression is invalid")
}
