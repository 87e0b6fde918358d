package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
)

func TestProductFilter(t *testing.T) {
	t.Run("no filters matches everything", func(t *testing.T) {
		assert.Equal(t, bson.M{}, productFilter(domain.ProductQuery{Limit: 10}))
	})

	t.Run("name is passed to $regex as a case-insensitive pattern", func(t *testing.T) {
		filter := productFilter(domain.ProductQuery{Name: "^t.shirt"})

		assert.Equal(t, primitive.Regex{Pattern: "^t.shirt", Options: "i"}, filter["name"])
	})

	t.Run("size matches nested entries exactly", func(t *testing.T) {
		assert.Equal(t, bson.M{"sizes.size": "M"}, productFilter(domain.ProductQuery{Size: "M"}))
	})

	t.Run("both filters are combined", func(t *testing.T) {
		filter := productFilter(domain.ProductQuery{Name: "tee", Size: "S"})
		assert.Len(t, filter, 2)
		assert.Equal(t, "S", filter["sizes.size"])
	})
}

func TestIsInvalidPattern(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"regex compile failure", mongo.CommandError{Code: errCodeInvalidRegex, Message: "Regular expression is invalid: missing )"}, true},
		{"older server message", mongo.CommandError{Code: 2, Message: "Regular expression is invalid: missing terminating ] for character class"}, true},
		{"wrapped", fmt.Errorf("find: %w", mongo.CommandError{Code: errCodeInvalidRegex}), true},
		{"other server error", mongo.CommandError{Code: 13, Message: "not authorized"}, false},
		{"network error", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isInvalidPattern(tt.err))
		})
	}
}
