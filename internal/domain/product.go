package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Size struct {
	Size     string `json:"size" bson:"size"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

type Product struct {
	ID          primitive.ObjectID `json:"product_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	Sizes       []Size             `json:"sizes" bson:"sizes"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// SizeRequest and ProductRequest use pointers so that a missing field can be
// told apart from a zero value during validation.
type SizeRequest struct {
	Size     *string `json:"size" validate:"required"`
	Quantity *int    `json:"quantity" validate:"required"`
}

type ProductRequest struct {
	Name        string        `json:"name" validate:"required"`
	Price       *float64      `json:"price" validate:"required,gte=0"`
	Description *string       `json:"description"`
	Sizes       []SizeRequest `json:"sizes" validate:"required,dive"`
}

// Product builds the document to persist. The request must already be valid.
func (r ProductRequest) Product(now time.Time) *Product {
	sizes := make([]Size, 0, len(r.Sizes))
	for _, s := range r.Sizes {
		sizes = append(sizes, Size{Size: *s.Size, Quantity: *s.Quantity})
	}

	var description string
	if r.Description != nil {
		description = *r.Description
	}

	return &Product{
		Name:        r.Name,
		Price:       *r.Price,
		Description: description,
		Sizes:       sizes,
		CreatedAt:   now,
	}
}

type ProductQuery struct {
	Name   string
	Size   string
	Limit  int
	Offset int
}
