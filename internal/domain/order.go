package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderItem struct {
	ProductID      string  `json:"product_id" bson:"product_id"`
	BoughtQuantity int     `json:"bought_quantity" bson:"bought_quantity"`
	TotalAmount    float64 `json:"total_amount" bson:"total_amount"`
}

type Order struct {
	ID          primitive.ObjectID `json:"order_id" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	Items       []OrderItem        `json:"items" bson:"items"`
	UserAddress string             `json:"user_address" bson:"user_address"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
	TotalAmount float64            `json:"total_amount" bson:"total_amount"`
}

type OrderItemRequest struct {
	ProductID      string   `json:"product_id" validate:"required"`
	BoughtQuantity *int     `json:"bought_quantity" validate:"required"`
	TotalAmount    *float64 `json:"total_amount" validate:"required"`
}

type OrderRequest struct {
	UserID      string             `json:"user_id" validate:"required"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	UserAddress string             `json:"user_address" validate:"required"`
}

// ProductIDs returns the referenced product ids in item order.
func (r OrderRequest) ProductIDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (r OrderRequest) OrderItems() []OrderItem {
	items := make([]OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, OrderItem{
			ProductID:      item.ProductID,
			BoughtQuantity: *item.BoughtQuantity,
			TotalAmount:    *item.TotalAmount,
		})
	}
	return items
}

type OrderQuery struct {
	UserID string
	Limit  int
	Offset int
}
