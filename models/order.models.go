package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every status an order may be set to
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// Valid reports whether s is a known status. Any status may follow any other.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentCOD is cash on delivery, the only payment method offered
const PaymentCOD = "cod"

// Order is one purchased cart line. Product details are copied in at checkout.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	ProductID       primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName     string             `bson:"product_name" json:"product_name"`
	ProductImageURL string             `bson:"product_image_url" json:"product_image_url"`
	Price           float64            `bson:"price" json:"price"` // line total
	Quantity        int                `bson:"quantity" json:"quantity"`
	CustomerName    string             `bson:"customer_name" json:"customer_name"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone           string             `bson:"phone" json:"phone"`
	Address         string             `bson:"address" json:"address"`
	City            string             `bson:"city,omitempty" json:"city,omitempty"`
	ZipCode         string             `bson:"zip_code,omitempty" json:"zip_code,omitempty"`
	PaymentMethod   string             `bson:"payment_method" json:"payment_method"`
	Status          OrderStatus        `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	IsGuest         bool               `bson:"is_guest" json:"is_guest"`
}
