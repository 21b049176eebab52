package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a line item snapshotted from a product at order time. It is
// never re-read from the live product.
type OrderItem struct {
	Name    string             `bson:"name" json:"name"`
	Qty     int                `bson:"qty" json:"qty"`
	Image   string             `bson:"image" json:"image"`
	Price   float64            `bson:"price" json:"price"`
	Product primitive.ObjectID `bson:"product" json:"product"`
}

// ShippingAddress is the destination captured at order time.
type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// PaymentResult is the external payment confirmation payload stored on a
// paid order.
type PaymentResult struct {
	ID           string `bson:"id" json:"id"`
	Status       string `bson:"status" json:"status"`
	UpdateTime   string `bson:"update_time" json:"update_time"`
	EmailAddress string `bson:"email_address" json:"email_address"`
}

// Order represents a customer order. Its lifecycle is two independent
// one-way flags: Created -> paid -> delivered; there is no cancellation or
// refund transition.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	UserName        string             `bson:"userName,omitempty" json:"userName,omitempty"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult   *PaymentResult     `bson:"paymentResult,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice        float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CanBeSeenBy reports whether the requester may read this order: the owner
// or an administrator.
func (o *Order) CanBeSeenBy(userID primitive.ObjectID, isAdmin bool) bool {
	return isAdmin || o.User == userID
}
