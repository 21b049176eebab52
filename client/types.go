package client

import "time"

// User is an account as returned by the API. Token is only present on
// register and login responses.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token,omitempty"`
}

// Review is one buyer review embedded in a product.
type Review struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a catalog item.
type Product struct {
	ID           string    `json:"_id"`
	User         string    `json:"user"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Reviews      []Review  `json:"reviews"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// OrderItem is one purchased line in an order.
type OrderItem struct {
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Image   string  `json:"image"`
	Price   float64 `json:"price"`
	Product string  `json:"product"`
}

// ShippingAddress is the delivery destination for an order.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentResult is the provider confirmation stored on a paid order.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Order is a placed order.
type Order struct {
	ID              string          `json:"_id"`
	User            string          `json:"user"`
	UserName        string          `json:"userName,omitempty"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
