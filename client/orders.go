package client

import (
	"context"
	"net/http"
)

// CreateOrderInput holds everything needed to place an order. Prices are
// supplied by the caller and stored verbatim.
type CreateOrderInput struct {
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
}

// PaymentDetails is the provider confirmation submitted when paying an order.
type PaymentDetails struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// CreateOrder places a new order for the authenticated user.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder returns one order by id. Only the owner or an admin may read it.
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders returns the authenticated user's orders, newest first.
func (c *Client) ListMyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/myorders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrders returns every order with the owner's name attached.
// Admin token required.
func (c *Client) ListAllOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PayOrder marks an order paid with the given provider confirmation.
func (c *Client) PayOrder(ctx context.Context, id string, details PaymentDetails) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+id+"/pay", details, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeliverOrder marks an order delivered. Admin token required.
func (c *Client) DeliverOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+id+"/deliver", struct{}{}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetPayPalClientID returns the PayPal client id the checkout flow should
// initialize with.
func (c *Client) GetPayPalClientID(ctx context.Context) (string, error) {
	var data struct {
		ClientID string `json:"clientId"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/config/paypal", nil, &data); err != nil {
		return "", err
	}
	return data.ClientID, nil
}
