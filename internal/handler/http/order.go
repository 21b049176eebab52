package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michael-Parekh/proshop/internal/domain"
	"github.com/Michael-Parekh/proshop/internal/service"
	"github.com/Michael-Parekh/proshop/pkg/httputil"
	"github.com/Michael-Parekh/proshop/pkg/middleware"
	"github.com/Michael-Parekh/proshop/pkg/validator"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// OrderItemRequest is one line item of an order placement.
type OrderItemRequest struct {
	Name    string  `json:"name" validate:"required"`
	Qty     int     `json:"qty" validate:"required,gte=1"`
	Image   string  `json:"image"`
	Price   float64 `json:"price" validate:"gte=0"`
	Product string  `json:"product" validate:"required,len=24,hexadecimal"`
}

// ShippingAddressRequest is the shipping destination of an order placement.
type ShippingAddressRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// CreateOrderRequest is the JSON request body for placing an order.
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems" validate:"dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	ItemsPrice      float64                `json:"itemsPrice" validate:"gte=0"`
	TaxPrice        float64                `json:"taxPrice" validate:"gte=0"`
	ShippingPrice   float64                `json:"shippingPrice" validate:"gte=0"`
	TotalPrice      float64                `json:"totalPrice" validate:"gte=0"`
}

// PayOrderRequest is the payment confirmation forwarded by the checkout
// client after the provider-side capture.
type PayOrderRequest struct {
	ID         string `json:"id" validate:"required"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// --- Handlers ---

// Create handles POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseObjectID(w, middleware.UserIDFromContext(r.Context()))
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items := make([]domain.OrderItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_PARAMETER",
					Message: "invalid product id: " + item.Product,
				},
			})
			return
		}
		items = append(items, domain.OrderItem{
			Name:    item.Name,
			Qty:     item.Qty,
			Image:   item.Image,
			Price:   item.Price,
			Product: productID,
		})
	}

	order, err := h.service.Create(r.Context(), userID, service.CreateOrderInput{
		OrderItems: items,
		ShippingAddress: domain.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListMine handles GET /api/orders/myorders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseObjectID(w, middleware.UserIDFromContext(r.Context()))
	if !ok {
		return
	}

	orders, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// ListAll handles GET /api/orders (admin)
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID, ok := httputil.ParseObjectID(w, middleware.UserIDFromContext(r.Context()))
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), id, userID, middleware.IsAdminFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// Pay handles PUT /api/orders/{id}/pay
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID, ok := httputil.ParseObjectID(w, middleware.UserIDFromContext(r.Context()))
	if !ok {
		return
	}

	var req PayOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.MarkPaid(r.Context(), id, userID, middleware.IsAdminFromContext(r.Context()), service.PayOrderInput{
		PaymentID:    req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.Payer.EmailAddress,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// Deliver handles PUT /api/orders/{id}/deliver (admin)
func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.MarkDelivered(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
