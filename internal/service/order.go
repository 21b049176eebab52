package service

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michael-Parekh/proshop/internal/domain"
	"github.com/Michael-Parekh/proshop/internal/event"
	"github.com/Michael-Parekh/proshop/internal/payment"
	"github.com/Michael-Parekh/proshop/internal/repository"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

// OrderService implements the business logic for order placement and
// fulfilment.
type OrderService struct {
	orderRepo repository.OrderRepository
	provider  payment.Provider
	producer  *event.Producer
	logger    *slog.Logger
}

// NewOrderService creates a new order service. The payment provider may be
// nil, in which case payment confirmations are stored without provider-side
// verification.
func NewOrderService(
	orderRepo repository.OrderRepository,
	provider payment.Provider,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		provider:  provider,
		producer:  producer,
		logger:    logger,
	}
}

// CreateOrderInput holds the parameters for placing an order. Prices arrive
// pre-computed by the checkout client and are stored verbatim.
type CreateOrderInput struct {
	OrderItems      []domain.OrderItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	ItemsPrice      float64
	TaxPrice        float64
	ShippingPrice   float64
	TotalPrice      float64
}

// PayOrderInput holds the payment confirmation supplied by the checkout
// client after the provider-side capture.
type PayOrderInput struct {
	PaymentID    string
	Status       string
	UpdateTime   string
	EmailAddress string
}

// Create places a new order for the given user.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, input CreateOrderInput) (*domain.Order, error) {
	if len(input.OrderItems) == 0 {
		return nil, apperrors.InvalidInput("no order items")
	}

	order := &domain.Order{
		User:            userID,
		OrderItems:      input.OrderItems,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		TotalPrice:      input.TotalPrice,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID.Hex()),
		slog.String("user_id", userID.Hex()),
		slog.Float64("total_price", order.TotalPrice),
	)

	return order, nil
}

// Get returns an order, enforcing that only its owner or an admin may read
// it.
func (s *OrderService) Get(ctx context.Context, id, requesterID primitive.ObjectID, isAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanBeSeenBy(requesterID, isAdmin) {
		return nil, apperrors.Forbidden("not authorized to view this order")
	}

	return order, nil
}

// ListMine returns the requesting user's order history, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// ListAll returns every order with owner names attached. Admin operation.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// MarkPaid records a payment confirmation on the order. When a payment
// provider is configured the capture is verified against it first. Paying an
// already-paid order overwrites the previous confirmation.
func (s *OrderService) MarkPaid(ctx context.Context, id, requesterID primitive.ObjectID, isAdmin bool, input PayOrderInput) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanBeSeenBy(requesterID, isAdmin) {
		return nil, apperrors.Forbidden("not authorized to pay this order")
	}

	result := domain.PaymentResult{
		ID:           input.PaymentID,
		Status:       input.Status,
		UpdateTime:   input.UpdateTime,
		EmailAddress: input.EmailAddress,
	}

	if s.provider != nil {
		verification, err := s.provider.VerifyOrder(ctx, input.PaymentID)
		if err != nil {
			return nil, err
		}
		if !verification.Verified() {
			return nil, apperrors.PaymentFailed("payment not completed at provider")
		}
		result.Status = verification.Status
		result.UpdateTime = verification.UpdateTime
		result.EmailAddress = verification.EmailAddress
	}

	updated, err := s.orderRepo.MarkPaid(ctx, id, result, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderPaid(ctx, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.paid event",
			slog.String("order_id", updated.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order paid",
		slog.String("order_id", updated.ID.Hex()),
		slog.String("payment_id", result.ID),
	)

	return updated, nil
}

// MarkDelivered flags an order as delivered. Admin operation.
func (s *OrderService) MarkDelivered(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	updated, err := s.orderRepo.MarkDelivered(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderDelivered(ctx, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.delivered event",
			slog.String("order_id", updated.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order delivered",
		slog.String("order_id", updated.ID.Hex()),
	)

	return updated, nil
}
