package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Michael-Parekh/proshop/internal/domain"
	pkgkafka "github.com/Michael-Parekh/proshop/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicUserRegistered = "proshop.user.registered"
	TopicProductCreated = "proshop.product.created"
	TopicProductUpdated = "proshop.product.updated"
	TopicProductDeleted = "proshop.product.deleted"
	TopicReviewCreated  = "proshop.review.created"
	TopicOrderCreated   = "proshop.order.created"
	TopicOrderPaid      = "proshop.order.paid"
	TopicOrderDelivered = "proshop.order.delivered"
)

// Aggregate type constants.
const (
	AggregateTypeUser    = "user"
	AggregateTypeProduct = "product"
	AggregateTypeOrder   = "order"
)

// Source identifier for events originating from this server.
const Source = "proshop-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductData is the payload for product lifecycle events.
type ProductData struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ProductID string  `json:"product_id"`
	UserID    string  `json:"user_id"`
	Rating    float64 `json:"rating"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	ItemCount  int     `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
}

// OrderStatusData is the payload for order.paid and order.delivered events.
type OrderStatusData struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// Producer publishes storefront domain events to Kafka. A Producer built
// without a Kafka writer is a no-op, so callers never branch on whether
// eventing is enabled.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer. Pass a nil kafka producer to
// disable publishing.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
	}
	return p.publish(ctx, TopicUserRegistered, user.ID.Hex(), AggregateTypeUser, data)
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID.Hex(), AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID.Hex(), AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, productID string) error {
	return p.publish(ctx, TopicProductDeleted, productID, AggregateTypeProduct, ProductData{ID: productID})
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, productID string, review domain.Review) error {
	data := ReviewCreatedData{
		ProductID: productID,
		UserID:    review.User.Hex(),
		Rating:    review.Rating,
	}
	return p.publish(ctx, TopicReviewCreated, productID, AggregateTypeProduct, data)
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		ID:         order.ID.Hex(),
		UserID:     order.User.Hex(),
		ItemCount:  len(order.OrderItems),
		TotalPrice: order.TotalPrice,
	}
	return p.publish(ctx, TopicOrderCreated, order.ID.Hex(), AggregateTypeOrder, data)
}

// PublishOrderPaid publishes an order.paid event.
func (p *Producer) PublishOrderPaid(ctx context.Context, order *domain.Order) error {
	data := OrderStatusData{ID: order.ID.Hex(), UserID: order.User.Hex()}
	return p.publish(ctx, TopicOrderPaid, order.ID.Hex(), AggregateTypeOrder, data)
}

// PublishOrderDelivered publishes an order.delivered event.
func (p *Producer) PublishOrderDelivered(ctx context.Context, order *domain.Order) error {
	data := OrderStatusData{ID: order.ID.Hex(), UserID: order.User.Hex()}
	return p.publish(ctx, TopicOrderDelivered, order.ID.Hex(), AggregateTypeOrder, data)
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:       product.ID.Hex(),
		Name:     product.Name,
		Brand:    product.Brand,
		Category: product.Category,
		Price:    product.Price,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
