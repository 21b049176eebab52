package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Michael-Parekh/proshop/internal/domain"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using MongoDB.
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a MongoDB-backed order repository.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection("orders")}
}

// EnsureIndexes creates the index backing per-user order history queries.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create order user index: %w", err)
	}
	return nil
}

// Create inserts a new order into the collection.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	now := time.Now().UTC()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var o domain.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("order", id.Hex())
		}
		return nil, fmt.Errorf("find order by id: %w", err)
	}
	return &o, nil
}

// ListByUser returns all orders placed by the given user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// ListAll returns all orders newest first with the owning user's name joined
// in from the users collection.
func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "orderUser",
		}}},
		{{Key: "$set", Value: bson.M{
			"userName": bson.M{"$first": "$orderUser.name"},
		}}},
		{{Key: "$unset", Value: "orderUser"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// MarkPaid stores the payment confirmation and flips the paid flag, returning
// the updated order.
func (r *OrderRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error) {
	update := bson.M{"$set": bson.M{
		"isPaid":        true,
		"paidAt":        paidAt,
		"paymentResult": result,
		"updatedAt":     time.Now().UTC(),
	}}

	return r.findOneAndUpdate(ctx, id, update)
}

// MarkDelivered flips the delivered flag and stamps the delivery time,
// returning the updated order.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID, deliveredAt time.Time) (*domain.Order, error) {
	update := bson.M{"$set": bson.M{
		"isDelivered": true,
		"deliveredAt": deliveredAt,
		"updatedAt":   time.Now().UTC(),
	}}

	return r.findOneAndUpdate(ctx, id, update)
}

func (r *OrderRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*domain.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o domain.Order
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("order", id.Hex())
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return &o, nil
}
