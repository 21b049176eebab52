package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Michael-Parekh/proshop/internal/domain"
	"github.com/Michael-Parekh/proshop/internal/repository"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using MongoDB.
// Reviews live embedded in the product document.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a MongoDB-backed product repository.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

// Create inserts a new product into the collection.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Reviews == nil {
		p.Reviews = []domain.Review{}
	}

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var p domain.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("product", id.Hex())
		}
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return &p, nil
}

// List returns a page of products matching the params and the total count of
// matches. An empty keyword matches everything.
func (r *ProductRepository) List(ctx context.Context, params repository.ListProductsParams) ([]domain.Product, int, error) {
	filter := bson.M{}
	if params.Keyword != "" {
		filter["name"] = bson.M{
			"$regex":   regexp.QuoteMeta(params.Keyword),
			"$options": "i",
		}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(params.Skip)).
		SetLimit(int64(params.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, int(count), nil
}

// GetTop returns up to limit products ordered by rating descending. Ties keep
// their natural order.
func (r *ProductRepository) GetTop(ctx context.Context, limit int) ([]domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list top products: %w", err)
	}

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode top products: %w", err)
	}
	return products, nil
}

// Replace overwrites the stored product document. Reviews and aggregates are
// carried on the document the caller passes in.
func (r *ProductRepository) Replace(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("replace product: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("product", p.ID.Hex())
	}
	return nil
}

// Delete removes a product from the collection.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("product", id.Hex())
	}
	return nil
}

// AddReview appends a review and recomputes numReviews and rating in a single
// conditional update. The filter only matches when the author has no existing
// review, so concurrent duplicate reviews cannot both land.
func (r *ProductRepository) AddReview(ctx context.Context, productID primitive.ObjectID, review domain.Review) error {
	filter := bson.M{
		"_id":          productID,
		"reviews.user": bson.M{"$ne": review.User},
	}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{"$reviews", bson.A{review}}},
		}}},
		{{Key: "$set", Value: bson.M{
			"numReviews": bson.M{"$size": "$reviews"},
			"rating":     bson.M{"$avg": "$reviews.rating"},
			"updatedAt":  time.Now().UTC(),
		}}},
	}

	result, err := r.collection.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return fmt.Errorf("add review: %w", err)
	}
	if result.MatchedCount == 0 {
		// The filter missed either because the product does not exist or
		// because this user already reviewed it. Re-read to disambiguate.
		var existing domain.Product
		err := r.collection.FindOne(ctx, bson.M{"_id": productID}).Decode(&existing)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("product", productID.Hex())
		}
		if err != nil {
			return fmt.Errorf("check product: %w", err)
		}
		if existing.ReviewedBy(review.User) {
			return apperrors.AlreadyReviewed()
		}
		return fmt.Errorf("add review: unmatched filter for product %s", productID.Hex())
	}
	return nil
}
