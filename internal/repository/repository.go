package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michael-Parekh/proshop/internal/domain"
)

// ListProductsParams narrows and pages a product listing.
type ListProductsParams struct {
	// Keyword, when non-empty, matches product names case-insensitively as
	// a substring.
	Keyword string
	Skip    int
	Limit   int
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store. A duplicate email yields
	// an already-exists error.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductRepository defines the interface for product persistence operations.
// Reviews are embedded in the product document and only ever appended.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)

	// List returns a page of products matching the params along with the
	// total count of matching products.
	List(ctx context.Context, params ListProductsParams) ([]domain.Product, int, error)

	// GetTop returns up to limit products ordered by rating descending.
	GetTop(ctx context.Context, limit int) ([]domain.Product, error)

	// Replace overwrites all mutable fields of an existing product.
	Replace(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AddReview appends a review to the product in a single conditional
	// write, recomputing the rating aggregates server-side. It fails with
	// an already-reviewed error if the author has reviewed the product
	// before, and a not-found error if the product does not exist.
	AddReview(ctx context.Context, productID primitive.ObjectID, review domain.Review) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order into the store.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)

	// ListByUser returns all orders placed by the given user, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)

	// ListAll returns all orders with the owning user's name attached,
	// newest first.
	ListAll(ctx context.Context) ([]domain.Order, error)

	// MarkPaid flips the paid flag, stamps the paid time and stores the
	// payment confirmation, returning the updated order.
	MarkPaid(ctx context.Context, id primitive.ObjectID, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error)

	// MarkDelivered flips the delivered flag and stamps the delivery time,
	// returning the updated order.
	MarkDelivered(ctx context.Context, id primitive.ObjectID, deliveredAt time.Time) (*domain.Order, error)
}
