package service

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michael-Parekh/proshop/internal/domain"
	"github.com/Michael-Parekh/proshop/internal/event"
	"github.com/Michael-Parekh/proshop/internal/repository"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
	"github.com/Michael-Parekh/proshop/pkg/pagination"
)

// topProductsLimit is how many products the top-rated carousel shows.
const topProductsLimit = 3

// ProductCache is the read cache in front of the catalog. A nil cache
// disables caching.
type ProductCache interface {
	GetTop(ctx context.Context) ([]domain.Product, error)
	SetTop(ctx context.Context, products []domain.Product) error
	InvalidateTop(ctx context.Context) error
}

// ProductService implements the business logic for the catalog.
type ProductService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	cache       ProductCache
	producer    *event.Producer
	logger      *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	cache ProductCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		userRepo:    userRepo,
		cache:       cache,
		producer:    producer,
		logger:      logger,
	}
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []domain.Product
	Page     int
	Pages    int
}

// UpdateProductInput holds the full field set for a product update. Every
// field overwrites the stored value; there are no partial updates here.
type UpdateProductInput struct {
	Name         string
	Price        float64
	Description  string
	Image        string
	Brand        string
	Category     string
	CountInStock int
}

// AddReviewInput holds the parameters for reviewing a product.
type AddReviewInput struct {
	Rating  float64
	Comment string
}

// List returns a page of products, optionally narrowed by a case-insensitive
// name keyword.
func (s *ProductService) List(ctx context.Context, keyword string, page pagination.Params) (*ProductPage, error) {
	products, count, err := s.productRepo.List(ctx, repository.ListProductsParams{
		Keyword: keyword,
		Skip:    page.Offset,
		Limit:   page.PerPage,
	})
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Page:     page.Page,
		Pages:    page.Pages(count),
	}, nil
}

// Get returns a single product with its embedded reviews.
func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// GetTop returns the highest-rated products for the carousel, served from
// cache when warm.
func (s *ProductService) GetTop(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		products, err := s.cache.GetTop(ctx)
		if err == nil {
			return products, nil
		}
	}

	products, err := s.productRepo.GetTop(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetTop(ctx, products); err != nil {
			s.logger.WarnContext(ctx, "failed to cache top products",
				slog.String("error", err.Error()),
			)
		}
	}

	return products, nil
}

// Create inserts a placeholder product owned by the creating admin. The
// client follows up with an update once the admin fills the edit form in.
func (s *ProductService) Create(ctx context.Context, adminID primitive.ObjectID) (*domain.Product, error) {
	product := domain.NewSampleProduct(adminID, time.Now().UTC())

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.Hex()),
	)

	return product, nil
}

// Update overwrites all descriptive fields of a product. Reviews and rating
// aggregates are untouched.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Description = input.Description
	product.Image = input.Image
	product.Brand = input.Brand
	product.Category = input.Category
	product.CountInStock = input.CountInStock

	if err := s.productRepo.Replace(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateTopCache(ctx)

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// Delete removes a product and everything embedded in it.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateTopCache(ctx)

	if err := s.producer.PublishProductDeleted(ctx, id.Hex()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id.Hex()),
	)

	return nil
}

// AddReview appends a one-per-user review and refreshes the rating
// aggregates. The author's display name is snapshotted onto the review.
func (s *ProductService) AddReview(ctx context.Context, productID, userID primitive.ObjectID, input AddReviewInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return apperrors.InvalidInput("rating must be between 1 and 5")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	review := domain.Review{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Name:      user.Name,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.productRepo.AddReview(ctx, productID, review); err != nil {
		return err
	}

	s.invalidateTopCache(ctx)

	if err := s.producer.PublishReviewCreated(ctx, productID.Hex(), review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("product_id", productID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", productID.Hex()),
		slog.String("user_id", userID.Hex()),
	)

	return nil
}

func (s *ProductService) invalidateTopCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTop(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate top products cache",
			slog.String("error", err.Error()),
		)
	}
}
