package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sample values for a freshly created product. A new product is a placeholder
// that the admin edits immediately afterward.
const (
	SampleName        = "Sample name"
	SampleImage       = "/images/sample.jpg"
	SampleBrand       = "Sample brand"
	SampleCategory    = "Sample category"
	SampleDescription = "Sample description"
)

// Review is a product review embedded in its product document. Reviews are
// immutable once created.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Product represents a catalog product with its embedded review sequence.
// Invariants after every review mutation: Rating == mean(Reviews[].Rating)
// and NumReviews == len(Reviews).
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Name         string             `bson:"name" json:"name"`
	Image        string             `bson:"image" json:"image"`
	Brand        string             `bson:"brand" json:"brand"`
	Category     string             `bson:"category" json:"category"`
	Description  string             `bson:"description" json:"description"`
	Reviews      []Review           `bson:"reviews" json:"reviews"`
	Rating       float64            `bson:"rating" json:"rating"`
	NumReviews   int                `bson:"numReviews" json:"numReviews"`
	Price        float64            `bson:"price" json:"price"`
	CountInStock int                `bson:"countInStock" json:"countInStock"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewSampleProduct returns the placeholder product inserted by the admin
// create operation, owned by the given admin user.
func NewSampleProduct(adminID primitive.ObjectID, now time.Time) *Product {
	return &Product{
		User:         adminID,
		Name:         SampleName,
		Image:        SampleImage,
		Brand:        SampleBrand,
		Category:     SampleCategory,
		Description:  SampleDescription,
		Reviews:      []Review{},
		Rating:       0,
		NumReviews:   0,
		Price:        0,
		CountInStock: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReviewedBy reports whether the given user already reviewed this product.
func (p *Product) ReviewedBy(userID primitive.ObjectID) bool {
	for _, r := range p.Reviews {
		if r.User == userID {
			return true
		}
	}
	return false
}

// RecomputeReviewAggregates restores the review invariants: NumReviews is the
// sequence length and Rating is the arithmetic mean of all review ratings.
func (p *Product) RecomputeReviewAggregates() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}

	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = sum / float64(p.NumReviews)
}
