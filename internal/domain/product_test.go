package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecomputeReviewAggregates_Mean(t *testing.T) {
	p := &Product{Reviews: []Review{
		{Rating: 4},
		{Rating: 5},
	}}

	p.RecomputeReviewAggregates()

	assert.Equal(t, 2, p.NumReviews)
	assert.Equal(t, 4.5, p.Rating)
}

func TestRecomputeReviewAggregates_SingleReview(t *testing.T) {
	p := &Product{Reviews: []Review{{Rating: 3}}}

	p.RecomputeReviewAggregates()

	assert.Equal(t, 1, p.NumReviews)
	assert.Equal(t, 3.0, p.Rating)
}

func TestRecomputeReviewAggregates_EmptyResets(t *testing.T) {
	p := &Product{Reviews: []Review{}, NumReviews: 3, Rating: 4.2}

	p.RecomputeReviewAggregates()

	assert.Equal(t, 0, p.NumReviews)
	assert.Equal(t, 0.0, p.Rating)
}

func TestReviewedBy(t *testing.T) {
	author := primitive.NewObjectID()
	other := primitive.NewObjectID()
	p := &Product{Reviews: []Review{{User: author, Rating: 5}}}

	assert.True(t, p.ReviewedBy(author))
	assert.False(t, p.ReviewedBy(other))
	assert.False(t, (&Product{}).ReviewedBy(author))
}
