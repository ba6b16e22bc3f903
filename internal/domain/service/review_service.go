package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/dto/request"
)

// ReviewService owns review construction and the rating recomputation that
// follows every review mutation.
type ReviewService interface {
	// Build resolves a create request into a review entity. The tour comes
	// from the body or the nested route parameter and must exist; the
	// author is always the authenticated user.
	Build(ctx context.Context, req *request.CreateReviewRequest, tourParam string, userID primitive.ObjectID) (*entity.Review, error)

	// RecalcTourRatings re-derives a tour's ratingsQuantity and
	// ratingsAverage from its current reviews. With no reviews left both
	// reset to zero. Runs synchronously after each review write.
	RecalcTourRatings(ctx context.Context, tourID primitive.ObjectID) error
}
