package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
)

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Store[entity.Review]

	// RatingStats aggregates the count and average rating of a tour's
	// reviews. A tour with no reviews yields the zero value.
	RatingStats(ctx context.Context, tourID primitive.ObjectID) (entity.RatingStats, error)
}
