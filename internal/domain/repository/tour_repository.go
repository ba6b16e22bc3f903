package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
)

// DifficultyStats is one row of the per-difficulty tour statistics.
type DifficultyStats struct {
	Difficulty string  `bson:"_id" json:"difficulty"`
	NumTours   int64   `bson:"numTours" json:"numTours"`
	NumRatings int64   `bson:"numRatings" json:"numRatings"`
	AvgRating  float64 `bson:"avgRating" json:"avgRating"`
	AvgPrice   float64 `bson:"avgPrice" json:"avgPrice"`
	MinPrice   float64 `bson:"minPrice" json:"minPrice"`
	MaxPrice   float64 `bson:"maxPrice" json:"maxPrice"`
}

// MonthlyPlanEntry counts the tours starting in one month of a year.
type MonthlyPlanEntry struct {
	Month         int      `bson:"month" json:"month"`
	NumTourStarts int64    `bson:"numTourStarts" json:"numTourStarts"`
	Tours         []string `bson:"tours" json:"tours"`
}

// TourDistance is a tour's distance from a reference point.
type TourDistance struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Distance float64            `bson:"distance" json:"distance"`
}

// GeoPoint is a latitude/longitude pair from the URL path.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// TourRepository persists tours. The read scope hides secret tours.
type TourRepository interface {
	Store[entity.Tour]

	// FindByIDWithReviews returns the tour with its reviews and reviewer
	// summaries joined in.
	FindByIDWithReviews(ctx context.Context, id primitive.ObjectID) (*entity.Tour, []*entity.Review, error)

	// UpdateRatingStats writes the recomputed rating aggregate. Unlike
	// UpdateByID it bypasses the read scope so secret tours stay accurate.
	UpdateRatingStats(ctx context.Context, id primitive.ObjectID, stats entity.RatingStats) error

	// Stats aggregates rating and price figures per difficulty.
	Stats(ctx context.Context) ([]DifficultyStats, error)

	// MonthlyPlan unwinds start dates and buckets tour starts by month.
	MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error)

	// Within returns tours whose start location lies inside the sphere
	// centered on center with the given radius in radians.
	Within(ctx context.Context, center GeoPoint, radiusRadians float64) ([]*entity.Tour, error)

	// Distances returns every tour's distance from center, scaled by
	// multiplier to the requested unit.
	Distances(ctx context.Context, center GeoPoint, multiplier float64) ([]TourDistance, error)

	// Aggregate runs an arbitrary pipeline under the read scope and decodes
	// the cursor into results, a pointer to a slice.
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, results any) error
}
