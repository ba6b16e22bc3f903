package service

import (
	"context"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
)

// TourService covers the analytics and geospatial tour operations that sit
// beside the generic CRUD surface.
type TourService interface {
	// Stats aggregates rating and price figures per difficulty.
	Stats(ctx context.Context) ([]repository.DifficultyStats, error)

	// MonthlyPlan buckets a year's tour starts by month.
	MonthlyPlan(ctx context.Context, year int) ([]repository.MonthlyPlanEntry, error)

	// Within finds tours starting inside a radius around latlng, given as
	// "lat,lng". Unit is "mi" or "km".
	Within(ctx context.Context, distance float64, latlng, unit string) ([]*entity.Tour, error)

	// Distances computes each tour's distance from latlng in the unit.
	Distances(ctx context.Context, latlng, unit string) ([]repository.TourDistance, error)
}
