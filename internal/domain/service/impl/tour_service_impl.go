package impl

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// Earth radii for converting a distance to radians.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKm    = 6378.1
)

// Meter multipliers for $geoNear distances.
const (
	metersToMiles = 0.000621371
	metersToKm    = 0.001
)

type tourService struct {
	tours repository.TourRepository
}

// NewTourService creates the tour analytics service.
func NewTourService(tours repository.TourRepository) service.TourService {
	return &tourService{tours: tours}
}

func (s *tourService) Stats(ctx context.Context) ([]repository.DifficultyStats, error) {
	return s.tours.Stats(ctx)
}

func (s *tourService) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthlyPlanEntry, error) {
	return s.tours.MonthlyPlan(ctx, year)
}

func (s *tourService) Within(ctx context.Context, distance float64, latlng, unit string) ([]*entity.Tour, error) {
	center, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	radius := distance / earthRadiusMiles
	if unit == "km" {
		radius = distance / earthRadiusKm
	}
	return s.tours.Within(ctx, center, radius)
}

func (s *tourService) Distances(ctx context.Context, latlng, unit string) ([]repository.TourDistance, error) {
	center, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	multiplier := metersToKm
	if unit == "mi" {
		multiplier = metersToMiles
	}
	return s.tours.Distances(ctx, center, multiplier)
}

func parseLatLng(latlng string) (repository.GeoPoint, error) {
	badFormat := apperrors.New(apperrors.CodeBadRequest,
		"Please provide latitude and longitude in the format lat,lng.",
		http.StatusBadRequest)

	parts := strings.Split(latlng, ",")
	if len(parts) != 2 {
		return repository.GeoPoint{}, badFormat
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return repository.GeoPoint{}, badFormat
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return repository.GeoPoint{}, badFormat
	}
	return repository.GeoPoint{Lat: lat, Lng: lng}, nil
}
