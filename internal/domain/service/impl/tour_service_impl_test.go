package impl

import (
	"context"
	"math"
	"testing"

	"github.com/trailbound/trailbound-go/internal/testutil/mocks"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

func TestWithinConvertsDistanceToRadians(t *testing.T) {
	tours := mocks.NewMockTourRepository()
	svc := NewTourService(tours)

	if _, err := svc.Within(context.Background(), 250, "34.1,-118.1", "mi"); err != nil {
		t.Fatalf("Within: %v", err)
	}
	if _, err := svc.Within(context.Background(), 250, "34.1,-118.1", "km"); err != nil {
		t.Fatalf("Within: %v", err)
	}

	if len(tours.WithinCalls) != 2 {
		t.Fatalf("calls = %d, want 2", len(tours.WithinCalls))
	}
	mi, km := tours.WithinCalls[0], tours.WithinCalls[1]
	if math.Abs(mi.Scale-250/earthRadiusMiles) > 1e-12 {
		t.Errorf("mi radius = %v", mi.Scale)
	}
	if math.Abs(km.Scale-250/earthRadiusKm) > 1e-12 {
		t.Errorf("km radius = %v", km.Scale)
	}
	if mi.Center.Lat != 34.1 || mi.Center.Lng != -118.1 {
		t.Errorf("center = %+v", mi.Center)
	}
}

func TestDistancesPicksMultiplier(t *testing.T) {
	tours := mocks.NewMockTourRepository()
	svc := NewTourService(tours)

	if _, err := svc.Distances(context.Background(), "34.1,-118.1", "mi"); err != nil {
		t.Fatalf("Distances: %v", err)
	}
	if _, err := svc.Distances(context.Background(), "34.1,-118.1", "km"); err != nil {
		t.Fatalf("Distances: %v", err)
	}

	if len(tours.DistanceCalls) != 2 {
		t.Fatalf("calls = %d, want 2", len(tours.DistanceCalls))
	}
	if tours.DistanceCalls[0].Scale != metersToMiles {
		t.Errorf("mi multiplier = %v", tours.DistanceCalls[0].Scale)
	}
	if tours.DistanceCalls[1].Scale != metersToKm {
		t.Errorf("km multiplier = %v", tours.DistanceCalls[1].Scale)
	}
}

func TestParseLatLngRejectsBadInput(t *testing.T) {
	svc := NewTourService(mocks.NewMockTourRepository())

	for _, latlng := range []string{"", "34.1", "a,b", "34.1;-118.1"} {
		_, err := svc.Within(context.Background(), 100, latlng, "mi")
		appErr := apperrors.Classify(err)
		if appErr.Status != 400 {
			t.Errorf("latlng %q: status = %d, want 400", latlng, appErr.Status)
		}
	}
}
