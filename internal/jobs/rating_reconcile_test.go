package jobs

import (
	"context"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/service/impl"
	"github.com/trailbound/trailbound-go/internal/observability"
	"github.com/trailbound/trailbound-go/internal/testutil/mocks"
)

func newReconcileFixture() (*mocks.MockTourRepository, *mocks.MockReviewRepository, *RatingReconciler) {
	tours := mocks.NewMockTourRepository()
	reviews := mocks.NewMockReviewRepository()
	svc := impl.NewReviewService(reviews, tours, zap.NewNop())
	reconciler := NewRatingReconciler(nil, tours, svc, observability.NewMetrics(), zap.NewNop(), &config.JobsConfig{
		RatingReconcileEnabled: true,
		RatingReconcileCron:    "0 */6 * * *",
	})
	return tours, reviews, reconciler
}

func TestReconcileRepairsDriftedAggregates(t *testing.T) {
	tours, reviews, reconciler := newReconcileFixture()

	// Stored aggregates disagree with the reviews on purpose.
	tour := tours.Seed(&entity.Tour{Name: "The Forest Hiker", RatingsAverage: 4.9, RatingsQuantity: 99})
	reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 4})
	reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 2})

	touched, err := reconciler.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if touched != 1 {
		t.Errorf("touched = %d, want 1", touched)
	}
	if len(tours.RatingUpdates) != 1 {
		t.Fatalf("rating updates = %d, want 1", len(tours.RatingUpdates))
	}
	update := tours.RatingUpdates[0]
	if update.ID != tour.ID || update.Stats.Quantity != 2 || update.Stats.Average != 3 {
		t.Errorf("update = %+v", update)
	}
}

func TestReconcileWalksAllPages(t *testing.T) {
	tours, _, reconciler := newReconcileFixture()

	total := reconcileBatch + 7
	for i := 0; i < total; i++ {
		tours.Seed(&entity.Tour{Name: fmt.Sprintf("Tour %d", i)})
	}

	touched, err := reconciler.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if touched != total {
		t.Errorf("touched = %d, want %d", touched, total)
	}
}

func TestReconcileSkipsFailedTours(t *testing.T) {
	tours, reviews, reconciler := newReconcileFixture()

	tours.Seed(&entity.Tour{Name: "The Sea Explorer"})
	tours.Seed(&entity.Tour{Name: "The City Wanderer"})
	reviews.RatingStatsErr = fmt.Errorf("aggregation hiccup")

	touched, err := reconciler.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if touched != 0 {
		t.Errorf("touched = %d, want 0", touched)
	}
}
