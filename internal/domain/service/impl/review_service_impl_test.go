package impl

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	"github.com/trailbound/trailbound-go/internal/testutil/mocks"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

func newReviewFixture() (*mocks.MockReviewRepository, *mocks.MockTourRepository, *reviewService) {
	reviews := mocks.NewMockReviewRepository()
	tours := mocks.NewMockTourRepository()
	svc := NewReviewService(reviews, tours, zap.NewNop()).(*reviewService)
	return reviews, tours, svc
}

func lastRatingUpdate(t *testing.T, tours *mocks.MockTourRepository) mocks.RatingUpdate {
	t.Helper()
	if len(tours.RatingUpdates) == 0 {
		t.Fatal("no rating update recorded")
	}
	return tours.RatingUpdates[len(tours.RatingUpdates)-1]
}

func TestRecalcTourRatings(t *testing.T) {
	reviews, tours, svc := newReviewFixture()
	tour := tours.Seed(&entity.Tour{Name: "The Forest Hiker"})

	reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 4})
	reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 2})

	if err := svc.RecalcTourRatings(context.Background(), tour.ID); err != nil {
		t.Fatalf("RecalcTourRatings: %v", err)
	}

	update := lastRatingUpdate(t, tours)
	if update.ID != tour.ID {
		t.Errorf("updated tour = %s, want %s", update.ID.Hex(), tour.ID.Hex())
	}
	if update.Stats.Quantity != 2 || update.Stats.Average != 3 {
		t.Errorf("stats = %+v, want quantity 2 average 3", update.Stats)
	}
}

func TestRecalcAfterReviewDeleted(t *testing.T) {
	reviews, tours, svc := newReviewFixture()
	tour := tours.Seed(&entity.Tour{Name: "The Forest Hiker"})

	keep := reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 2})
	gone := reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 4})
	if _, err := reviews.DeleteByID(context.Background(), gone.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}

	if err := svc.RecalcTourRatings(context.Background(), tour.ID); err != nil {
		t.Fatalf("RecalcTourRatings: %v", err)
	}

	update := lastRatingUpdate(t, tours)
	if update.Stats.Quantity != 1 || update.Stats.Average != keep.Rating {
		t.Errorf("stats = %+v, want quantity 1 average %v", update.Stats, keep.Rating)
	}
}

func TestRecalcLastReviewRemovedResetsToZero(t *testing.T) {
	reviews, tours, svc := newReviewFixture()
	tour := tours.Seed(&entity.Tour{Name: "The Forest Hiker", RatingsAverage: 4, RatingsQuantity: 1})

	only := reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 4})
	if _, err := reviews.DeleteByID(context.Background(), only.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}

	if err := svc.RecalcTourRatings(context.Background(), tour.ID); err != nil {
		t.Fatalf("RecalcTourRatings: %v", err)
	}

	update := lastRatingUpdate(t, tours)
	if update.Stats.Quantity != 0 || update.Stats.Average != 0 {
		t.Errorf("stats = %+v, want explicit 0/0", update.Stats)
	}
	if tour.RatingsQuantity != 0 || tour.RatingsAverage != 0 {
		t.Errorf("tour = %v/%v, want 0/0", tour.RatingsQuantity, tour.RatingsAverage)
	}
}

func TestBuildPrefersRouteParam(t *testing.T) {
	_, tours, svc := newReviewFixture()
	routeTour := tours.Seed(&entity.Tour{Name: "The Forest Hiker"})
	bodyTour := tours.Seed(&entity.Tour{Name: "The Sea Explorer"})
	userID := primitive.NewObjectID()

	review, err := svc.Build(context.Background(), &request.CreateReviewRequest{
		Review: "Lovely",
		Rating: 5,
		Tour:   bodyTour.ID.Hex(),
		User:   primitive.NewObjectID().Hex(),
	}, routeTour.ID.Hex(), userID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if review.Tour != routeTour.ID {
		t.Errorf("tour = %s, want route param %s", review.Tour.Hex(), routeTour.ID.Hex())
	}
	// The author is always the caller, whatever the body claims.
	if review.User != userID {
		t.Errorf("user = %s, want %s", review.User.Hex(), userID.Hex())
	}
}

func TestBuildRejectsBadTourID(t *testing.T) {
	_, _, svc := newReviewFixture()

	_, err := svc.Build(context.Background(), &request.CreateReviewRequest{
		Review: "Lovely",
		Rating: 5,
		Tour:   "not-an-id",
	}, "", primitive.NewObjectID())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildRejectsMissingTour(t *testing.T) {
	_, _, svc := newReviewFixture()

	_, err := svc.Build(context.Background(), &request.CreateReviewRequest{
		Review: "Lovely",
		Rating: 5,
	}, primitive.NewObjectID().Hex(), primitive.NewObjectID())
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %T, want AppError", err)
	}
	if appErr.Status != 404 {
		t.Errorf("status = %d, want 404", appErr.Status)
	}
	if appErr.Message != "No tour found with that ID" {
		t.Errorf("message = %q", appErr.Message)
	}
}
