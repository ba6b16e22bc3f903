package impl

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

type reviewService struct {
	reviews repository.ReviewRepository
	tours   repository.TourRepository
	logger  *zap.Logger
}

// NewReviewService creates the review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	tours repository.TourRepository,
	logger *zap.Logger,
) service.ReviewService {
	return &reviewService{
		reviews: reviews,
		tours:   tours,
		logger:  logger,
	}
}

func (s *reviewService) Build(ctx context.Context, req *request.CreateReviewRequest, tourParam string, userID primitive.ObjectID) (*entity.Review, error) {
	tourHex := req.Tour
	if tourParam != "" {
		tourHex = tourParam
	}
	tourID, err := primitive.ObjectIDFromHex(tourHex)
	if err != nil {
		return nil, apperrors.InvalidField("tour", tourHex)
	}
	if _, err := s.tours.FindByID(ctx, tourID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("No tour found with that ID")
		}
		return nil, err
	}

	return &entity.Review{
		Review: req.Review,
		Rating: req.Rating,
		Tour:   tourID,
		User:   userID,
	}, nil
}

func (s *reviewService) RecalcTourRatings(ctx context.Context, tourID primitive.ObjectID) error {
	stats, err := s.reviews.RatingStats(ctx, tourID)
	if err != nil {
		return err
	}
	// Zero stats are written as-is: a tour whose last review vanished goes
	// back to an explicit 0/0, not to a stale or invented baseline.
	if err := s.tours.UpdateRatingStats(ctx, tourID, stats); err != nil {
		return err
	}
	s.logger.Debug("tour ratings recomputed",
		zap.String("tour", tourID.Hex()),
		zap.Int64("quantity", stats.Quantity),
		zap.Float64("average", stats.Average))
	return nil
}
