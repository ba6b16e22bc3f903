package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
)

// reviewRepository implements repository.ReviewRepository.
type reviewRepository struct {
	*baseRepository[entity.Review]
}

// NewReviewRepository creates a MongoDB review repository.
func NewReviewRepository(db *mongo.Database) repository.ReviewRepository {
	return &reviewRepository{
		baseRepository: newBaseRepository[entity.Review](db, nil),
	}
}

func (r *reviewRepository) RatingStats(ctx context.Context, tourID primitive.ObjectID) (entity.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$tour",
			"numOfRating": bson.M{"$sum": 1},
			"avgRating":   bson.M{"$avg": "$rating"},
		}}},
	}

	stats := []entity.RatingStats{}
	if err := r.aggregate(ctx, pipeline, &stats); err != nil {
		return entity.RatingStats{}, err
	}
	if len(stats) == 0 {
		// No reviews left for this tour.
		return entity.RatingStats{}, nil
	}
	return stats[0], nil
}

func (r *reviewRepository) EnsureIndexes(ctx context.Context) error {
	// One review per user per tour; concurrent duplicates fail at insert.
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
