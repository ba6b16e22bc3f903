package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
)

// tourRepository implements repository.TourRepository. Secret tours are
// outside the read scope and only reachable through UpdateRatingStats.
type tourRepository struct {
	*baseRepository[entity.Tour]
	reviews *mongo.Collection
}

// NewTourRepository creates a MongoDB tour repository.
func NewTourRepository(db *mongo.Database) repository.TourRepository {
	return &tourRepository{
		baseRepository: newBaseRepository[entity.Tour](db, bson.M{"secretTour": bson.M{"$ne": true}}),
		reviews:        db.Collection(entity.Review{}.CollectionName()),
	}
}

func (r *tourRepository) FindByIDWithReviews(ctx context.Context, id primitive.ObjectID) (*entity.Tour, []*entity.Review, error) {
	tour, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	cursor, err := r.reviews.Find(ctx, bson.M{"tour": id})
	if err != nil {
		return nil, nil, err
	}
	defer cursor.Close(ctx)

	reviews := []*entity.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, nil, err
	}
	return tour, reviews, nil
}

func (r *tourRepository) UpdateRatingStats(ctx context.Context, id primitive.ObjectID, stats entity.RatingStats) error {
	update := bson.M{"$set": bson.M{
		"ratingsQuantity": stats.Quantity,
		"ratingsAverage":  stats.Average,
		"updatedAt":       r.now(),
	}}
	// Unscoped on purpose: a tour flipped secret keeps correct stats.
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *tourRepository) Stats(ctx context.Context) ([]repository.DifficultyStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ratingsAverage": bson.M{"$gte": 4.5}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}

	stats := []repository.DifficultyStats{}
	if err := r.aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *tourRepository) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthlyPlanEntry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{
			"startDates": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
		{{Key: "$limit", Value: 12}},
	}

	plan := []repository.MonthlyPlanEntry{}
	if err := r.aggregate(ctx, pipeline, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *tourRepository) Within(ctx context.Context, center repository.GeoPoint, radiusRadians float64) ([]*entity.Tour, error) {
	filter := bson.M{"startLocation": bson.M{
		"$geoWithin": bson.M{
			"$centerSphere": bson.A{bson.A{center.Lng, center.Lat}, radiusRadians},
		},
	}}
	return r.Find(ctx, filter, options.Find())
}

func (r *tourRepository) Distances(ctx context.Context, center repository.GeoPoint, multiplier float64) ([]repository.TourDistance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{center.Lng, center.Lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
		}}},
		{{Key: "$project", Value: bson.M{"distance": 1, "name": 1}}},
	}

	distances := []repository.TourDistance{}
	if err := r.aggregate(ctx, pipeline, &distances); err != nil {
		return nil, err
	}
	return distances, nil
}

func (r *tourRepository) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results any) error {
	return r.aggregate(ctx, pipeline, results)
}

func (r *tourRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}},
		{Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}}},
	})
	return err
}
