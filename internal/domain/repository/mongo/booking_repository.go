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

// bookingRepository implements repository.BookingRepository.
type bookingRepository struct {
	*baseRepository[entity.Booking]
}

// NewBookingRepository creates a MongoDB booking repository.
func NewBookingRepository(db *mongo.Database) repository.BookingRepository {
	return &bookingRepository{
		baseRepository: newBaseRepository[entity.Booking](db, nil),
	}
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*entity.Booking, error) {
	return r.Find(ctx, bson.M{"user": userID}, options.Find())
}

func (r *bookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "tour", Value: 1}}},
	})
	return err
}
