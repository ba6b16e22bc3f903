package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
)

// BookingRepository persists bookings.
type BookingRepository interface {
	Store[entity.Booking]

	// FindByUser returns every booking made by the given user.
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*entity.Booking, error)
}
