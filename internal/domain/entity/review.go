package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review represents a user's review of a tour. A (tour, user) pair is unique;
// the constraint lives in a compound index, not in application checks, so a
// concurrent duplicate surfaces as a duplicate-key error at insert time.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review    string             `bson:"review" json:"review"`
	Rating    float64            `bson:"rating" json:"rating"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"-"`
	Revision  int64              `bson:"revision" json:"-"`
}

// CollectionName returns the MongoDB collection for reviews.
func (Review) CollectionName() string {
	return "reviews"
}

// RatingStats is the recomputed aggregate for one tour's reviews.
type RatingStats struct {
	Quantity int64   `bson:"numOfRating"`
	Average  float64 `bson:"avgRating"`
}
