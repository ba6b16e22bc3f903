package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking records a purchased tour. Price is a snapshot taken at booking
// time and is deliberately decoupled from the tour's current price.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Price     float64            `bson:"price" json:"price"`
	Paid      bool               `bson:"paid" json:"paid"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"-"`
	Revision  int64              `bson:"revision" json:"-"`
}

// CollectionName returns the MongoDB collection for bookings.
func (Booking) CollectionName() string {
	return "bookings"
}
