package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is implemented by every persisted entity. The repository layer
// uses it to resolve the collection, assign generated IDs, and maintain the
// createdAt/updatedAt timestamps at the write boundary.
type Document interface {
	CollectionName() string
	SetID(id primitive.ObjectID)
	Stamp(now time.Time)
}

func (t *Tour) SetID(id primitive.ObjectID) { t.ID = id }

func (t *Tour) Stamp(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

func (u *User) SetID(id primitive.ObjectID) { u.ID = id }

func (u *User) Stamp(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

func (r *Review) SetID(id primitive.ObjectID) { r.ID = id }

func (r *Review) Stamp(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

func (b *Booking) SetID(id primitive.ObjectID) { b.ID = id }

func (b *Booking) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
