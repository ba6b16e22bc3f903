package request

import "go.mongodb.org/mongo-driver/bson"

// CreateBookingRequest creates a booking directly, for the admin CRUD
// surface. Checkout-driven bookings come in through the payment webhook.
type CreateBookingRequest struct {
	Tour  string  `json:"tour" binding:"required,hexadecimal,len=24"`
	User  string  `json:"user" binding:"required,hexadecimal,len=24"`
	Price float64 `json:"price" binding:"required,gt=0"`
	Paid  *bool   `json:"paid"`
}

// UpdateBookingRequest patches a booking's price or paid flag.
type UpdateBookingRequest struct {
	Price *float64 `json:"price" binding:"omitempty,gt=0"`
	Paid  *bool    `json:"paid"`
}

// Patch builds the $set document from the present fields.
func (r *UpdateBookingRequest) Patch() bson.M {
	patch := bson.M{}
	if r.Price != nil {
		patch["price"] = *r.Price
	}
	if r.Paid != nil {
		patch["paid"] = *r.Paid
	}
	return patch
}
