package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
)

// CheckoutSession is what the payment provider returns for a started
// checkout.
type CheckoutSession struct {
	ID       string  `json:"id"`
	URL      string  `json:"url"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// CheckoutParams describes the session to create. ClientReference carries
// "<tourID>:<userID>" so the webhook can attribute the payment.
type CheckoutParams struct {
	TourName        string
	TourSummary     string
	Amount          float64
	CustomerEmail   string
	SuccessURL      string
	CancelURL       string
	ClientReference string
}

// PaymentGateway starts checkout sessions with the external provider. The
// HTTP implementation lives in internal/payment.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

// BookingService handles checkout-driven bookings.
type BookingService interface {
	// CreateCheckoutSession starts payment for a tour. The price is the
	// tour's price at this moment; later tour edits never change what the
	// customer was quoted.
	CreateCheckoutSession(ctx context.Context, user *entity.User, tourID primitive.ObjectID) (*CheckoutSession, error)

	// ConfirmCheckout records the paid booking referenced by a completed
	// checkout. Reference is the ClientReference from the session.
	ConfirmCheckout(ctx context.Context, reference string, amount float64) (*entity.Booking, error)

	// MyBookings lists the caller's bookings.
	MyBookings(ctx context.Context, userID primitive.ObjectID) ([]*entity.Booking, error)
}
