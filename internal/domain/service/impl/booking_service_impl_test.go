package impl

import (
	"context"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/testutil/mocks"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

func newBookingFixture() (*mocks.MockBookingRepository, *mocks.MockTourRepository, *mocks.MockPaymentGateway, *bookingService) {
	bookings := mocks.NewMockBookingRepository()
	tours := mocks.NewMockTourRepository()
	gateway := mocks.NewMockPaymentGateway()
	svc := NewBookingService(bookings, tours, gateway, testBaseURL).(*bookingService)
	return bookings, tours, gateway, svc
}

func TestCreateCheckoutSessionSnapshotsPrice(t *testing.T) {
	_, tours, gateway, svc := newBookingFixture()
	tour := tours.Seed(&entity.Tour{Name: "The Sea Explorer", Slug: "the-sea-explorer", Price: 497})
	user := &entity.User{ID: primitive.NewObjectID(), Email: "ada@example.com"}

	session, err := svc.CreateCheckoutSession(context.Background(), user, tour.ID)
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.Amount != 497 {
		t.Errorf("amount = %v, want 497", session.Amount)
	}

	if len(gateway.Requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(gateway.Requests))
	}
	params := gateway.Requests[0]
	if params.CustomerEmail != user.Email {
		t.Errorf("email = %s", params.CustomerEmail)
	}
	wantRef := fmt.Sprintf("%s:%s", tour.ID.Hex(), user.ID.Hex())
	if params.ClientReference != wantRef {
		t.Errorf("reference = %s, want %s", params.ClientReference, wantRef)
	}
}

func TestCreateCheckoutSessionUnknownTour(t *testing.T) {
	_, _, _, svc := newBookingFixture()
	user := &entity.User{ID: primitive.NewObjectID()}

	_, err := svc.CreateCheckoutSession(context.Background(), user, primitive.NewObjectID())
	if apperrors.Classify(err).Status != 404 {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestConfirmCheckout(t *testing.T) {
	bookings, _, _, svc := newBookingFixture()
	tourID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	booking, err := svc.ConfirmCheckout(context.Background(),
		fmt.Sprintf("%s:%s", tourID.Hex(), userID.Hex()), 497)
	if err != nil {
		t.Fatalf("ConfirmCheckout: %v", err)
	}
	if booking.Tour != tourID || booking.User != userID {
		t.Errorf("booking = %+v", booking)
	}
	if !booking.Paid || booking.Price != 497 {
		t.Errorf("paid = %v price = %v", booking.Paid, booking.Price)
	}

	stored, err := bookings.FindByUser(context.Background(), userID)
	if err != nil || len(stored) != 1 {
		t.Errorf("stored = %v (%v), want 1", stored, err)
	}
}

func TestConfirmCheckoutBadReference(t *testing.T) {
	_, _, _, svc := newBookingFixture()

	for _, ref := range []string{"", "no-separator", "abc:def", primitive.NewObjectID().Hex() + ":bad"} {
		_, err := svc.ConfirmCheckout(context.Background(), ref, 100)
		if err == nil {
			t.Errorf("reference %q: expected error", ref)
		}
	}
}

func TestMyBookings(t *testing.T) {
	bookings, _, _, svc := newBookingFixture()
	userID := primitive.NewObjectID()
	bookings.Seed(&entity.Booking{User: userID, Tour: primitive.NewObjectID(), Price: 100})
	bookings.Seed(&entity.Booking{User: primitive.NewObjectID(), Tour: primitive.NewObjectID(), Price: 200})

	mine, err := svc.MyBookings(context.Background(), userID)
	if err != nil {
		t.Fatalf("MyBookings: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("bookings = %d, want 1", len(mine))
	}
}
