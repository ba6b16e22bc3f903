package impl

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

type bookingService struct {
	bookings repository.BookingRepository
	tours    repository.TourRepository
	gateway  service.PaymentGateway
	baseURL  string
}

// NewBookingService creates the booking service.
func NewBookingService(
	bookings repository.BookingRepository,
	tours repository.TourRepository,
	gateway service.PaymentGateway,
	baseURL string,
) service.BookingService {
	return &bookingService{
		bookings: bookings,
		tours:    tours,
		gateway:  gateway,
		baseURL:  baseURL,
	}
}

func (s *bookingService) CreateCheckoutSession(ctx context.Context, user *entity.User, tourID primitive.ObjectID) (*service.CheckoutSession, error) {
	tour, err := s.tours.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	return s.gateway.CreateCheckoutSession(ctx, service.CheckoutParams{
		TourName:        tour.Name,
		TourSummary:     tour.Summary,
		Amount:          tour.Price,
		CustomerEmail:   user.Email,
		SuccessURL:      s.baseURL + "/my-tours",
		CancelURL:       fmt.Sprintf("%s/tour/%s", s.baseURL, tour.Slug),
		ClientReference: fmt.Sprintf("%s:%s", tourID.Hex(), user.ID.Hex()),
	})
}

func (s *bookingService) ConfirmCheckout(ctx context.Context, reference string, amount float64) (*entity.Booking, error) {
	tourID, userID, err := parseReference(reference)
	if err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		Tour:  tourID,
		User:  userID,
		Price: amount,
		Paid:  true,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) MyBookings(ctx context.Context, userID primitive.ObjectID) ([]*entity.Booking, error) {
	return s.bookings.FindByUser(ctx, userID)
}

// parseReference splits the "<tourID>:<userID>" client reference attached
// to a checkout session.
func parseReference(reference string) (tourID, userID primitive.ObjectID, err error) {
	parts := strings.SplitN(reference, ":", 2)
	if len(parts) != 2 {
		return primitive.NilObjectID, primitive.NilObjectID,
			apperrors.InvalidField("client_reference", reference)
	}
	tourID, err = primitive.ObjectIDFromHex(parts[0])
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID,
			apperrors.InvalidField("client_reference", reference)
	}
	userID, err = primitive.ObjectIDFromHex(parts[1])
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID,
			apperrors.InvalidField("client_reference", reference)
	}
	return tourID, userID, nil
}
