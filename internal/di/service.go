package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/domain/service/impl"
	"github.com/trailbound/trailbound-go/internal/mailer"
	"github.com/trailbound/trailbound-go/internal/media"
	"github.com/trailbound/trailbound-go/internal/payment"
	"github.com/trailbound/trailbound-go/internal/security"
)

// ServiceModule provides domain service dependencies together with their
// mail, payment, and image processing collaborators.
var ServiceModule = fx.Module("service",
	fx.Provide(
		provideMailer,
		providePaymentGateway,
		media.NewProcessor,
		provideAuthService,
		impl.NewUserService,
		impl.NewTourService,
		impl.NewReviewService,
		provideBookingService,
	),
)

func provideMailer(cfg *config.EmailConfig) service.Mailer {
	return mailer.NewSMTPMailer(cfg)
}

func providePaymentGateway(cfg *config.PaymentConfig) service.PaymentGateway {
	return payment.NewClient(cfg)
}

func provideAuthService(
	users repository.UserRepository,
	jwt *security.JWTProvider,
	hasher *security.PasswordHasher,
	mail service.Mailer,
	logger *zap.Logger,
	appCfg *config.AppConfig,
) service.AuthService {
	return impl.NewAuthService(users, jwt, hasher, mail, logger, appCfg.BaseURL)
}

func provideBookingService(
	bookings repository.BookingRepository,
	tours repository.TourRepository,
	gateway service.PaymentGateway,
	appCfg *config.AppConfig,
) service.BookingService {
	return impl.NewBookingService(bookings, tours, gateway, appCfg.BaseURL)
}
