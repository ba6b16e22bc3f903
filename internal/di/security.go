package di

import (
	"go.uber.org/fx"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/payment"
	"github.com/trailbound/trailbound-go/internal/security"
)

// SecurityModule provides security-related dependencies
var SecurityModule = fx.Module("security",
	fx.Provide(
		security.NewJWTProvider,
		security.NewPasswordHasher,
		provideWebhookVerifier,
	),
)

func provideWebhookVerifier(cfg *config.PaymentConfig) *payment.WebhookVerifier {
	return payment.NewWebhookVerifier(cfg.WebhookSecret)
}
