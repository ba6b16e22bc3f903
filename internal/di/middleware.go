package di

import (
	"go.uber.org/fx"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/middleware"
	"github.com/trailbound/trailbound-go/internal/security"
)

// MiddlewareModule provides middleware dependencies
var MiddlewareModule = fx.Module("middleware",
	fx.Provide(
		provideAuthMiddleware,
		middleware.NewRateLimiter,
	),
)

func provideAuthMiddleware(
	jwtProvider *security.JWTProvider,
	users repository.UserRepository,
	cfg *config.JWTConfig,
) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtProvider, users, cfg.CookieName)
}
