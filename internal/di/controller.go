package di

import (
	"go.uber.org/fx"

	"github.com/trailbound/trailbound-go/internal/config"
	httpctrl "github.com/trailbound/trailbound-go/internal/controller/http"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/middleware"
	"github.com/trailbound/trailbound-go/internal/security"
)

// ControllerModule provides HTTP controller dependencies
var ControllerModule = fx.Module("controller",
	fx.Provide(
		provideAuthController,
		httpctrl.NewUserController,
		httpctrl.NewTourController,
		httpctrl.NewReviewController,
		httpctrl.NewBookingController,
	),
)

func provideAuthController(
	svc service.AuthService,
	jwt *security.JWTProvider,
	auth *middleware.AuthMiddleware,
	jwtCfg *config.JWTConfig,
	appCfg *config.AppConfig,
) *httpctrl.AuthController {
	return httpctrl.NewAuthController(svc, jwt, auth, jwtCfg.CookieName, appCfg.IsProduction())
}
