package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/config"
)

// AppModule aggregates all application modules
var AppModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RepositoryModule,
	SecurityModule,
	ServiceModule,
	MiddlewareModule,
	ControllerModule,
	JobsModule,
	HTTPServerModule,
)

// PrintBanner prints the application startup banner
func PrintBanner(cfg *config.Config, logger *zap.Logger) {
	logger.Info("Application Info",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)
}
