package di

import (
	"go.uber.org/fx"

	"github.com/trailbound/trailbound-go/internal/config"
)

// ConfigModule provides configuration dependencies
var ConfigModule = fx.Module("config",
	fx.Provide(
		config.Load,
		provideAppConfig,
		provideServerConfig,
		provideDatabaseConfig,
		provideRedisConfig,
		provideJWTConfig,
		provideEmailConfig,
		providePaymentConfig,
		provideUploadsConfig,
		provideRateLimitConfig,
		provideMetricsConfig,
		provideJobsConfig,
	),
)

func provideAppConfig(cfg *config.Config) *config.AppConfig {
	return &cfg.App
}

func provideServerConfig(cfg *config.Config) *config.ServerConfig {
	return &cfg.Server
}

func provideDatabaseConfig(cfg *config.Config) *config.DatabaseConfig {
	return &cfg.Database
}

func provideRedisConfig(cfg *config.Config) *config.RedisConfig {
	return &cfg.Redis
}

func provideJWTConfig(cfg *config.Config) *config.JWTConfig {
	return &cfg.JWT
}

func provideEmailConfig(cfg *config.Config) *config.EmailConfig {
	return &cfg.Email
}

func providePaymentConfig(cfg *config.Config) *config.PaymentConfig {
	return &cfg.Payment
}

func provideUploadsConfig(cfg *config.Config) *config.UploadsConfig {
	return &cfg.Uploads
}

func provideRateLimitConfig(cfg *config.Config) *config.RateLimitConfig {
	return &cfg.RateLimit
}

func provideMetricsConfig(cfg *config.Config) *config.MetricsConfig {
	return &cfg.Metrics
}

func provideJobsConfig(cfg *config.Config) *config.JobsConfig {
	return &cfg.Jobs
}
