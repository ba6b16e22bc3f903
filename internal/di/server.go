package di

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/config"
	httpctrl "github.com/trailbound/trailbound-go/internal/controller/http"
	"github.com/trailbound/trailbound-go/internal/middleware"
	"github.com/trailbound/trailbound-go/internal/observability"
)

// HTTPServerModule provides HTTP server dependencies
var HTTPServerModule = fx.Module("http_server",
	fx.Provide(
		observability.NewMetrics,
		provideGinEngine,
		provideHTTPServer,
	),
	fx.Invoke(registerHTTPRoutes),
	fx.Invoke(startHTTPServer),
)

func provideGinEngine(
	appCfg *config.AppConfig,
	rateCfg *config.RateLimitConfig,
	metrics *observability.Metrics,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware. ErrorHandler runs outermost so every recorded
	// error, including panics, leaves through the one envelope writer.
	router.Use(middleware.ErrorHandler(logger, appCfg.IsProduction()))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(metrics.Middleware())
	if rateCfg.Enabled {
		router.Use(limiter.Limit())
	}

	return router
}

func provideHTTPServer(cfg *config.ServerConfig, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Controllers is a struct that holds all HTTP controllers for fx to inject
type Controllers struct {
	fx.In

	Auth    *httpctrl.AuthController
	User    *httpctrl.UserController
	Tour    *httpctrl.TourController
	Review  *httpctrl.ReviewController
	Booking *httpctrl.BookingController
}

func registerHTTPRoutes(
	router *gin.Engine,
	controllers Controllers,
	metrics *observability.Metrics,
	metricsCfg *config.MetricsConfig,
) {
	// Health endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metricsCfg.Enabled {
		router.GET(metricsCfg.Path, gin.WrapH(metrics.Handler()))
	}

	// API routes
	api := router.Group("/api/v1")

	controllers.Auth.RegisterRoutes(api)
	controllers.User.RegisterRoutes(api)
	controllers.Tour.RegisterRoutes(api)
	controllers.Review.RegisterRoutes(api)
	controllers.Booking.RegisterRoutes(api)
}

func startHTTPServer(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting HTTP server", zap.String("address", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}
