package di

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/domain/repository"
	repomongo "github.com/trailbound/trailbound-go/internal/domain/repository/mongo"
)

// RepositoryModule provides repository dependencies and creates the
// MongoDB indexes at startup.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		repomongo.NewTourRepository,
		repomongo.NewUserRepository,
		repomongo.NewReviewRepository,
		repomongo.NewBookingRepository,
	),
	fx.Invoke(ensureIndexes),
)

func ensureIndexes(
	tours repository.TourRepository,
	users repository.UserRepository,
	reviews repository.ReviewRepository,
	bookings repository.BookingRepository,
	logger *zap.Logger,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, repo := range []any{tours, users, reviews, bookings} {
		if ensurer, ok := repo.(repository.IndexEnsurer); ok {
			if err := ensurer.EnsureIndexes(ctx); err != nil {
				return err
			}
		}
	}

	logger.Info("MongoDB indexes ensured")
	return nil
}
