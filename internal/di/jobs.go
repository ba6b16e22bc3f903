package di

import (
	"context"

	"go.uber.org/fx"

	"github.com/trailbound/trailbound-go/internal/jobs"
)

// JobsModule provides background job dependencies
var JobsModule = fx.Module("jobs",
	fx.Provide(jobs.NewRatingReconciler),
	fx.Invoke(startRatingReconciler),
)

func startRatingReconciler(lc fx.Lifecycle, reconciler *jobs.RatingReconciler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return reconciler.Start()
		},
		OnStop: func(ctx context.Context) error {
			return reconciler.Stop(ctx)
		},
	})
}
