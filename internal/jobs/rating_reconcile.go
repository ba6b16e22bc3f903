package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/observability"
)

const (
	reconcileLockKey = "trailbound:jobs:rating-reconcile:lock"
	reconcileLockTTL = 10 * time.Minute
	reconcileBatch   = 200
	reconcileTimeout = 5 * time.Minute
)

// RatingReconciler periodically recomputes every tour's rating aggregates
// from its reviews. Review writes keep the aggregates fresh on their own;
// the job repairs drift from out-of-band edits or missed hooks.
type RatingReconciler struct {
	cron    *cron.Cron
	redis   *redis.Client
	tours   repository.TourRepository
	reviews service.ReviewService
	metrics *observability.Metrics
	logger  *zap.Logger
	cfg     *config.JobsConfig
}

func NewRatingReconciler(
	redisClient *redis.Client,
	tours repository.TourRepository,
	reviews service.ReviewService,
	metrics *observability.Metrics,
	logger *zap.Logger,
	cfg *config.JobsConfig,
) *RatingReconciler {
	return &RatingReconciler{
		cron:    cron.New(),
		redis:   redisClient,
		tours:   tours,
		reviews: reviews,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start schedules the reconcile run and launches the cron loop. It is a
// no-op when the job is disabled in config.
func (r *RatingReconciler) Start() error {
	if !r.cfg.RatingReconcileEnabled {
		r.logger.Info("Rating reconciliation disabled")
		return nil
	}

	if _, err := r.cron.AddFunc(r.cfg.RatingReconcileCron, r.run); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("Rating reconciliation scheduled",
		zap.String("cron", r.cfg.RatingReconcileCron),
	)
	return nil
}

// Stop drains the cron loop, waiting for an in-flight run to finish.
func (r *RatingReconciler) Stop(ctx context.Context) error {
	done := r.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *RatingReconciler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	if !r.acquireLock(ctx) {
		r.logger.Debug("Rating reconciliation skipped, another instance holds the lock")
		return
	}
	defer r.releaseLock()

	touched, err := r.Reconcile(ctx)
	if err != nil {
		r.logger.Error("Rating reconciliation failed", zap.Error(err))
		return
	}
	r.logger.Info("Rating reconciliation finished", zap.Int("tours", touched))
}

// Reconcile walks every visible tour and recomputes its aggregates.
// It returns the number of tours processed. The walk goes through the
// scoped listing, so secret tours are not revisited here; their aggregates
// only move on review writes, which recompute synchronously.
func (r *RatingReconciler) Reconcile(ctx context.Context) (int, error) {
	touched := 0
	for page := int64(0); ; page++ {
		opts := options.Find().
			SetSort(bson.D{{Key: "_id", Value: 1}}).
			SetSkip(page * reconcileBatch).
			SetLimit(reconcileBatch)

		tours, err := r.tours.Find(ctx, bson.M{}, opts)
		if err != nil {
			return touched, err
		}
		if len(tours) == 0 {
			return touched, nil
		}

		for i := range tours {
			if err := r.reviews.RecalcTourRatings(ctx, tours[i].ID); err != nil {
				r.logger.Warn("Rating recompute failed",
					zap.String("tour_id", tours[i].ID.Hex()),
					zap.Error(err),
				)
				continue
			}
			r.metrics.RecordRatingRecalc()
			touched++
		}
	}
}

// acquireLock takes the cross-instance run lock. A Redis outage does not
// block reconciliation, a duplicate run is harmless.
func (r *RatingReconciler) acquireLock(ctx context.Context) bool {
	ok, err := r.redis.SetNX(ctx, reconcileLockKey, time.Now().UTC().Format(time.RFC3339), reconcileLockTTL).Result()
	if err != nil {
		r.logger.Warn("Reconcile lock unavailable, running anyway", zap.Error(err))
		return true
	}
	return ok
}

func (r *RatingReconciler) releaseLock() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.redis.Del(ctx, reconcileLockKey).Err(); err != nil {
		r.logger.Warn("Reconcile lock release failed", zap.Error(err))
	}
}
