// Package mocks provides in-memory repository implementations for tests.
// They honor the same read scopes and not-found semantics as the MongoDB
// repositories, and expose error fields for failure injection.
package mocks

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// GeoCall records one geospatial query on the tour mock. Scale is the
// radius for Within and the distance multiplier for Distances.
type GeoCall struct {
	Center repository.GeoPoint
	Scale  float64
}

// RatingUpdate records one UpdateRatingStats call on the tour mock.
type RatingUpdate struct {
	ID    primitive.ObjectID
	Stats entity.RatingStats
}

// MockTourRepository is an in-memory TourRepository.
type MockTourRepository struct {
	mu    sync.RWMutex
	tours map[primitive.ObjectID]*entity.Tour

	// Recorded side effects
	RatingUpdates []RatingUpdate
	Patches       map[primitive.ObjectID]bson.M
	WithinCalls   []GeoCall
	DistanceCalls []GeoCall

	// Canned aggregation results
	StatsResult     []repository.DifficultyStats
	PlanResult      []repository.MonthlyPlanEntry
	DistancesResult []repository.TourDistance

	// Error injection
	FindErr              error
	FindByIDErr          error
	CreateErr            error
	UpdateErr            error
	DeleteErr            error
	UpdateRatingStatsErr error
	AggregateErr         error
}

var _ repository.TourRepository = (*MockTourRepository)(nil)

func NewMockTourRepository() *MockTourRepository {
	return &MockTourRepository{
		tours:   make(map[primitive.ObjectID]*entity.Tour),
		Patches: make(map[primitive.ObjectID]bson.M),
	}
}

// Seed inserts a tour directly, bypassing scope and error injection.
func (r *MockTourRepository) Seed(tour *entity.Tour) *entity.Tour {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tour.ID.IsZero() {
		tour.ID = primitive.NewObjectID()
	}
	r.tours[tour.ID] = tour
	return tour
}

func (r *MockTourRepository) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.Tour, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.Tour{}
	for _, t := range r.tours {
		if t.SecretTour {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return window(out, opts), nil
}

// window applies skip and limit so paginating callers see finite pages.
func window[T any](items []T, opts *options.FindOptions) []T {
	if opts == nil {
		return items
	}
	if opts.Skip != nil {
		if skip := int(*opts.Skip); skip < len(items) {
			items = items[skip:]
		} else {
			items = nil
		}
	}
	if opts.Limit != nil && int64(len(items)) > *opts.Limit {
		items = items[:*opts.Limit]
	}
	return items
}

func (r *MockTourRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Tour, error) {
	if r.FindByIDErr != nil {
		return nil, r.FindByIDErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tours[id]; ok && !t.SecretTour {
		return t, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *MockTourRepository) Create(ctx context.Context, tour *entity.Tour) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tour.ID = primitive.NewObjectID()
	r.tours[tour.ID] = tour
	return nil
}

func (r *MockTourRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*entity.Tour, error) {
	if r.UpdateErr != nil {
		return nil, r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tours[id]
	if !ok || t.SecretTour {
		return nil, apperrors.ErrNotFound
	}
	r.Patches[id] = patch
	if v, ok := patch["price"].(float64); ok {
		t.Price = v
	}
	if v, ok := patch["name"].(string); ok {
		t.Name = v
	}
	t.Revision++
	return t, nil
}

func (r *MockTourRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*entity.Tour, error) {
	if r.DeleteErr != nil {
		return nil, r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tours[id]
	if !ok || t.SecretTour {
		return nil, apperrors.ErrNotFound
	}
	delete(r.tours, id)
	return t, nil
}

func (r *MockTourRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tours)), nil
}

func (r *MockTourRepository) Scope() bson.M {
	return bson.M{"secretTour": bson.M{"$ne": true}}
}

func (r *MockTourRepository) FindByIDWithReviews(ctx context.Context, id primitive.ObjectID) (*entity.Tour, []*entity.Review, error) {
	tour, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return tour, []*entity.Review{}, nil
}

func (r *MockTourRepository) UpdateRatingStats(ctx context.Context, id primitive.ObjectID, stats entity.RatingStats) error {
	if r.UpdateRatingStatsErr != nil {
		return r.UpdateRatingStatsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RatingUpdates = append(r.RatingUpdates, RatingUpdate{ID: id, Stats: stats})
	if t, ok := r.tours[id]; ok {
		t.RatingsQuantity = stats.Quantity
		t.RatingsAverage = stats.Average
	}
	return nil
}

func (r *MockTourRepository) Stats(ctx context.Context) ([]repository.DifficultyStats, error) {
	if r.AggregateErr != nil {
		return nil, r.AggregateErr
	}
	return r.StatsResult, nil
}

func (r *MockTourRepository) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthlyPlanEntry, error) {
	if r.AggregateErr != nil {
		return nil, r.AggregateErr
	}
	return r.PlanResult, nil
}

func (r *MockTourRepository) Within(ctx context.Context, center repository.GeoPoint, radiusRadians float64) ([]*entity.Tour, error) {
	r.mu.Lock()
	r.WithinCalls = append(r.WithinCalls, GeoCall{Center: center, Scale: radiusRadians})
	r.mu.Unlock()
	return r.Find(ctx, bson.M{}, nil)
}

func (r *MockTourRepository) Distances(ctx context.Context, center repository.GeoPoint, multiplier float64) ([]repository.TourDistance, error) {
	if r.AggregateErr != nil {
		return nil, r.AggregateErr
	}
	r.mu.Lock()
	r.DistanceCalls = append(r.DistanceCalls, GeoCall{Center: center, Scale: multiplier})
	r.mu.Unlock()
	return r.DistancesResult, nil
}

func (r *MockTourRepository) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results any) error {
	return r.AggregateErr
}

// MockUserRepository is an in-memory UserRepository. Deactivated users are
// invisible to every lookup, matching the MongoDB scope.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*entity.User

	Patches map[primitive.ObjectID]bson.M

	FindErr     error
	FindByIDErr error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[primitive.ObjectID]*entity.User),
		Patches: make(map[primitive.ObjectID]bson.M),
	}
}

// Seed inserts a user directly, bypassing scope and error injection.
func (r *MockUserRepository) Seed(user *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *MockUserRepository) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.User, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.User{}
	for _, u := range r.users {
		if !u.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	if r.FindByIDErr != nil {
		return nil, r.FindByIDErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok && u.IsActive {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return nil
}

func (r *MockUserRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*entity.User, error) {
	if r.UpdateErr != nil {
		return nil, r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || !u.IsActive {
		return nil, apperrors.ErrNotFound
	}
	r.Patches[id] = patch
	applyUserPatch(u, patch)
	u.Revision++
	return u, nil
}

func (r *MockUserRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	if r.DeleteErr != nil {
		return nil, r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || !u.IsActive {
		return nil, apperrors.ErrNotFound
	}
	delete(r.users, id)
	return u, nil
}

func (r *MockUserRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *MockUserRepository) Scope() bson.M {
	return bson.M{"isActive": bson.M{"$ne": false}}
}

func (r *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *MockUserRepository) FindByResetToken(ctx context.Context, digest string) (*entity.User, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.PasswordResetToken == digest && u.IsActive {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func applyUserPatch(u *entity.User, patch bson.M) {
	if v, ok := patch["name"].(string); ok {
		u.Name = v
	}
	if v, ok := patch["email"].(string); ok {
		u.Email = v
	}
	if v, ok := patch["photo"].(string); ok {
		u.Photo = v
	}
	if v, ok := patch["role"].(string); ok {
		u.Role = entity.UserRole(v)
	}
	if v, ok := patch["isActive"].(bool); ok {
		u.IsActive = v
	}
}

// MockReviewRepository is an in-memory ReviewRepository. RatingStats is
// computed from the stored reviews, mirroring the aggregation pipeline.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[primitive.ObjectID]*entity.Review

	FindErr        error
	FindByIDErr    error
	CreateErr      error
	UpdateErr      error
	DeleteErr      error
	RatingStatsErr error
}

var _ repository.ReviewRepository = (*MockReviewRepository)(nil)

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[primitive.ObjectID]*entity.Review),
	}
}

// Seed inserts a review directly.
func (r *MockReviewRepository) Seed(review *entity.Review) *entity.Review {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	r.reviews[review.ID] = review
	return review
}

func (r *MockReviewRepository) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.Review, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tourID, filterByTour := filter["tour"].(primitive.ObjectID)
	out := []*entity.Review{}
	for _, rev := range r.reviews {
		if filterByTour && rev.Tour != tourID {
			continue
		}
		out = append(out, rev)
	}
	return out, nil
}

func (r *MockReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Review, error) {
	if r.FindByIDErr != nil {
		return nil, r.FindByIDErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rev, ok := r.reviews[id]; ok {
		return rev, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = primitive.NewObjectID()
	r.reviews[review.ID] = review
	return nil
}

func (r *MockReviewRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*entity.Review, error) {
	if r.UpdateErr != nil {
		return nil, r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if v, ok := patch["rating"].(float64); ok {
		rev.Rating = v
	}
	if v, ok := patch["review"].(string); ok {
		rev.Review = v
	}
	rev.Revision++
	return rev, nil
}

func (r *MockReviewRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*entity.Review, error) {
	if r.DeleteErr != nil {
		return nil, r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(r.reviews, id)
	return rev, nil
}

func (r *MockReviewRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.reviews)), nil
}

func (r *MockReviewRepository) Scope() bson.M {
	return bson.M{}
}

func (r *MockReviewRepository) RatingStats(ctx context.Context, tourID primitive.ObjectID) (entity.RatingStats, error) {
	if r.RatingStatsErr != nil {
		return entity.RatingStats{}, r.RatingStatsErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	var count int64
	for _, rev := range r.reviews {
		if rev.Tour == tourID {
			sum += rev.Rating
			count++
		}
	}
	if count == 0 {
		return entity.RatingStats{}, nil
	}
	return entity.RatingStats{Quantity: count, Average: sum / float64(count)}, nil
}

// MockBookingRepository is an in-memory BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[primitive.ObjectID]*entity.Booking

	FindErr     error
	FindByIDErr error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
}

var _ repository.BookingRepository = (*MockBookingRepository)(nil)

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[primitive.ObjectID]*entity.Booking),
	}
}

// Seed inserts a booking directly.
func (r *MockBookingRepository) Seed(booking *entity.Booking) *entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	r.bookings[booking.ID] = booking
	return booking
}

func (r *MockBookingRepository) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.Booking, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.Booking{}
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (r *MockBookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Booking, error) {
	if r.FindByIDErr != nil {
		return nil, r.FindByIDErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.bookings[id]; ok {
		return b, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = primitive.NewObjectID()
	r.bookings[booking.ID] = booking
	return nil
}

func (r *MockBookingRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*entity.Booking, error) {
	if r.UpdateErr != nil {
		return nil, r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if v, ok := patch["price"].(float64); ok {
		b.Price = v
	}
	if v, ok := patch["paid"].(bool); ok {
		b.Paid = v
	}
	b.Revision++
	return b, nil
}

func (r *MockBookingRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*entity.Booking, error) {
	if r.DeleteErr != nil {
		return nil, r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(r.bookings, id)
	return b, nil
}

func (r *MockBookingRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.bookings)), nil
}

func (r *MockBookingRepository) Scope() bson.M {
	return bson.M{}
}

func (r *MockBookingRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*entity.Booking, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.Booking{}
	for _, b := range r.bookings {
		if b.User == userID {
			out = append(out, b)
		}
	}
	return out, nil
}
