package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/service/impl"
	"github.com/trailbound/trailbound-go/internal/dto/response"
	"github.com/trailbound/trailbound-go/internal/media"
	"github.com/trailbound/trailbound-go/internal/middleware"
	"github.com/trailbound/trailbound-go/internal/payment"
	"github.com/trailbound/trailbound-go/internal/security"
	"github.com/trailbound/trailbound-go/internal/testutil/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const webhookTestSecret = "whsec_test"

// api bundles a fully wired router over in-memory stores.
type api struct {
	router   *gin.Engine
	tours    *mocks.MockTourRepository
	users    *mocks.MockUserRepository
	reviews  *mocks.MockReviewRepository
	bookings *mocks.MockBookingRepository
	mailer   *mocks.MockMailer
	gateway  *mocks.MockPaymentGateway
	jwt      *security.JWTProvider
	verifier *payment.WebhookVerifier
}

func newTestAPI(t *testing.T) *api {
	t.Helper()

	a := &api{
		tours:    mocks.NewMockTourRepository(),
		users:    mocks.NewMockUserRepository(),
		reviews:  mocks.NewMockReviewRepository(),
		bookings: mocks.NewMockBookingRepository(),
		mailer:   mocks.NewMockMailer(),
		gateway:  mocks.NewMockPaymentGateway(),
		verifier: payment.NewWebhookVerifier(webhookTestSecret),
	}
	a.jwt = security.NewJWTProvider(&config.JWTConfig{
		Secret:              "test-secret-key-for-testing-purposes-only",
		AccessTokenDuration: 15 * time.Minute,
		Issuer:              "test",
	})

	logger := zap.NewNop()
	hasher := security.NewPasswordHasher()
	auth := middleware.NewAuthMiddleware(a.jwt, a.users, "jwt")
	processor := media.NewProcessor(&config.UploadsConfig{Dir: t.TempDir(), MaxSizeBytes: 10 << 20})

	const baseURL = "http://localhost:8080"
	authSvc := impl.NewAuthService(a.users, a.jwt, hasher, a.mailer, logger, baseURL)
	userSvc := impl.NewUserService(a.users)
	tourSvc := impl.NewTourService(a.tours)
	reviewSvc := impl.NewReviewService(a.reviews, a.tours, logger)
	bookingSvc := impl.NewBookingService(a.bookings, a.tours, a.gateway, baseURL)

	a.router = gin.New()
	a.router.Use(middleware.ErrorHandler(logger, false))
	group := a.router.Group("/api/v1")
	NewAuthController(authSvc, a.jwt, auth, "jwt", false).RegisterRoutes(group)
	NewUserController(a.users, userSvc, processor, auth).RegisterRoutes(group)
	NewTourController(a.tours, tourSvc, processor, auth).RegisterRoutes(group)
	NewReviewController(a.reviews, reviewSvc, auth).RegisterRoutes(group)
	NewBookingController(a.bookings, bookingSvc, a.verifier, auth).RegisterRoutes(group)
	return a
}

// tokenFor seeds an active user with the given role and returns a valid
// bearer token for it.
func (a *api) tokenFor(t *testing.T, role entity.UserRole) (*entity.User, string) {
	t.Helper()
	user := a.users.Seed(&entity.User{
		Name:     "Test " + string(role),
		Email:    string(role) + "@example.com",
		Role:     role,
		IsActive: true,
	})
	token, err := a.jwt.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return user, token
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) response.Failure {
	t.Helper()
	var body response.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failure: %v", err)
	}
	return body
}

func TestGetAllTours(t *testing.T) {
	a := newTestAPI(t)
	a.tours.Seed(&entity.Tour{Name: "The Forest Hiker", Price: 397})
	a.tours.Seed(&entity.Tour{Name: "The Sea Explorer", Price: 497})

	rec := a.do(http.MethodGet, "/api/v1/tours", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Status  string        `json:"status"`
		Results int           `json:"results"`
		Data    []entity.Tour `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "success" || body.Results != 2 || len(body.Data) != 2 {
		t.Errorf("body = %+v", body)
	}
}

func TestGetAllToursHidesSecretTours(t *testing.T) {
	a := newTestAPI(t)
	a.tours.Seed(&entity.Tour{Name: "The Forest Hiker"})
	a.tours.Seed(&entity.Tour{Name: "Hidden Gem", SecretTour: true})

	rec := a.do(http.MethodGet, "/api/v1/tours", "", nil)

	var body struct {
		Results int `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Results != 1 {
		t.Errorf("results = %d, want 1", body.Results)
	}
}

func TestGetTourInvalidID(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/tours/not-an-id", "", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeFailure(t, rec)
	if body.Status != "fail" || body.Message != "Invalid _id: not-an-id" {
		t.Errorf("body = %+v", body)
	}
}

func TestGetTourNotFound(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/tours/"+primitive.NewObjectID().Hex(), "", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeFailure(t, rec).Message; got != "No document found with that ID" {
		t.Errorf("message = %q", got)
	}
}

func TestCreateTourRequiresStaffRole(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.tokenFor(t, entity.RoleUser)

	rec := a.do(http.MethodPost, "/api/v1/tours", token, gin.H{
		"name": "The Brand New Tour", "duration": 5, "maxGroupSize": 10,
		"difficulty": "easy", "price": 397, "summary": "A new one",
	})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeFailure(t, rec).Message; got != "You do not have permission to perform this action" {
		t.Errorf("message = %q", got)
	}
}

func TestCreateTourAsAdmin(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.tokenFor(t, entity.RoleAdmin)

	rec := a.do(http.MethodPost, "/api/v1/tours", token, gin.H{
		"name": "The Snow Adventurer", "duration": 4, "maxGroupSize": 10,
		"difficulty": "difficult", "price": 997, "summary": "Cold but fun",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data entity.Tour `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Slug != "the-snow-adventurer" {
		t.Errorf("slug = %q", body.Data.Slug)
	}
	if body.Data.ID.IsZero() {
		t.Error("created tour has no id")
	}
}

func TestCreateTourRejectsShortName(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.tokenFor(t, entity.RoleAdmin)

	rec := a.do(http.MethodPost, "/api/v1/tours", token, gin.H{
		"name": "Short", "duration": 4, "maxGroupSize": 10,
		"difficulty": "easy", "price": 100, "summary": "Too short a name",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSignupIssuesTokenAndCookie(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/users/signup", "", gin.H{
		"name": "Ayla", "email": "ayla@example.com",
		"password": "pass1234", "passwordConfirm": "pass1234",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Status string `json:"status"`
		Token  string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "success" || body.Token == "" {
		t.Errorf("body = %+v", body)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != body.Token || !cookie.HttpOnly {
		t.Errorf("cookie = %+v", cookie)
	}
	if len(a.mailer.Sent) != 1 {
		t.Errorf("welcome mails = %d, want 1", len(a.mailer.Sent))
	}
}

func TestCreateReviewRecalculatesTourRating(t *testing.T) {
	a := newTestAPI(t)
	tour := a.tours.Seed(&entity.Tour{Name: "The Forest Hiker"})
	_, token := a.tokenFor(t, entity.RoleUser)

	rec := a.do(http.MethodPost, "/api/v1/tours/"+tour.ID.Hex()+"/reviews", token, gin.H{
		"review": "Loved it!", "rating": 5,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(a.tours.RatingUpdates) != 1 {
		t.Fatalf("rating updates = %d, want 1", len(a.tours.RatingUpdates))
	}
	update := a.tours.RatingUpdates[0]
	if update.ID != tour.ID || update.Stats.Quantity != 1 || update.Stats.Average != 5 {
		t.Errorf("update = %+v", update)
	}
}

func TestCreateReviewRejectsMissingTour(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.tokenFor(t, entity.RoleUser)

	rec := a.do(http.MethodPost, "/api/v1/tours/"+primitive.NewObjectID().Hex()+"/reviews", token, gin.H{
		"review": "Loved it!", "rating": 5,
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeFailure(t, rec)
	if body.Message != "No tour found with that ID" {
		t.Errorf("message = %q", body.Message)
	}
	if count, _ := a.reviews.Count(context.Background(), bson.M{}); count != 0 {
		t.Errorf("reviews persisted = %d, want 0", count)
	}
}

func TestNestedReviewListRejectsBadTourID(t *testing.T) {
	a := newTestAPI(t)
	tour := a.tours.Seed(&entity.Tour{Name: "The Forest Hiker"})
	a.reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 4})
	_, token := a.tokenFor(t, entity.RoleUser)

	rec := a.do(http.MethodGet, "/api/v1/tours/garbage/reviews", token, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeFailure(t, rec)
	if body.Message != "Invalid _id: garbage" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestDeleteReviewRecalculatesTourRating(t *testing.T) {
	a := newTestAPI(t)
	tour := a.tours.Seed(&entity.Tour{Name: "The Forest Hiker"})
	review := a.reviews.Seed(&entity.Review{Tour: tour.ID, User: primitive.NewObjectID(), Rating: 2})
	_, token := a.tokenFor(t, entity.RoleAdmin)

	rec := a.do(http.MethodDelete, "/api/v1/reviews/"+review.ID.Hex(), token, nil)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(a.tours.RatingUpdates) != 1 {
		t.Fatalf("rating updates = %d, want 1", len(a.tours.RatingUpdates))
	}
	if stats := a.tours.RatingUpdates[0].Stats; stats.Quantity != 0 || stats.Average != 0 {
		t.Errorf("stats = %+v, want zeroed", stats)
	}
}

func TestUpdateMeRejectsPasswordField(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.tokenFor(t, entity.RoleUser)

	rec := a.do(http.MethodPatch, "/api/v1/users/updateMe", token, gin.H{
		"name": "New Name", "password": "sneaky123",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	want := "This route is not for password updates. Please use /updateMyPassword."
	if got := decodeFailure(t, rec).Message; got != want {
		t.Errorf("message = %q", got)
	}
}

func TestWebhookConfirmsBooking(t *testing.T) {
	a := newTestAPI(t)
	tour := a.tours.Seed(&entity.Tour{Name: "The Forest Hiker", Price: 397})
	userID := primitive.NewObjectID()

	payload := []byte(fmt.Sprintf(
		`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1","client_reference_id":"%s:%s","amount_total":39700,"currency":"usd"}}}`,
		tour.ID.Hex(), userID.Hex()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/webhook-checkout", bytes.NewReader(payload))
	req.Header.Set(payment.SignatureHeader, a.verifier.Sign(payload))
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	bookings, err := a.bookings.FindByUser(req.Context(), userID)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("bookings = %d, want 1", len(bookings))
	}
	if bookings[0].Tour != tour.ID || !bookings[0].Paid || bookings[0].Price != 397 {
		t.Errorf("booking = %+v", bookings[0])
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	a := newTestAPI(t)
	payload := []byte(`{"type":"checkout.session.completed"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/webhook-checkout", bytes.NewReader(payload))
	req.Header.Set(payment.SignatureHeader, "bogus")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeFailure(t, rec).Message; got != "Webhook signature verification failed" {
		t.Errorf("message = %q", got)
	}
}

func TestTopCheapAliasRewritesQuery(t *testing.T) {
	a := newTestAPI(t)
	a.tours.Seed(&entity.Tour{Name: "The Forest Hiker", Price: 397})

	rec := a.do(http.MethodGet, "/api/v1/tours/top-5-cheap", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "success" {
		t.Errorf("status = %q", body.Status)
	}
}
