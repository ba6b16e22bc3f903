package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	"github.com/trailbound/trailbound-go/internal/dto/response"
	"github.com/trailbound/trailbound-go/internal/middleware"
	"github.com/trailbound/trailbound-go/internal/payment"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// BookingController handles checkout sessions, the payment webhook and the
// admin booking CRUD.
type BookingController struct {
	crud     *CRUD[entity.Booking]
	svc      service.BookingService
	verifier *payment.WebhookVerifier
	auth     *middleware.AuthMiddleware
}

// NewBookingController creates a new BookingController instance.
func NewBookingController(
	bookings repository.BookingRepository,
	svc service.BookingService,
	verifier *payment.WebhookVerifier,
	auth *middleware.AuthMiddleware,
) *BookingController {
	return &BookingController{
		crud:     NewCRUD[entity.Booking](bookings),
		svc:      svc,
		verifier: verifier,
		auth:     auth,
	}
}

// RegisterRoutes registers the booking routes. The webhook is the one
// unauthenticated endpoint; the provider signs it instead.
func (c *BookingController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/bookings/webhook-checkout", c.Webhook)

	bookings := router.Group("/bookings")
	bookings.Use(c.auth.Authenticate())
	{
		bookings.GET("/checkout-session/:id", c.CheckoutSession)
		bookings.GET("/my-bookings", c.MyBookings)

		staff := bookings.Group("", c.auth.RequireRole(entity.RoleAdmin, entity.RoleLeadGuide))
		{
			staff.GET("", c.crud.GetAll(nil))
			staff.POST("", c.Create)
			staff.GET("/:id", c.crud.GetOne())
			staff.PATCH("/:id", c.Update)
			staff.DELETE("/:id", c.crud.DeleteOne(nil))
		}
	}
}

// CheckoutSession starts payment for the tour in the URL.
func (c *BookingController) CheckoutSession(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	session, err := c.svc.CreateCheckoutSession(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.OK(gin.H{"session": session}))
}

// Webhook records a booking for a completed checkout after verifying the
// provider signature over the raw payload.
func (c *BookingController) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		middleware.Abort(ctx, apperrors.ErrBadRequest.WithError(err))
		return
	}

	event, err := c.verifier.ParseEvent(payload, ctx.GetHeader(payment.SignatureHeader))
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	if !event.Completed() {
		ctx.JSON(http.StatusOK, response.OK(gin.H{"received": true}))
		return
	}

	if _, err := c.svc.ConfirmCheckout(ctx.Request.Context(), event.ClientReference, event.Amount()); err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.OK(gin.H{"received": true}))
}

// MyBookings lists the caller's bookings.
func (c *BookingController) MyBookings(ctx *gin.Context) {
	bookings, err := c.svc.MyBookings(ctx.Request.Context(), middleware.CurrentUser(ctx).ID)
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.List(bookings))
}

// Create inserts a booking directly.
func (c *BookingController) Create(ctx *gin.Context) {
	c.crud.CreateOne(func(ctx *gin.Context) (*entity.Booking, error) {
		var req request.CreateBookingRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		tourID, err := primitive.ObjectIDFromHex(req.Tour)
		if err != nil {
			return nil, apperrors.InvalidField("tour", req.Tour)
		}
		userID, err := primitive.ObjectIDFromHex(req.User)
		if err != nil {
			return nil, apperrors.InvalidField("user", req.User)
		}
		paid := true
		if req.Paid != nil {
			paid = *req.Paid
		}
		return &entity.Booking{Tour: tourID, User: userID, Price: req.Price, Paid: paid}, nil
	}, nil)(ctx)
}

// Update patches a booking.
func (c *BookingController) Update(ctx *gin.Context) {
	c.crud.UpdateOne(func(ctx *gin.Context) (bson.M, error) {
		var req request.UpdateBookingRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return req.Patch(), nil
	}, nil)(ctx)
}
