package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	"github.com/trailbound/trailbound-go/internal/middleware"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// ReviewController handles reviews, both standalone and nested under a
// tour. Every mutation is followed by the synchronous rating recomputation
// for the affected tour.
type ReviewController struct {
	crud *CRUD[entity.Review]
	svc  service.ReviewService
	auth *middleware.AuthMiddleware
}

// NewReviewController creates a new ReviewController instance.
func NewReviewController(
	reviews repository.ReviewRepository,
	svc service.ReviewService,
	auth *middleware.AuthMiddleware,
) *ReviewController {
	return &ReviewController{
		crud: NewCRUD[entity.Review](reviews),
		svc:  svc,
		auth: auth,
	}
}

// RegisterRoutes registers /reviews and the nested /tours/:id/reviews
// surface. All review routes require authentication.
func (c *ReviewController) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/reviews")
	reviews.Use(c.auth.Authenticate())
	{
		reviews.GET("", c.crud.GetAll(nil))
		reviews.POST("", c.auth.RequireRole(entity.RoleUser), c.Create)
		reviews.GET("/:id", c.crud.GetOne())
		reviews.PATCH("/:id",
			c.auth.RequireRole(entity.RoleUser, entity.RoleAdmin), c.Update)
		reviews.DELETE("/:id",
			c.auth.RequireRole(entity.RoleUser, entity.RoleAdmin),
			c.crud.DeleteOne(c.recalcAfter))
	}

	// Nested surface: list a tour's reviews, create one for it. The :id
	// segment is the tour here.
	nested := router.Group("/tours/:id/reviews")
	nested.Use(c.auth.Authenticate())
	{
		nested.GET("", c.crud.GetAll(tourFilter))
		nested.POST("", c.auth.RequireRole(entity.RoleUser), c.Create)
	}
}

// tourFilter pins the nested listing to the tour in the URL.
func tourFilter(ctx *gin.Context) (bson.M, error) {
	raw := ctx.Param("id")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apperrors.InvalidField("_id", raw)
	}
	return bson.M{"tour": id}, nil
}

// Create inserts a review authored by the caller.
func (c *ReviewController) Create(ctx *gin.Context) {
	c.crud.CreateOne(func(ctx *gin.Context) (*entity.Review, error) {
		var req request.CreateReviewRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		user := middleware.CurrentUser(ctx)
		return c.svc.Build(ctx.Request.Context(), &req, ctx.Param("id"), user.ID)
	}, c.recalcAfter)(ctx)
}

// Update patches a review's text or rating.
func (c *ReviewController) Update(ctx *gin.Context) {
	c.crud.UpdateOne(func(ctx *gin.Context) (bson.M, error) {
		var req request.UpdateReviewRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return req.Patch(), nil
	}, c.recalcAfter)(ctx)
}

// recalcAfter is the side-effect trigger: re-derive the tour's rating
// aggregate from whatever reviews exist after the mutation.
func (c *ReviewController) recalcAfter(ctx context.Context, review *entity.Review) error {
	return c.svc.RecalcTourRatings(ctx, review.Tour)
}
