package http

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	"github.com/trailbound/trailbound-go/internal/dto/response"
	"github.com/trailbound/trailbound-go/internal/media"
	"github.com/trailbound/trailbound-go/internal/middleware"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// TourController handles the tour endpoints: generic CRUD, the analytics
// aggregations and the geospatial queries.
type TourController struct {
	crud  *CRUD[entity.Tour]
	tours repository.TourRepository
	svc   service.TourService
	media *media.Processor
	auth  *middleware.AuthMiddleware
}

// NewTourController creates a new TourController instance.
func NewTourController(
	tours repository.TourRepository,
	svc service.TourService,
	processor *media.Processor,
	auth *middleware.AuthMiddleware,
) *TourController {
	return &TourController{
		crud:  NewCRUD[entity.Tour](tours),
		tours: tours,
		svc:   svc,
		media: processor,
		auth:  auth,
	}
}

// RegisterRoutes registers the tour routes. Reads are public; writes are
// restricted to staff roles.
func (c *TourController) RegisterRoutes(router *gin.RouterGroup) {
	staff := []entity.UserRole{entity.RoleAdmin, entity.RoleLeadGuide}

	tours := router.Group("/tours")
	{
		tours.GET("/top-5-cheap", aliasTopCheap(), c.crud.GetAll(nil))
		tours.GET("/tour-stats", c.Stats)
		tours.GET("/monthly-plan/:year",
			c.auth.Authenticate(),
			c.auth.RequireRole(entity.RoleAdmin, entity.RoleLeadGuide, entity.RoleGuide),
			c.MonthlyPlan)
		tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", c.Within)
		tours.GET("/distances/:latlng/unit/:unit", c.Distances)

		tours.GET("", c.auth.OptionalAuth(), c.crud.GetAll(nil))
		tours.GET("/:id", c.auth.OptionalAuth(), c.GetOne)
		tours.POST("", c.auth.Authenticate(), c.auth.RequireRole(staff...), c.Create)
		tours.PATCH("/:id", c.auth.Authenticate(), c.auth.RequireRole(staff...), c.Update)
		tours.DELETE("/:id", c.auth.Authenticate(), c.auth.RequireRole(staff...), c.crud.DeleteOne(nil))
		tours.POST("/:id/images", c.auth.Authenticate(), c.auth.RequireRole(staff...), c.UploadImages)
	}
}

// aliasTopCheap rewrites the query string to the canonical "top 5 cheap"
// listing before the generic handler runs.
func aliasTopCheap() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := url.Values{}
		q.Set("limit", "5")
		q.Set("sort", "-ratingsAverage,price")
		q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
		c.Request.URL.RawQuery = q.Encode()
		c.Next()
	}
}

// GetOne returns a tour with its reviews joined in.
func (c *TourController) GetOne(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	tour, reviews, err := c.tours.FindByIDWithReviews(ctx.Request.Context(), id)
	if err != nil {
		middleware.Abort(ctx, notFoundWithID(err))
		return
	}
	ctx.JSON(http.StatusOK, response.OK(gin.H{"tour": tour, "reviews": reviews}))
}

// Create inserts a tour from a validated body.
func (c *TourController) Create(ctx *gin.Context) {
	c.crud.CreateOne(func(ctx *gin.Context) (*entity.Tour, error) {
		var req request.CreateTourRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return req.ToEntity()
	}, nil)(ctx)
}

// Update patches a tour.
func (c *TourController) Update(ctx *gin.Context) {
	c.crud.UpdateOne(func(ctx *gin.Context) (bson.M, error) {
		var req request.UpdateTourRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return req.Patch()
	}, nil)(ctx)
}

// UploadImages accepts a multipart form with an optional imageCover file
// and up to three gallery images, resizes them and patches the tour.
func (c *TourController) UploadImages(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		middleware.Abort(ctx, apperrors.ErrBadRequest.WithError(err))
		return
	}

	patch := bson.M{}
	stamp := time.Now().Unix()

	if covers := form.File["imageCover"]; len(covers) > 0 {
		name, err := c.media.TourImage(covers[0], media.Filename("tour", id.Hex(), stamp, "cover"))
		if err != nil {
			middleware.Abort(ctx, err)
			return
		}
		patch["imageCover"] = name
	}

	if images := form.File["images"]; len(images) > 0 {
		if len(images) > 3 {
			middleware.Abort(ctx, apperrors.ErrBadRequest.WithMessage(
				"A tour can have at most 3 gallery images."))
			return
		}
		names := make([]string, 0, len(images))
		for i, file := range images {
			suffix := strconv.Itoa(i + 1)
			name, err := c.media.TourImage(file, media.Filename("tour", id.Hex(), stamp, suffix))
			if err != nil {
				middleware.Abort(ctx, err)
				return
			}
			names = append(names, name)
		}
		patch["images"] = names
	}

	if len(patch) == 0 {
		middleware.Abort(ctx, apperrors.ErrBadRequest.WithMessage(
			"Please upload at least one image."))
		return
	}

	tour, err := c.tours.UpdateByID(ctx.Request.Context(), id, patch)
	if err != nil {
		middleware.Abort(ctx, notFoundWithID(err))
		return
	}
	ctx.JSON(http.StatusOK, response.OK(tour))
}

// Stats returns the per-difficulty aggregation.
func (c *TourController) Stats(ctx *gin.Context) {
	stats, err := c.svc.Stats(ctx.Request.Context())
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.OK(stats))
}

// MonthlyPlan returns the per-month tour start counts for a year.
func (c *TourController) MonthlyPlan(ctx *gin.Context) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		middleware.Abort(ctx, apperrors.InvalidField("year", ctx.Param("year")))
		return
	}
	plan, err := c.svc.MonthlyPlan(ctx.Request.Context(), year)
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.OK(plan))
}

// Within lists tours starting inside a radius around a point.
func (c *TourController) Within(ctx *gin.Context) {
	distance, err := strconv.ParseFloat(ctx.Param("distance"), 64)
	if err != nil {
		middleware.Abort(ctx, apperrors.InvalidField("distance", ctx.Param("distance")))
		return
	}
	tours, err := c.svc.Within(ctx.Request.Context(), distance, ctx.Param("latlng"), ctx.Param("unit"))
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.List(tours))
}

// Distances lists every tour's distance from a point.
func (c *TourController) Distances(ctx *gin.Context) {
	distances, err := c.svc.Distances(ctx.Request.Context(), ctx.Param("latlng"), ctx.Param("unit"))
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.OK(distances))
}
