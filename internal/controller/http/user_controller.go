package http

import (
	"net/http"
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

// UserController handles the self-service profile endpoints and the
// admin-only user CRUD.
type UserController struct {
	crud  *CRUD[entity.User]
	users repository.UserRepository
	svc   service.UserService
	media *media.Processor
	auth  *middleware.AuthMiddleware
}

// NewUserController creates a new UserController instance.
func NewUserController(
	users repository.UserRepository,
	svc service.UserService,
	processor *media.Processor,
	auth *middleware.AuthMiddleware,
) *UserController {
	return &UserController{
		crud:  NewCRUD[entity.User](users),
		users: users,
		svc:   svc,
		media: processor,
		auth:  auth,
	}
}

// RegisterRoutes registers the user routes. Everything here requires a
// login; the bare CRUD surface is admin only.
func (c *UserController) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(c.auth.Authenticate())
	{
		users.GET("/me", c.GetMe)
		users.PATCH("/updateMe", c.UpdateMe)
		users.POST("/me/photo", c.UploadPhoto)
		users.DELETE("/deleteMe", c.DeleteMe)

		admin := users.Group("", c.auth.RequireRole(entity.RoleAdmin))
		{
			admin.GET("", c.crud.GetAll(nil))
			admin.GET("/:id", c.crud.GetOne())
			admin.PATCH("/:id", c.AdminUpdate)
			admin.DELETE("/:id", c.crud.DeleteOne(nil))
		}
	}
}

// GetMe returns the caller's profile.
func (c *UserController) GetMe(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.OK(middleware.CurrentUser(ctx)))
}

// UpdateMe patches the caller's profile fields.
func (c *UserController) UpdateMe(ctx *gin.Context) {
	var req request.UpdateMeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.Abort(ctx, err)
		return
	}

	user := middleware.CurrentUser(ctx)
	updated, err := c.svc.UpdateMe(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.OK(updated))
}

// UploadPhoto stores a resized avatar and points the profile at it.
func (c *UserController) UploadPhoto(ctx *gin.Context) {
	file, err := ctx.FormFile("photo")
	if err != nil {
		middleware.Abort(ctx, apperrors.ErrBadRequest.WithMessage("Please upload a photo."))
		return
	}

	user := middleware.CurrentUser(ctx)
	name, err := c.media.UserPhoto(file,
		media.Filename("user", user.ID.Hex(), time.Now().Unix(), "photo"))
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}

	updated, err := c.users.UpdateByID(ctx.Request.Context(), user.ID, bson.M{"photo": name})
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.OK(updated))
}

// DeleteMe deactivates the caller's account.
func (c *UserController) DeleteMe(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if err := c.svc.DeactivateMe(ctx.Request.Context(), user.ID); err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AdminUpdate patches another user's record. Never touches passwords.
func (c *UserController) AdminUpdate(ctx *gin.Context) {
	c.crud.UpdateOne(func(ctx *gin.Context) (bson.M, error) {
		var req request.AdminUpdateUserRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return req.Patch(), nil
	}, nil)(ctx)
}
