package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	"github.com/trailbound/trailbound-go/internal/dto/response"
	"github.com/trailbound/trailbound-go/internal/middleware"
	"github.com/trailbound/trailbound-go/internal/security"
)

// AuthController handles signup, login and the password lifecycle.
type AuthController struct {
	svc        service.AuthService
	jwt        *security.JWTProvider
	auth       *middleware.AuthMiddleware
	cookieName string
	secure     bool
}

// NewAuthController creates a new AuthController instance. secure controls
// the auth cookie's Secure flag and follows the production setting.
func NewAuthController(
	svc service.AuthService,
	jwt *security.JWTProvider,
	auth *middleware.AuthMiddleware,
	cookieName string,
	secure bool,
) *AuthController {
	return &AuthController{
		svc:        svc,
		jwt:        jwt,
		auth:       auth,
		cookieName: cookieName,
		secure:     secure,
	}
}

// RegisterRoutes registers the auth routes under /users.
func (c *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("/signup", c.Signup)
		users.POST("/login", c.Login)
		users.GET("/logout", c.Logout)
		users.POST("/forgotPassword", c.ForgotPassword)
		users.PATCH("/resetPassword/:token", c.ResetPassword)
		users.PATCH("/updateMyPassword", c.auth.Authenticate(), c.UpdatePassword)
	}
}

// Signup creates an account and logs it in.
func (c *AuthController) Signup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.Abort(ctx, err)
		return
	}

	user, token, err := c.svc.Signup(ctx.Request.Context(), &req)
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	c.sendToken(ctx, http.StatusCreated, user, token)
}

// Login exchanges credentials for a token.
func (c *AuthController) Login(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.Abort(ctx, err)
		return
	}

	user, token, err := c.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	c.sendToken(ctx, http.StatusOK, user, token)
}

// Logout clears the auth cookie.
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(c.cookieName, "loggedout", -1, "/", "", c.secure, true)
	ctx.JSON(http.StatusOK, response.OK[any](nil))
}

// ForgotPassword mails a reset token to the account.
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req request.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.Abort(ctx, err)
		return
	}

	if err := c.svc.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		middleware.Abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.OK("Token sent to email!"))
}

// ResetPassword redeems the mailed token for a new password.
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req request.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.Abort(ctx, err)
		return
	}

	user, token, err := c.svc.ResetPassword(ctx.Request.Context(), ctx.Param("token"), req.Password)
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	c.sendToken(ctx, http.StatusOK, user, token)
}

// UpdatePassword changes the caller's password.
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	var req request.UpdatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.Abort(ctx, err)
		return
	}

	user := middleware.CurrentUser(ctx)
	updated, token, err := c.svc.UpdatePassword(ctx.Request.Context(), user, req.PasswordCurrent, req.Password)
	if err != nil {
		middleware.Abort(ctx, err)
		return
	}
	c.sendToken(ctx, http.StatusOK, updated, token)
}

// sendToken writes the auth cookie and the token-bearing envelope.
func (c *AuthController) sendToken(ctx *gin.Context, status int, user *entity.User, token string) {
	maxAge := int(c.jwt.TokenDuration().Seconds())
	ctx.SetCookie(c.cookieName, token, maxAge, "/", "", c.secure, true)
	ctx.JSON(status, response.WithToken(token, gin.H{"user": user}))
}
