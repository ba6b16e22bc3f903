package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/security"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// currentUserKey is the gin context key holding the authenticated user.
const currentUserKey = "currentUser"

// AuthMiddleware resolves access tokens into live user records.
type AuthMiddleware struct {
	jwtProvider *security.JWTProvider
	users       repository.UserRepository
	cookieName  string
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(jwtProvider *security.JWTProvider, users repository.UserRepository, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtProvider: jwtProvider,
		users:       users,
		cookieName:  cookieName,
	}
}

// Authenticate requires a valid token whose subject still exists and whose
// password has not changed since the token was issued. The token comes from
// the Authorization header or, failing that, the auth cookie.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			Abort(c, apperrors.New(apperrors.CodeUnauthorized,
				"You are not logged in! Please log in to get access.", http.StatusUnauthorized))
			return
		}

		user, err := m.resolve(c, token)
		if err != nil {
			Abort(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves a token when one is present but never rejects the
// request. Used by surfaces that render differently for logged-in users.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := m.extractToken(c); token != "" {
			if user, err := m.resolve(c, token); err == nil {
				c.Set(currentUserKey, user)
			}
		}
		c.Next()
	}
}

// RequireRole allows only the listed roles past. It runs after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...entity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			Abort(c, apperrors.ErrUnauthorized.WithMessage(
				"You are not logged in! Please log in to get access."))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		Abort(c, apperrors.ErrForbidden.WithMessage(
			"You do not have permission to perform this action"))
	}
}

// resolve verifies the token and loads its subject. A token for a deleted
// or deactivated user fails, as does one issued before a password change.
func (m *AuthMiddleware) resolve(c *gin.Context, token string) (*entity.User, error) {
	claims, err := m.jwtProvider.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := m.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized.WithMessage(
				"The user belonging to this token does no longer exist.")
		}
		return nil, err
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	if user.PasswordChangedAfter(issuedAt) {
		return nil, apperrors.ErrUnauthorized.WithMessage(
			"User recently changed password! Please log in again.")
	}
	return user, nil
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the authenticated user, or nil outside an
// authenticated request.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*entity.User); ok {
			return user
		}
	}
	return nil
}
