// Package security provides token issuance, password hashing and the
// password-reset token scheme.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/config"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// UserClaims carries the authenticated subject. Subject is the user's hex
// ObjectID; IssuedAt is compared against the password-changed timestamp to
// reject stale tokens.
type UserClaims struct {
	jwt.RegisteredClaims
}

// JWTProvider signs and verifies access tokens with HS256.
type JWTProvider struct {
	secret   []byte
	duration time.Duration
	issuer   string
}

// NewJWTProvider creates a JWTProvider from configuration.
func NewJWTProvider(cfg *config.JWTConfig) *JWTProvider {
	return &JWTProvider{
		secret:   []byte(cfg.Secret),
		duration: cfg.AccessTokenDuration,
		issuer:   cfg.Issuer,
	}
}

// GenerateToken issues a signed access token for the user ID.
func (p *JWTProvider) GenerateToken(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   userID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// TokenDuration returns the lifetime of issued tokens, used to align the
// auth cookie expiry with the token's.
func (p *JWTProvider) TokenDuration() time.Duration {
	return p.duration
}

// ValidateToken verifies signature and expiry and returns the claims.
// Failures surface as the shared token sentinels so the classifier maps
// them to 401 responses.
func (p *JWTProvider) ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenInvalid
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// UserID parses the subject claim back into an ObjectID.
func (c *UserClaims) UserID() (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Subject)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrTokenInvalid
	}
	return id, nil
}
