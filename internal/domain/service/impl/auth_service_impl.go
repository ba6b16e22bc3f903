// Package impl contains the business-logic implementations.
package impl

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	"github.com/trailbound/trailbound-go/internal/security"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// passwordChangedBackdate is subtracted from the password-change timestamp
// so a token issued in the same second as the change still validates.
const passwordChangedBackdate = time.Second

type authService struct {
	users   repository.UserRepository
	jwt     *security.JWTProvider
	hasher  *security.PasswordHasher
	mailer  service.Mailer
	logger  *zap.Logger
	baseURL string
}

// NewAuthService creates the auth service.
func NewAuthService(
	users repository.UserRepository,
	jwt *security.JWTProvider,
	hasher *security.PasswordHasher,
	mailer service.Mailer,
	logger *zap.Logger,
	baseURL string,
) service.AuthService {
	return &authService{
		users:   users,
		jwt:     jwt,
		hasher:  hasher,
		mailer:  mailer,
		logger:  logger,
		baseURL: baseURL,
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*entity.User, string, error) {
	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &entity.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: digest,
		Role:     entity.RoleUser,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	// Welcome mail is best effort; an SMTP outage must not block signup.
	if err := s.mailer.SendWelcome(ctx, user.Email, user.Name, s.baseURL+"/me"); err != nil {
		s.logger.Warn("welcome email failed", zap.String("email", user.Email), zap.Error(err))
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	incorrect := apperrors.New(apperrors.CodeUnauthorized,
		"Incorrect email or password", http.StatusUnauthorized)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, "", incorrect
		}
		return nil, "", err
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, "", incorrect
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound.WithMessage("There is no user with email address.")
		}
		return err
	}

	token, err := security.NewResetToken()
	if err != nil {
		return err
	}
	if _, err := s.users.UpdateByID(ctx, user.ID, bson.M{
		"passwordResetToken":   token.Digest,
		"passwordResetExpires": token.ExpiresAt,
	}); err != nil {
		return err
	}

	resetURL := s.baseURL + "/api/v1/users/resetPassword/" + token.Plain
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL); err != nil {
		// Roll the token back so a half-issued reset cannot linger.
		if _, clearErr := s.users.UpdateByID(ctx, user.ID, bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": time.Time{},
		}); clearErr != nil {
			s.logger.Error("failed to clear reset token", zap.Error(clearErr))
		}
		return apperrors.ErrInternalError.
			WithMessage("There was an error sending the email. Try again later!").
			WithError(err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, plainToken, password string) (*entity.User, string, error) {
	invalid := apperrors.New(apperrors.CodeBadRequest,
		"Token is invalid or has expired", http.StatusBadRequest)

	digest := security.HashResetToken(plainToken)
	user, err := s.users.FindByResetToken(ctx, digest)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, "", invalid
		}
		return nil, "", err
	}
	if !user.ResetTokenValid(digest, time.Now()) {
		return nil, "", invalid
	}

	updated, err := s.setPassword(ctx, user.ID, password, bson.M{
		"passwordResetToken":   "",
		"passwordResetExpires": time.Time{},
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(updated.ID)
	if err != nil {
		return nil, "", err
	}
	return updated, token, nil
}

func (s *authService) UpdatePassword(ctx context.Context, user *entity.User, current, password string) (*entity.User, string, error) {
	// The middleware-loaded user may lack the digest; reload it.
	withPassword, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, "", err
	}
	if !s.hasher.Verify(current, withPassword.Password) {
		return nil, "", apperrors.New(apperrors.CodeUnauthorized,
			"Your current password is wrong.", http.StatusUnauthorized)
	}

	updated, err := s.setPassword(ctx, user.ID, password, nil)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(updated.ID)
	if err != nil {
		return nil, "", err
	}
	return updated, token, nil
}

// setPassword hashes and stores a new password, backdating the change
// timestamp so tokens issued right after remain valid.
func (s *authService) setPassword(ctx context.Context, userID primitive.ObjectID, password string, extra bson.M) (*entity.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	patch := bson.M{
		"password":          digest,
		"passwordChangedAt": time.Now().Add(-passwordChangedBackdate),
	}
	for k, v := range extra {
		patch[k] = v
	}
	return s.users.UpdateByID(ctx, userID, patch)
}
