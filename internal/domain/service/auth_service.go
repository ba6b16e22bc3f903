// Package service defines the business-logic interfaces. Implementations
// live in the impl subpackage.
package service

import (
	"context"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/dto/request"
)

// AuthService handles signup, login and the password lifecycle. Every
// operation that establishes or changes a credential returns a fresh access
// token so the client session stays valid.
type AuthService interface {
	// Signup creates an account and logs it in.
	Signup(ctx context.Context, req *request.SignupRequest) (*entity.User, string, error)

	// Login verifies credentials and issues a token.
	Login(ctx context.Context, email, password string) (*entity.User, string, error)

	// ForgotPassword generates a reset token and emails it to the account.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword redeems a reset token for a new password.
	ResetPassword(ctx context.Context, plainToken, password string) (*entity.User, string, error)

	// UpdatePassword changes the password of a logged-in user after
	// verifying the current one.
	UpdatePassword(ctx context.Context, user *entity.User, current, password string) (*entity.User, string, error)
}

// Mailer sends transactional email. The SMTP implementation lives in
// internal/mailer.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name, url string) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}
