package repository

import (
	"context"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
)

// UserRepository persists users. The read scope hides deactivated accounts,
// so a deactivated user cannot log in or be looked up through any read path.
type UserRepository interface {
	Store[entity.User]

	// FindByEmail returns the user with the password digest loaded, for
	// credential checks.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByResetToken returns the user holding the given reset digest.
	// Expiry is checked by the caller against the entity.
	FindByResetToken(ctx context.Context, digest string) (*entity.User, error)
}
