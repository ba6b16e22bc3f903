package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole represents user roles in the system
type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleGuide     UserRole = "guide"
	RoleLeadGuide UserRole = "lead-guide"
	RoleAdmin     UserRole = "admin"
)

// User represents an account. Password and the reset-token fields are
// sensitive: they never appear in JSON output and the repository only loads
// the password digest when explicitly asked for it.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Photo                string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role                 UserRole           `bson:"role" json:"role"`
	Password             string             `bson:"password,omitempty" json:"-"`
	PasswordChangedAt    time.Time          `bson:"passwordChangedAt,omitempty" json:"-"`
	PasswordResetToken   string             `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires time.Time          `bson:"passwordResetExpires,omitempty" json:"-"`
	IsActive             bool               `bson:"isActive" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"-"`
	Revision             int64              `bson:"revision" json:"-"`
}

// CollectionName returns the MongoDB collection for users.
func (User) CollectionName() string {
	return "users"
}

// PasswordChangedAfter reports whether the credential changed after the
// given token issuance time. Tokens minted before a password change are
// stale and must be rejected.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	// Compare at second precision; token iat carries no sub-second part.
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// ResetTokenValid reports whether the stored reset digest matches and has
// not expired.
func (u *User) ResetTokenValid(digest string, now time.Time) bool {
	return u.PasswordResetToken != "" &&
		u.PasswordResetToken == digest &&
		now.Before(u.PasswordResetExpires)
}
