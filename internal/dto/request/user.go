package request

import "go.mongodb.org/mongo-driver/bson"

// UpdateMeRequest lets a user change their own profile. Only name, email
// and photo are writable here; password changes go through the dedicated
// endpoint and role is admin-only.
type UpdateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Photo *string `json:"photo"`

	// Bound only to detect misuse; the service rejects any value here.
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

// HasPassword reports whether the body tried to change the password.
func (r *UpdateMeRequest) HasPassword() bool {
	return r.Password != nil || r.PasswordConfirm != nil
}

// Patch builds the $set document from the present fields.
func (r *UpdateMeRequest) Patch() bson.M {
	patch := bson.M{}
	if r.Name != nil {
		patch["name"] = *r.Name
	}
	if r.Email != nil {
		patch["email"] = *r.Email
	}
	if r.Photo != nil {
		patch["photo"] = *r.Photo
	}
	return patch
}

// AdminUpdateUserRequest lets an admin patch name, email, role or active
// state. Passwords are never writable through this path.
type AdminUpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Photo    *string `json:"photo"`
	Role     *string `json:"role" binding:"omitempty,oneof=user guide lead-guide admin"`
	IsActive *bool   `json:"isActive"`
}

// Patch builds the $set document from the present fields.
func (r *AdminUpdateUserRequest) Patch() bson.M {
	patch := bson.M{}
	if r.Name != nil {
		patch["name"] = *r.Name
	}
	if r.Email != nil {
		patch["email"] = *r.Email
	}
	if r.Photo != nil {
		patch["photo"] = *r.Photo
	}
	if r.Role != nil {
		patch["role"] = *r.Role
	}
	if r.IsActive != nil {
		patch["isActive"] = *r.IsActive
	}
	return patch
}
