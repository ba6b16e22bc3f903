package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/dto/request"
)

// UserService covers the self-service profile operations. Admin CRUD on
// users goes through the generic handlers instead.
type UserService interface {
	// UpdateMe patches the caller's own profile. Password fields in the
	// body are rejected; that flow has its own endpoint.
	UpdateMe(ctx context.Context, userID primitive.ObjectID, req *request.UpdateMeRequest) (*entity.User, error)

	// DeactivateMe soft-deletes the caller's account. The record stays in
	// the database but drops out of every read scope.
	DeactivateMe(ctx context.Context, userID primitive.ObjectID) error
}
