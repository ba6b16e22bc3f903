package impl

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

type userService struct {
	users repository.UserRepository
}

// NewUserService creates the user self-service.
func NewUserService(users repository.UserRepository) service.UserService {
	return &userService{users: users}
}

func (s *userService) UpdateMe(ctx context.Context, userID primitive.ObjectID, req *request.UpdateMeRequest) (*entity.User, error) {
	if req.HasPassword() {
		return nil, apperrors.New(apperrors.CodeBadRequest,
			"This route is not for password updates. Please use /updateMyPassword.",
			http.StatusBadRequest)
	}

	patch := req.Patch()
	if len(patch) == 0 {
		return s.users.FindByID(ctx, userID)
	}
	return s.users.UpdateByID(ctx, userID, patch)
}

func (s *userService) DeactivateMe(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.users.UpdateByID(ctx, userID, bson.M{"isActive": false})
	return err
}
