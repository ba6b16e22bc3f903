package impl

import (
	"context"
	"testing"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/dto/request"
	"github.com/trailbound/trailbound-go/internal/testutil/mocks"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestUpdateMe(t *testing.T) {
	users := mocks.NewMockUserRepository()
	seeded := users.Seed(&entity.User{Name: "Ada", Email: "ada@example.com", IsActive: true})
	svc := NewUserService(users)

	updated, err := svc.UpdateMe(context.Background(), seeded.ID, &request.UpdateMeRequest{
		Name: strPtr("Ada Lovelace"),
	})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if updated.Name != "Ada Lovelace" {
		t.Errorf("name = %s", updated.Name)
	}

	patch := users.Patches[seeded.ID]
	if len(patch) != 1 {
		t.Errorf("patch = %v, want name only", patch)
	}
}

func TestUpdateMeRejectsPasswordFields(t *testing.T) {
	users := mocks.NewMockUserRepository()
	seeded := users.Seed(&entity.User{Name: "Ada", IsActive: true})
	svc := NewUserService(users)

	_, err := svc.UpdateMe(context.Background(), seeded.ID, &request.UpdateMeRequest{
		Password: strPtr("newpass123"),
	})
	appErr := apperrors.Classify(err)
	if appErr.Status != 400 {
		t.Errorf("status = %d, want 400", appErr.Status)
	}
	if appErr.Message != "This route is not for password updates. Please use /updateMyPassword." {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestUpdateMeEmptyBodyReturnsCurrent(t *testing.T) {
	users := mocks.NewMockUserRepository()
	seeded := users.Seed(&entity.User{Name: "Ada", IsActive: true})
	svc := NewUserService(users)

	updated, err := svc.UpdateMe(context.Background(), seeded.ID, &request.UpdateMeRequest{})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if updated.ID != seeded.ID {
		t.Errorf("user = %s", updated.ID.Hex())
	}
	if len(users.Patches) != 0 {
		t.Errorf("unexpected write: %v", users.Patches)
	}
}

func TestDeactivateMe(t *testing.T) {
	users := mocks.NewMockUserRepository()
	seeded := users.Seed(&entity.User{Name: "Ada", IsActive: true})
	svc := NewUserService(users)

	if err := svc.DeactivateMe(context.Background(), seeded.ID); err != nil {
		t.Fatalf("DeactivateMe: %v", err)
	}
	if active, _ := users.Patches[seeded.ID]["isActive"].(bool); active {
		t.Error("isActive not set to false")
	}

	// The account has dropped out of the read scope.
	if _, err := users.FindByID(context.Background(), seeded.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}
