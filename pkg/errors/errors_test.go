package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassifyPassesAppErrorThrough(t *testing.T) {
	appErr := ErrNotFound.WithMessage("No document found with that ID")
	got := Classify(fmt.Errorf("lookup: %w", appErr))
	if got.Code != CodeNotFound || got.Message != "No document found with that ID" {
		t.Errorf("Classify = %+v", got)
	}
}

func TestClassifyDuplicateKey(t *testing.T) {
	err := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: trailbound.tours index: name_1 dup key: { name: "The Forest Hiker" }`,
	}}}

	got := Classify(err)
	if got.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", got.Status)
	}
	want := "Duplicate field value: 'The Forest Hiker'. Please use another value."
	if got.Message != want {
		t.Errorf("message = %q, want %q", got.Message, want)
	}
}

func TestClassifyDuplicateKeyWithoutValue(t *testing.T) {
	err := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error",
	}}}

	got := Classify(err)
	if got.Message != "Duplicate field value. Please use another value." {
		t.Errorf("message = %q", got.Message)
	}
}

func TestClassifyValidationErrors(t *testing.T) {
	type payload struct {
		Name  string `validate:"required"`
		Email string `validate:"email"`
	}
	err := validator.New().Struct(payload{Email: "nope"})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	got := Classify(err)
	if got.Code != CodeValidationError || got.Status != http.StatusBadRequest {
		t.Fatalf("Classify = %+v", got)
	}
	if !strings.HasPrefix(got.Message, "Invalid input data: ") {
		t.Errorf("message = %q", got.Message)
	}
	if !strings.Contains(got.Message, "Name is required") {
		t.Errorf("message = %q", got.Message)
	}
	if !strings.Contains(got.Message, "Email must be a valid email address") {
		t.Errorf("message = %q", got.Message)
	}
}

func TestClassifyTokenSentinels(t *testing.T) {
	expired := Classify(fmt.Errorf("parse: %w", ErrTokenExpired))
	if expired.Code != CodeExpiredToken || expired.Message != "Your token has expired. Please log in again." {
		t.Errorf("expired = %+v", expired)
	}

	invalid := Classify(ErrTokenInvalid)
	if invalid.Code != CodeInvalidToken || invalid.Message != "Invalid token. Please log in again." {
		t.Errorf("invalid = %+v", invalid)
	}
}

func TestClassifyUnknownErrorIsInternal(t *testing.T) {
	got := Classify(fmt.Errorf("dial tcp: connection refused"))
	if got.Code != CodeInternalError || got.Status != http.StatusInternalServerError {
		t.Errorf("Classify = %+v", got)
	}
	if got.Err == nil {
		t.Error("cause not preserved")
	}
}

func TestInvalidField(t *testing.T) {
	got := InvalidField("_id", "not-hex")
	if got.Message != "Invalid _id: not-hex" || got.Status != http.StatusBadRequest {
		t.Errorf("InvalidField = %+v", got)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	if !Is(ErrNotFound.WithMessage("gone"), ErrNotFound) {
		t.Error("Is should match on code")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is matched a plain error")
	}
}
