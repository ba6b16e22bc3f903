package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppError represents an anticipated, user-facing failure with an HTTP status.
// Any error reaching the response layer that is NOT an AppError is treated as
// a programming defect and never leaks its details to clients.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	CodeNotFound        = "NOT_FOUND"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeDuplicateField  = "DUPLICATE_FIELD"
	CodeInvalidField    = "INVALID_FIELD"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeExpiredToken    = "EXPIRED_TOKEN"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound      = &AppError{Code: CodeNotFound, Message: "resource not found", Status: http.StatusNotFound}
	ErrBadRequest    = &AppError{Code: CodeBadRequest, Message: "bad request", Status: http.StatusBadRequest}
	ErrUnauthorized  = &AppError{Code: CodeUnauthorized, Message: "unauthorized", Status: http.StatusUnauthorized}
	ErrForbidden     = &AppError{Code: CodeForbidden, Message: "forbidden", Status: http.StatusForbidden}
	ErrInternalError = &AppError{Code: CodeInternalError, Message: "internal server error", Status: http.StatusInternalServerError}
)

// New creates a new AppError
func New(code string, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, appErr *AppError) *AppError {
	return &AppError{
		Code:    appErr.Code,
		Message: appErr.Message,
		Status:  appErr.Status,
		Err:     err,
	}
}

// WithMessage returns a new AppError with a custom message
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Err:     e.Err,
	}
}

// WithError returns a new AppError with a wrapped error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Err:     err,
	}
}

// Is checks if the error is a specific AppError
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

// IsOperational reports whether err is an anticipated business failure.
func IsOperational(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetStatus returns the HTTP status from an error
func GetStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Sentinel token errors produced by the security layer. Declared here so the
// classifier does not have to import the package that raises them.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Classify normalizes store, validation and token failures into AppErrors.
// An AppError passes through untouched; anything unrecognized comes back as
// ErrInternalError so the response layer emits a generic message.
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if mongo.IsDuplicateKeyError(err) {
		return duplicateFieldError(err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validationError(verrs)
	}

	if errors.Is(err, ErrTokenExpired) {
		return New(CodeExpiredToken, "Your token has expired. Please log in again.", http.StatusUnauthorized)
	}
	if errors.Is(err, ErrTokenInvalid) {
		return New(CodeInvalidToken, "Invalid token. Please log in again.", http.StatusUnauthorized)
	}

	return ErrInternalError.WithError(err)
}

// InvalidField builds the cast/type-mismatch error for a named field.
func InvalidField(field string, value any) *AppError {
	return New(CodeInvalidField, fmt.Sprintf("Invalid %s: %v", field, value), http.StatusBadRequest)
}

// duplicateFieldError extracts the offending value from a duplicate-key write
// exception. The driver reports it inside the error message as
// `dup key: { name: "..." }`; fall back to a generic message when that shape
// is not there.
func duplicateFieldError(err error) *AppError {
	value := duplicateKeyValue(err.Error())
	if value == "" {
		return New(CodeDuplicateField, "Duplicate field value. Please use another value.", http.StatusBadRequest)
	}
	return New(CodeDuplicateField,
		fmt.Sprintf("Duplicate field value: '%s'. Please use another value.", value),
		http.StatusBadRequest)
}

func duplicateKeyValue(msg string) string {
	const marker = "dup key: {"
	start := strings.Index(msg, marker)
	if start < 0 {
		return ""
	}
	rest := msg[start+len(marker):]
	end := strings.Index(rest, "}")
	if end < 0 {
		return ""
	}
	// rest[:end] holds `field: "value"` (value may be unquoted for non-strings)
	pair := strings.TrimSpace(rest[:end])
	if i := strings.Index(pair, ":"); i >= 0 {
		return strings.Trim(strings.TrimSpace(pair[i+1:]), `"`)
	}
	return ""
}

func validationError(verrs validator.ValidationErrors) *AppError {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return New(CodeValidationError, "Invalid input data: "+strings.Join(parts, ". ")+".", http.StatusBadRequest)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}
