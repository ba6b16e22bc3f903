// Package response defines the JSON envelopes every endpoint emits.
package response

import "net/http"

// Envelope statuses. Success marks 2xx, Fail marks 4xx, Error marks 5xx.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Success wraps a payload in the success envelope.
type Success[T any] struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    T      `json:"data"`
}

// Failure is the envelope for every non-2xx outcome.
type Failure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	// Error and Stack are only populated outside production.
	Error any    `json:"error,omitempty"`
	Stack string `json:"stack,omitempty"`
}

// OK wraps a single document.
func OK[T any](data T) Success[T] {
	return Success[T]{Status: StatusSuccess, Data: data}
}

// List wraps a collection and reports its length as results.
func List[T any](items []T) Success[[]T] {
	n := len(items)
	return Success[[]T]{Status: StatusSuccess, Results: &n, Data: items}
}

// WithToken wraps a payload together with a freshly issued access token.
func WithToken[T any](token string, data T) Success[T] {
	return Success[T]{Status: StatusSuccess, Token: token, Data: data}
}

// Fail builds the failure envelope for an HTTP status. Client errors carry
// status "fail", server errors "error".
func Fail(httpStatus int, message string) Failure {
	status := StatusError
	if httpStatus >= http.StatusBadRequest && httpStatus < http.StatusInternalServerError {
		status = StatusFail
	}
	return Failure{Status: status, Message: message}
}
