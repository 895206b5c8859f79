package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/hiring-funnel/internal/analysis"
	"github.com/jonathan/hiring-funnel/internal/schemas"
)

// ErrBadRequest indicates a malformed request body or parameter
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return "bad request: " + e.Message
}

// ErrNotFound indicates an unknown resource
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return "not found: " + e.Resource
}

// ErrorBody is the JSON envelope for every error response.
type ErrorBody struct {
	Error   string               `json:"error"`
	Field   string               `json:"field,omitempty"`
	Details []schemas.FieldError `json:"details,omitempty"`
}

// RateLimitBody is returned with 429 responses.
type RateLimitBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	ResetAt    string `json:"reset_at,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *analysis.ValidationError
		schemaErr     *schemas.ValidationError
		badRequest    *ErrBadRequest
		notFound      *ErrNotFound
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr), errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the response envelope for err.
func errorBody(err error) ErrorBody {
	var (
		validationErr *analysis.ValidationError
		schemaErr     *schemas.ValidationError
	)
	switch {
	case errors.As(err, &validationErr):
		return ErrorBody{Error: validationErr.Error(), Field: validationErr.Field}
	case errors.As(err, &schemaErr):
		return ErrorBody{Error: "request does not match schema", Details: schemaErr.Errors}
	case HTTPStatus(err) == http.StatusInternalServerError:
		return ErrorBody{Error: "internal error"}
	default:
		return ErrorBody{Error: err.Error()}
	}
}
