// Package errs defines the HTTP error type rendered by the server's error
// handler and the envelope every response is wrapped in.
package errs

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Fixed client-facing messages.
const (
	MessageNotFound = "Producto no encontrado"
	MessageInternal = "Error interno del servidor"
)

// FieldError is one failed validation rule.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// HTTPError is an error that knows the status and body it should be rendered with.
type HTTPError struct {
	Status  int
	Message string
	Errors  []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Body returns the JSON envelope for the error.
// Validation failures render as {errors: [...]}, everything else as {error: msg}.
func (e *HTTPError) Body() fiber.Map {
	if len(e.Errors) > 0 {
		return fiber.Map{"errors": e.Errors}
	}
	return fiber.Map{"error": e.Message}
}

// NewValidationError creates a 400 carrying every failed rule.
func NewValidationError(fieldErrors []FieldError) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a 404 with the fixed product message.
func NewNotFoundError() *HTTPError {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Message: MessageNotFound,
	}
}

// NewInternalError creates a 500 that hides the underlying cause from clients.
func NewInternalError() *HTTPError {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: MessageInternal,
	}
}

// Resolve maps any error returned from a handler to the HTTPError it is rendered as.
func Resolve(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &HTTPError{Status: fiberErr.Code, Message: fiberErr.Message}
	}

	return NewInternalError()
}

// Data wraps a successful payload in the response envelope.
func Data(payload any) fiber.Map {
	return fiber.Map{"data": payload}
}
