// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package so that internal
// details (driver messages, SQL, stack traces) never reach the browser.
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Domain errors shared by services and mapped to HTTP statuses by handlers.
var (
	ErrNoEncontrado   = errors.New("registro no encontrado")
	ErrConflicto      = errors.New("el registro ya existe")
	ErrEstadoInvalido = errors.New("estado invalido para la operacion")
	ErrProhibido      = errors.New("operacion no permitida")
	ErrInvalido       = errors.New("datos invalidos")
)
