// Package apierror holds the JSON envelopes of every 4xx/5xx response of the
// API. Handlers never serialize raw errors; internal details stay in the logs.
package apierror

import "fmt"

// MensajeInterno is the only text a client ever receives for a 5xx.
const MensajeInterno = "Error interno del servidor"

// APIError is the envelope for business and request errors: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func Newf(format string, args ...any) *APIError {
	return &APIError{Detail: fmt.Sprintf(format, args...)}
}

// Interno is the envelope for unexpected failures.
func Interno() *APIError { return New(MensajeInterno) }

// ValidationError reports field-level binding failures. Fields is keyed by the
// validator namespace, e.g. "VentaRequest.Detalles[0].Cantidad".
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
