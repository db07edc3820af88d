// Package errors defines the API error catalog and the typed errors the HTTP
// layer knows how to render.
package errors

import (
	"fmt"
	"net/http"
)

// Definition pairs an internal code with its message template.
type Definition struct {
	Code    string
	Message string
}

// Format renders the message template with the provided arguments.
func (d Definition) Format(args ...any) string {
	if len(args) == 0 {
		return d.Message
	}
	return fmt.Sprintf(d.Message, args...)
}

// Error catalog shared by every bounded context.
var (
	ML000  = Definition{Code: "ML-000", Message: "Access denied"}
	ML001  = Definition{Code: "ML-001", Message: "Authentication required"}
	ML002  = Definition{Code: "ML-002", Message: "Too many requests"}
	ML999  = Definition{Code: "ML-999", Message: "Unexpected error"}
	ML0001 = Definition{Code: "ML-0001", Message: "Fields errors"}
	ML1001 = Definition{Code: "ML-1001", Message: "Book [%v] doesn't exists"}
	ML1002 = Definition{Code: "ML-1002", Message: "Cannot update book with the status [%v]"}
	ML1101 = Definition{Code: "ML-1101", Message: "Customer [%v] is not active"}
	ML1102 = Definition{Code: "ML-1102", Message: "Customer with the id [%v] doesn't exist"}
	ML1201 = Definition{Code: "ML-1201", Message: "Book [%v] is not available for purchase"}
	ML1301 = Definition{Code: "ML-1301", Message: "Purchase [%v] doesn't exists"}
	ML1302 = Definition{Code: "ML-1302", Message: "Idempotency key [%v] was already used for a different purchase"}
)

// HTTPError is implemented by every error the responder renders with a specific status.
type HTTPError interface {
	error
	HTTPStatus() int
	InternalCode() string
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// NotFoundError signals a missing resource.
type NotFoundError struct {
	Code    string
	Message string
}

func NewNotFound(def Definition, args ...any) *NotFoundError {
	return &NotFoundError{Code: def.Code, Message: def.Format(args...)}
}

func (e *NotFoundError) Error() string        { return e.Message }
func (e *NotFoundError) HTTPStatus() int      { return http.StatusNotFound }
func (e *NotFoundError) InternalCode() string { return e.Code }

// ValidationError carries field level failures.
type ValidationError struct {
	Code    string
	Message string
	Fields  []FieldError
}

// NewValidation builds an ML-0001 error from field failures.
func NewValidation(fields ...FieldError) *ValidationError {
	return &ValidationError{Code: ML0001.Code, Message: ML0001.Message, Fields: fields}
}

// NewBusinessValidation builds a validation error for a rule outside the request shape.
func NewBusinessValidation(def Definition, args ...any) *ValidationError {
	return &ValidationError{Code: def.Code, Message: def.Format(args...)}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s %s", e.Message, e.Fields[0].Field, e.Fields[0].Message)
}
func (e *ValidationError) HTTPStatus() int      { return http.StatusUnprocessableEntity }
func (e *ValidationError) InternalCode() string { return e.Code }

// ConflictError signals an operation incompatible with the resource state.
type ConflictError struct {
	Code    string
	Message string
}

func NewConflict(def Definition, args ...any) *ConflictError {
	return &ConflictError{Code: def.Code, Message: def.Format(args...)}
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) HTTPStatus() int      { return http.StatusConflict }
func (e *ConflictError) InternalCode() string { return e.Code }

// ForbiddenError signals an authenticated caller acting outside its rights.
type ForbiddenError struct {
	Code    string
	Message string
}

func NewForbidden() *ForbiddenError {
	return &ForbiddenError{Code: ML000.Code, Message: ML000.Message}
}

func (e *ForbiddenError) Error() string        { return e.Message }
func (e *ForbiddenError) HTTPStatus() int      { return http.StatusForbidden }
func (e *ForbiddenError) InternalCode() string { return e.Code }

// UnauthorizedError signals a request without a usable identity.
type UnauthorizedError struct {
	Code    string
	Message string
}

func NewUnauthorized(message string) *UnauthorizedError {
	if message == "" {
		message = ML001.Message
	}
	return &UnauthorizedError{Code: ML001.Code, Message: message}
}

func (e *UnauthorizedError) Error() string        { return e.Message }
func (e *UnauthorizedError) HTTPStatus() int      { return http.StatusUnauthorized }
func (e *UnauthorizedError) InternalCode() string { return e.Code }

type TooManyRequestsError struct {
	Code    string
	Message string
}

func NewTooManyRequests() *TooManyRequestsError {
	return &TooManyRequestsError{Code: ML002.Code, Message: ML002.Message}
}

func (e *TooManyRequestsError) Error() string        { return e.Message }
func (e *TooManyRequestsError) HTTPStatus() int      { return http.StatusTooManyRequests }
func (e *TooManyRequestsError) InternalCode() string { return e.Code }

var (
	_ HTTPError = (*TooManyRequestsError)(nil)
	_ HTTPError = (*NotFoundError)(nil)
	_ HTTPError = (*ValidationError)(nil)
	_ HTTPError = (*ConflictError)(nil)
	_ HTTPError = (*ForbiddenError)(nil)
	_ HTTPError = (*UnauthorizedError)(nil)
)
