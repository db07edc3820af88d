package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	HTTPCode     int          `json:"httpCode"`
	Message      string       `json:"message"`
	InternalCode string       `json:"internalCode"`
	Errors       []FieldError `json:"errors,omitempty"`
}

// Responder renders errors as ErrorResponse bodies.
type Responder struct {
	logger *slog.Logger
}

// NewResponder creates a responder. A nil logger falls back to slog.Default.
func NewResponder(logger *slog.Logger) *Responder {
	return &Responder{logger: logger}
}

// DefaultResponder logs through slog.Default.
var DefaultResponder = NewResponder(nil)

// Respond writes the response body and aborts the handler chain.
func (r *Responder) Respond(c *gin.Context, body ErrorResponse) {
	c.AbortWithStatusJSON(body.HTTPCode, body)
}

// RespondError converts any error into an ErrorResponse. Errors that do not
// implement HTTPError are logged and hidden behind a generic 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	r.Respond(c, r.toResponse(c, err))
}

func (r *Responder) toResponse(c *gin.Context, err error) ErrorResponse {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return ErrorResponse{
			HTTPCode:     validation.HTTPStatus(),
			Message:      validation.Message,
			InternalCode: validation.Code,
			Errors:       validation.Fields,
		}
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return ErrorResponse{
			HTTPCode:     httpErr.HTTPStatus(),
			Message:      httpErr.Error(),
			InternalCode: httpErr.InternalCode(),
		}
	}
	r.log().ErrorContext(c.Request.Context(), "unhandled request error",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	return ErrorResponse{
		HTTPCode:     http.StatusInternalServerError,
		Message:      ML999.Message,
		InternalCode: ML999.Code,
	}
}

func (r *Responder) log() *slog.Logger {
	if r == nil || r.logger == nil {
		return slog.Default()
	}
	return r.logger
}
