// Package apperr defines the error taxonomy shared by every boundary
// operation. Handlers and services return *Error values with a stable Kind;
// the central HTTP error handler maps kinds to status codes and renders the
// {error, details?} envelope. Anything unclassified collapses to Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Kind is the machine-checkable classification of an error.
type Kind int

const (
	Internal Kind = iota
	Validation
	Unauthenticated
	Forbidden
	NotFound
	Duplicate
	InvalidCredential
	Storage
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Duplicate:
		return "duplicate"
	case InvalidCredential:
		return "invalid_credential"
	case Storage:
		return "storage"
	default:
		return "internal"
	}
}

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind carrying the underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or Internal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func statusFor(kind Kind) int {
	switch kind {
	case Validation, Duplicate:
		return http.StatusBadRequest
	case Unauthenticated, InvalidCredential:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Storage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// envelope is the wire shape of every error response.
type envelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HTTPErrorHandler returns an echo error handler that renders the taxonomy.
// Internal faults are logged with their cause but the cause never reaches
// the client.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := envelope{Error: "Internal server error"}

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = statusFor(appErr.Kind)
			body.Error = appErr.Msg
			if appErr.Kind == Storage && appErr.Err != nil {
				body.Details = appErr.Err.Error()
			}
			if appErr.Kind == Internal {
				body.Error = "Internal server error"
				logger.Error().Err(err).Str("path", c.Path()).Msg("internal error")
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(status)
			}
		default:
			logger.Error().Err(err).Str("path", c.Path()).Msg("unclassified error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
