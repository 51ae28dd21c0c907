package middleware

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

// BodyLimit caps the request body at limit bytes. The Content-Length header
// gives an early rejection; a limiting reader backs it up for chunked or
// lying clients. Zero or negative disables the cap.
func BodyLimit(limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limit <= 0 || c.Request().Body == nil || c.Request().Body == http.NoBody {
				return next(c)
			}
			if c.Request().ContentLength > limit {
				return apperr.New(apperr.Validation, "Request body too large")
			}
			c.Request().Body = &limitedReadCloser{ReadCloser: c.Request().Body, remaining: limit}
			return next(c)
		}
	}
}

type limitedReadCloser struct {
	io.ReadCloser
	remaining int64
	exceeded  bool
}

func (r *limitedReadCloser) Read(p []byte) (int, error) {
	if r.exceeded {
		return 0, apperr.New(apperr.Validation, "Request body too large")
	}

	toRead := int64(len(p))
	if toRead > r.remaining+1 {
		toRead = r.remaining + 1
	}

	n, err := r.ReadCloser.Read(p[:toRead])
	r.remaining -= int64(n)
	if r.remaining < 0 {
		r.exceeded = true
		return 0, apperr.New(apperr.Validation, "Request body too large")
	}
	return n, err
}
