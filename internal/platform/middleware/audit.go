package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicbase/clinicbase/internal/platform/auth"
)

// Audit writes one log entry per authenticated access to clinical data:
// who, what, from where, and the outcome. Unauthenticated requests are
// covered by the request logger alone.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			claims, ok := auth.ClaimsFromContext(c.Request().Context())
			if !ok {
				return err
			}

			evt := logger.Info().
				Int64("user_id", claims.UserID).
				Str("username", claims.Username).
				Str("role", string(claims.Role)).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Str("remote_ip", c.RealIP())
			if rid, _ := c.Get("request_id").(string); rid != "" {
				evt = evt.Str("request_id", rid)
			}
			if id := c.Param("id"); id != "" {
				evt = evt.Str("record_id", id)
			}
			evt.Msg("audit")

			return err
		}
	}
}
