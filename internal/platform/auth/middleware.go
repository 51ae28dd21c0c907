package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Middleware extracts the Bearer token from the Authorization header,
// verifies it and puts the claims on the request context. A missing header
// and an invalid token are both Unauthenticated.
func Middleware(issuer *Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return apperr.New(apperr.Unauthenticated, "Access token required")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperr.New(apperr.Unauthenticated, "Access token required")
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				return err
			}

			ctx := context.WithValue(c.Request().Context(), claimsKey, claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ClaimsFromContext returns the verified claims placed by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user's id, or 0 when absent.
func UserIDFromContext(ctx context.Context) int64 {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.UserID
	}
	return 0
}
