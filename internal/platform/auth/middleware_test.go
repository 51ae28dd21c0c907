package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

func runProtected(t *testing.T, issuer *Issuer, authHeader string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(issuer)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestMiddlewareMissingHeader(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	err := runProtected(t, issuer, "")
	if !apperr.IsKind(err, apperr.Unauthenticated) {
		t.Errorf("expected Unauthenticated, got %v", err)
	}
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	for _, h := range []string{"Token abc", "Bearer", "abc"} {
		err := runProtected(t, issuer, h)
		if !apperr.IsKind(err, apperr.Unauthenticated) {
			t.Errorf("header %q: expected Unauthenticated, got %v", h, err)
		}
	}
}

func TestMiddlewareValidToken(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	token, _ := issuer.Issue(7, "dr1", RoleDoctor)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *Claims
	handler := Middleware(issuer)(func(c echo.Context) error {
		seen, _ = ClaimsFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen == nil {
		t.Fatal("claims not placed on context")
	}
	if seen.UserID != 7 || seen.Role != RoleDoctor {
		t.Errorf("claims = %+v", seen)
	}
}

func TestRequireDeniesWrongRole(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	token, _ := issuer.Issue(3, "lab1", RoleLabTechnician)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(issuer)(Require(OpPrescriptionCreate)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))
	err := handler(c)
	if !apperr.IsKind(err, apperr.Forbidden) {
		t.Errorf("expected Forbidden, got %v", err)
	}
}

func TestRequireAllowsListedRole(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	token, _ := issuer.Issue(3, "lab1", RoleLabTechnician)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(issuer)(Require(OpLabResultCreate)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))
	if err := handler(c); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequireWithoutAuthContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Require(OpPatientRead)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	if !apperr.IsKind(err, apperr.Unauthenticated) {
		t.Errorf("expected Unauthenticated when no claims present, got %v", err)
	}
}
