package lab

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
	"github.com/clinicbase/clinicbase/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/lab-results", h.Create, auth.Require(auth.OpLabResultCreate))
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}

	lr, err := h.svc.Create(in, auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Lab result recorded successfully",
		"labResult": lr,
	})
}
