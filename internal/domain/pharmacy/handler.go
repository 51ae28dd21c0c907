package pharmacy

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/domain/record"
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
	api.POST("/prescriptions", h.Create, auth.Require(auth.OpPrescriptionCreate))
	api.GET("/patients/:id/prescriptions", h.ListByPatient, auth.Require(auth.OpPrescriptionList))
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}

	rx, err := h.svc.Create(in, auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "Prescription created successfully",
		"prescription": rx,
	})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid patient id")
	}
	return c.JSON(http.StatusOK, map[string][]record.Prescription{
		"prescriptions": h.svc.ListByPatient(patientID),
	})
}
