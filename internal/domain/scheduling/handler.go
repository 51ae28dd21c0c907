package scheduling

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
	api.POST("/appointments", h.Create, auth.Require(auth.OpAppointmentCreate))
	api.GET("/appointments", h.List, auth.Require(auth.OpAppointmentList))
	api.PUT("/appointments/:id/status", h.UpdateStatus, auth.Require(auth.OpAppointmentStatus))
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}

	appt, err := h.svc.Create(in, auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":     "Appointment created successfully",
		"appointment": appt,
	})
}

func (h *Handler) List(c echo.Context) error {
	var f Filter
	if v := c.QueryParam("patientId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperr.New(apperr.Validation, "Invalid patientId")
		}
		f.PatientID = id
	}
	if v := c.QueryParam("doctorId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperr.New(apperr.Validation, "Invalid doctorId")
		}
		f.DoctorID = id
	}
	f.Status = c.QueryParam("status")
	f.Date = c.QueryParam("date")

	return c.JSON(http.StatusOK, map[string][]record.Appointment{
		"appointments": h.svc.List(f),
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid appointment id")
	}

	var in statusRequest
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}

	appt, err := h.svc.UpdateStatus(id, in.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Appointment status updated",
		"appointment": appt,
	})
}
