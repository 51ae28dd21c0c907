package patient

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
	"github.com/clinicbase/clinicbase/internal/platform/auth"
	"github.com/clinicbase/clinicbase/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients", h.Create, auth.Require(auth.OpPatientCreate))
	api.GET("/patients", h.List, auth.Require(auth.OpPatientList))
	api.GET("/patients/:id", h.Get, auth.Require(auth.OpPatientRead))
	api.PUT("/patients/:id", h.Update, auth.Require(auth.OpPatientUpdate))
}

type createResponse struct {
	Message string          `json:"message"`
	Patient *record.Patient `json:"patient"`
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}

	patient, err := h.svc.Create(in, auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createResponse{
		Message: "Patient created successfully",
		Patient: patient,
	})
}

type listResponse struct {
	Patients   []record.Patient `json:"patients"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total := h.svc.List(c.QueryParam("search"), pg.Page, pg.Limit)
	if patients == nil {
		patients = []record.Patient{}
	}
	return c.JSON(http.StatusOK, listResponse{
		Patients:   patients,
		Total:      total,
		Page:       pg.Page,
		TotalPages: pg.TotalPages(total),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid patient id")
	}

	detail, err := h.svc.Detail(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid patient id")
	}

	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}

	patient, err := h.svc.Update(id, in, auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Patient updated successfully",
		"patient": patient,
	})
}
