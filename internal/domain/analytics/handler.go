// Package analytics exposes the admin overview counters.
package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/auth"
)

type Handler struct {
	graph *record.Graph
}

func NewHandler(graph *record.Graph) *Handler {
	return &Handler{graph: graph}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/analytics/overview", h.Overview, auth.Require(auth.OpAnalyticsOverview))
}

func (h *Handler) Overview(c echo.Context) error {
	return c.JSON(http.StatusOK, h.graph.Stats())
}
