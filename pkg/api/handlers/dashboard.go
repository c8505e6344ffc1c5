package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/admitdesk/backoffice/pkg/api/middleware"
	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/gateway"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/reporting"
)

// DashboardHandler serves the admission dashboard and lead exports.
type DashboardHandler struct {
	svc      *reporting.Service
	exporter *reporting.Exporter
	gw       reporting.Gateway
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(svc *reporting.Service, exporter *reporting.Exporter, gw reporting.Gateway) *DashboardHandler {
	return &DashboardHandler{svc: svc, exporter: exporter, gw: gw}
}

// Register mounts the dashboard routes.
func (h *DashboardHandler) Register(g *echo.Group) {
	g.GET("/dashboard", h.Snapshot)
	g.POST("/dashboard/refresh", h.Refresh)
	g.POST("/exports", h.Export)
}

// Snapshot serves GET /dashboard: the last computed snapshot.
func (h *DashboardHandler) Snapshot(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	snap, err := h.svc.Snapshot(ctx, apimw.FromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Refresh serves POST /dashboard/refresh: an on-demand recompute.
func (h *DashboardHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	snap, err := h.svc.Refresh(ctx, apimw.FromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Export serves POST /exports?tab=: writes the tab's leads to a spreadsheet
// and returns the file.
func (h *DashboardHandler) Export(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var tab lead.Status
	if raw := c.QueryParam("tab"); raw != "" {
		parsed, err := lead.ParseStatus(raw)
		if err != nil {
			return respondError(c, domain.NewValidationError(err.Error()))
		}
		tab = parsed
	}

	leads, err := h.gw.ListLeads(ctx, apimw.FromContext(c), gateway.LeadQuery{Status: tab})
	if err != nil {
		return respondError(c, err)
	}

	path, err := h.exporter.ExportLeads(leads, string(tab))
	if err != nil {
		return respondError(c, domain.NewInternalError(err))
	}
	return c.Attachment(path, "leads.xlsx")
}
