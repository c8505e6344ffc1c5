package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/admitdesk/backoffice/pkg/api/middleware"
	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/history"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/models"
	"github.com/admitdesk/backoffice/pkg/pipeline"
)

// HistoryHandler serves the single-lead detail view.
type HistoryHandler struct {
	svc *history.Service
}

// NewHistoryHandler creates the lead detail handler.
func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// Register mounts the lead detail routes.
func (h *HistoryHandler) Register(g *echo.Group) {
	g.GET("/leads/:id", h.Detail)
	g.POST("/leads/:id/follow-ups", h.AddFollowUp)
	g.POST("/leads/:id/actions/:action", h.Apply)
}

// Detail serves GET /leads/:id: the lead, its follow-up log, and the actions
// its current status offers.
func (h *HistoryHandler) Detail(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	detail, err := h.svc.Load(ctx, apimw.FromContext(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// AddFollowUp serves POST /leads/:id/follow-ups: a note without a status move.
func (h *HistoryHandler) AddFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var body models.FollowUpRequest
	if err := c.Bind(&body); err != nil {
		return respondError(c, domain.NewValidationError("malformed request body"))
	}

	fu, err := h.svc.AddFollowUp(ctx, apimw.FromContext(c), c.Param("id"), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, fu)
}

// Apply serves POST /leads/:id/actions/:action: a transition driven from the
// detail view, guarded against the freshly loaded status.
func (h *HistoryHandler) Apply(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	action, err := lead.ParseAction(c.Param("action"))
	if err != nil {
		return respondError(c, domain.NewValidationError(err.Error()))
	}

	var body transitionBody
	if err := c.Bind(&body); err != nil {
		return respondError(c, domain.NewValidationError("malformed request body"))
	}

	detail, err := h.svc.Apply(ctx, apimw.FromContext(c), c.Param("id"), action, pipeline.TransitionRequest{
		Notes:            body.Notes,
		CourseID:         body.CourseID,
		BatchID:          body.BatchID,
		NextFollowUpDate: body.NextFollowUpDate,
		Priority:         body.Priority,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
