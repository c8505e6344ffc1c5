package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/admitdesk/backoffice/pkg/api/middleware"
	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/models"
	"github.com/admitdesk/backoffice/pkg/pipeline"
)

// PipelineHandler serves the per-status lead tabs and transitions.
type PipelineHandler struct {
	svc *pipeline.Service
}

// NewPipelineHandler creates the pipeline handler.
func NewPipelineHandler(svc *pipeline.Service) *PipelineHandler {
	return &PipelineHandler{svc: svc}
}

// Register mounts the pipeline routes.
func (h *PipelineHandler) Register(g *echo.Group) {
	g.GET("/pipeline/leads", h.List)
	g.POST("/pipeline/leads/refresh", h.Refresh)
	g.POST("/pipeline/leads/:id/transition", h.Transition)
	g.GET("/pipeline/leads/:id/fee-status", h.FeeStatus)
	g.GET("/pipeline/options", h.Options)
}

func (h *PipelineHandler) filters(c echo.Context) pipeline.Filters {
	return pipeline.Filters{
		Course:     c.QueryParam("course"),
		Priority:   lead.Priority(c.QueryParam("priority")),
		Window:     pipeline.FollowUpWindow(c.QueryParam("window")),
		Date:       c.QueryParam("date"),
		SearchTerm: c.QueryParam("q"),
	}
}

func (h *PipelineHandler) tab(c echo.Context) (lead.Status, error) {
	raw := c.QueryParam("tab")
	if raw == "" {
		raw = string(lead.StatusAssigned)
	}
	status, err := lead.ParseStatus(raw)
	if err != nil {
		return "", domain.NewValidationError(err.Error())
	}
	return status, nil
}

// List serves GET /pipeline/leads?tab=&course=&priority=&window=&date=&q=
func (h *PipelineHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	tab, err := h.tab(c)
	if err != nil {
		return respondError(c, err)
	}

	leads, err := h.svc.LoadLeads(ctx, apimw.FromContext(c), tab, h.filters(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.LeadListResponse{Leads: leads})
}

// Refresh serves POST /pipeline/leads/refresh?tab=
func (h *PipelineHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	tab, err := h.tab(c)
	if err != nil {
		return respondError(c, err)
	}

	leads, err := h.svc.Refresh(ctx, apimw.FromContext(c), tab, h.filters(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.LeadListResponse{Leads: leads})
}

type transitionBody struct {
	Action           string        `json:"action"`
	From             string        `json:"from"`
	Notes            string        `json:"notes,omitempty"`
	CourseID         string        `json:"courseId,omitempty"`
	BatchID          string        `json:"batchId,omitempty"`
	NextFollowUpDate string        `json:"nextFollowUpDate,omitempty"`
	Priority         lead.Priority `json:"priority,omitempty"`
}

// Transition serves POST /pipeline/leads/:id/transition
func (h *PipelineHandler) Transition(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var body transitionBody
	if err := c.Bind(&body); err != nil {
		return respondError(c, domain.NewValidationError("malformed request body"))
	}

	action, err := lead.ParseAction(body.Action)
	if err != nil {
		return respondError(c, domain.NewValidationError(err.Error()))
	}
	from, err := lead.ParseStatus(body.From)
	if err != nil {
		return respondError(c, domain.NewValidationError(err.Error()))
	}

	updated, err := h.svc.Transition(ctx, apimw.FromContext(c), pipeline.TransitionRequest{
		LeadID:           c.Param("id"),
		From:             from,
		Action:           action,
		Notes:            body.Notes,
		CourseID:         body.CourseID,
		BatchID:          body.BatchID,
		NextFollowUpDate: body.NextFollowUpDate,
		Priority:         body.Priority,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// FeeStatus serves GET /pipeline/leads/:id/fee-status
func (h *PipelineHandler) FeeStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	fs, err := h.svc.CheckFeeStatus(ctx, apimw.FromContext(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fs)
}

type optionsResponse struct {
	Courses []models.Course `json:"courses"`
	Batches []models.Batch  `json:"batches"`
}

// Options serves GET /pipeline/options: the admit dialog's selection lists.
func (h *PipelineHandler) Options(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	courses, batches, err := h.svc.AdmitOptions(ctx, apimw.FromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, optionsResponse{Courses: courses, Batches: batches})
}
