package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/admitdesk/backoffice/pkg/api/middleware"
	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/fees"
	"github.com/admitdesk/backoffice/pkg/models"
)

// FeesHandler serves admission fee collection.
type FeesHandler struct {
	svc *fees.Service
}

// NewFeesHandler creates the fees handler.
func NewFeesHandler(svc *fees.Service) *FeesHandler {
	return &FeesHandler{svc: svc}
}

// Register mounts the fee routes.
func (h *FeesHandler) Register(g *echo.Group) {
	g.POST("/fees", h.Collect)
	g.GET("/fees/status/:leadId", h.Status)
}

// Collect serves POST /fees.
func (h *FeesHandler) Collect(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var body models.CreateFeeRequest
	if err := c.Bind(&body); err != nil {
		return respondError(c, domain.NewValidationError("malformed request body"))
	}

	fee, err := h.svc.Collect(ctx, apimw.FromContext(c), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, fee)
}

// Status serves GET /fees/status/:leadId.
func (h *FeesHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	fs, err := h.svc.Status(ctx, apimw.FromContext(c), c.Param("leadId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fs)
}
