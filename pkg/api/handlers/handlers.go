// Package handlers exposes the back-office HTTP API consumed by the staff UI.
package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/admitdesk/backoffice/pkg/domain"
	"github.com/admitdesk/backoffice/pkg/models"
)

// requestTimeout bounds each handler's upstream work; the gateway inherits
// whatever time remains through the context.
const requestTimeout = 15 * time.Second

// respondError maps a domain error to an HTTP status and the uniform error
// body. Unknown errors become a 500 with a generic message.
func respondError(c echo.Context, err error) error {
	code := domain.GetErrorCode(err)
	status := http.StatusInternalServerError

	switch code {
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
	case domain.ErrCodeValidation, domain.ErrCodeInvalidTransition:
		status = http.StatusBadRequest
	case domain.ErrCodeFeeNotApproved:
		status = http.StatusConflict
	case domain.ErrCodeActionInFlight:
		status = http.StatusConflict
	case domain.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case domain.ErrCodeForbidden:
		status = http.StatusForbidden
	case domain.ErrCodeUpstream, domain.ErrCodeTransport:
		status = http.StatusBadGateway
	}

	return c.JSON(status, models.ErrorResponse{
		Code:    code,
		Message: domain.UserMessage(err),
	})
}
