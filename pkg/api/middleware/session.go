// Package middleware holds API-surface middleware: session extraction.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/admitdesk/backoffice/pkg/models"
	"github.com/admitdesk/backoffice/pkg/session"
)

const sessionKey = "staff-session"

// Session parses the Authorization header into a session object and stashes
// it on the request context. A missing header yields an anonymous session;
// the backend is the enforcement point, so absence is not rejected here.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.FromToken(c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "Session token is malformed",
				})
			}
			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// FromContext returns the session stashed by Session, or an anonymous one.
func FromContext(c echo.Context) *session.Session {
	if sess, ok := c.Get(sessionKey).(*session.Session); ok {
		return sess
	}
	return session.Anonymous()
}
