// Package session turns the bearer token handed to us by the staff UI into an
// explicit credentials object. Nothing here reads ambient storage: callers
// pass the Session into every gateway call.
package session

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Role is a staff role carried in the token claims.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleAdmission   Role = "admission"
	RoleAccounts    Role = "accounts"
	RoleRecruitment Role = "recruitment"
	RoleMotion      Role = "motion"
	RoleHR          Role = "hr"
)

// Claims mirrors the backend's token payload.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session holds the caller's bearer token and the identity parsed from it.
type Session struct {
	Token  string
	UserID string
	Name   string
	Role   Role
}

// Anonymous returns a session without credentials. The gateway sends no
// Authorization header for it; the backend enforces auth, so absence of a
// token is not an error at this layer.
func Anonymous() *Session {
	return &Session{}
}

// FromToken parses the bearer token's claims without verifying the signature.
// Only the backend holds the signing secret; the parsed role is a UI
// affordance, never the enforcement point.
func FromToken(token string) (*Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Anonymous(), nil
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	return &Session{
		Token:  token,
		UserID: claims.UserID,
		Name:   claims.Name,
		Role:   Role(claims.Role),
	}, nil
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// CanManageAdmissions reports whether the caller may drive pipeline
// transitions.
func (s *Session) CanManageAdmissions() bool {
	if s == nil {
		return false
	}
	return s.Role == RoleAdmin || s.Role == RoleAdmission
}

// CanCollectFees reports whether the caller may submit admission fee records.
func (s *Session) CanCollectFees() bool {
	if s == nil {
		return false
	}
	return s.Role == RoleAdmin || s.Role == RoleAdmission || s.Role == RoleAccounts
}
