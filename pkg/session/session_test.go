package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, userID, name, role string) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestFromToken(t *testing.T) {
	t.Run("parses identity claims", func(t *testing.T) {
		sess, err := FromToken(signedToken(t, "u-17", "Sadia Islam", "admission"))
		require.NoError(t, err)
		assert.True(t, sess.Authenticated())
		assert.Equal(t, "u-17", sess.UserID)
		assert.Equal(t, "Sadia Islam", sess.Name)
		assert.Equal(t, RoleAdmission, sess.Role)
	})

	t.Run("strips Bearer prefix", func(t *testing.T) {
		sess, err := FromToken("Bearer " + signedToken(t, "u-1", "Admin", "admin"))
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, sess.Role)
	})

	t.Run("empty token yields anonymous, not an error", func(t *testing.T) {
		sess, err := FromToken("")
		require.NoError(t, err)
		assert.False(t, sess.Authenticated())
	})

	t.Run("malformed token errors", func(t *testing.T) {
		_, err := FromToken("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		role       Role
		admissions bool
		fees       bool
	}{
		{RoleAdmin, true, true},
		{RoleAdmission, true, true},
		{RoleAccounts, false, true},
		{RoleRecruitment, false, false},
		{RoleMotion, false, false},
		{RoleHR, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			s := &Session{Token: "x", Role: tt.role}
			assert.Equal(t, tt.admissions, s.CanManageAdmissions())
			assert.Equal(t, tt.fees, s.CanCollectFees())
		})
	}

	t.Run("nil session denies everything", func(t *testing.T) {
		var s *Session
		assert.False(t, s.CanManageAdmissions())
		assert.False(t, s.CanCollectFees())
		assert.False(t, s.Authenticated())
	})
}
