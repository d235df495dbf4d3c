// Copyright (c) 2026 QuickShift. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickshift/quickshift/internal/platform/sec"
)

func newTestTokenService(t *testing.T, ttl time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-signing-secret", "quickshift.test", ttl)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that a signed token decodes back into
the original identity claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute)

	token, err := service.GenerateAccessToken("user-123", "alice", sec.RoleSet{sec.RoleWorker, sec.RoleEmployer})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "quickshift.test", claims.Issuer)
	assert.True(t, claims.RoleSet().Has(sec.RoleWorker))
	assert.True(t, claims.RoleSet().Has(sec.RoleEmployer))
	assert.False(t, claims.RoleSet().Has(sec.RoleAdmin))
}

/*
TestTokenService_Expired verifies that an expired token fails with the
distinguishable [sec.ErrTokenExpired] sentinel, which is what allows the
middleware to attempt a refresh instead of rejecting outright.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t, -1*time.Second)

	token, err := service.GenerateAccessToken("user-123", "alice", sec.RoleSet{sec.RoleWorker})
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_InvalidSignature verifies that a token signed with a
different secret is rejected as invalid, NOT as expired.
*/
func TestTokenService_InvalidSignature(t *testing.T) {
	serviceA := newTestTokenService(t, 15*time.Minute)
	serviceB, err := sec.NewTokenService("another-secret", "quickshift.test", 15*time.Minute)
	require.NoError(t, err)

	token, err := serviceA.GenerateAccessToken("user-123", "alice", sec.RoleSet{sec.RoleWorker})
	require.NoError(t, err)

	_, err = serviceB.VerifyAccessToken(token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Malformed verifies that structurally broken tokens are
rejected.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyAccessToken(tt.token)
			require.Error(t, err)
			assert.NotErrorIs(t, err, sec.ErrTokenExpired)
		})
	}
}

/*
TestNewTokenService_EmptySecret verifies the constructor refuses an empty
signing secret.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "quickshift.test", 15*time.Minute)
	require.Error(t, err)
}
