// Copyright (c) 2026 QuickShift. All rights reserved.

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/constants"
	"github.com/quickshift/quickshift/internal/platform/middleware"
	"github.com/quickshift/quickshift/internal/platform/sec"
)

// # Fakes

type fakeRefresher struct {
	accessToken  string
	refreshToken string
	err          error

	called    bool
	gotToken  string
	gotDevice string
}

func (f *fakeRefresher) RefreshForDevice(_ context.Context, refreshToken, deviceName string) (string, string, error) {
	f.called = true
	f.gotToken = refreshToken
	f.gotDevice = deviceName
	if f.err != nil {
		return "", "", f.err
	}
	return f.accessToken, f.refreshToken, nil
}

type fakeResolver struct {
	roles map[string]sec.RoleSet
	err   error
}

func (f *fakeResolver) RolesByUsername(_ context.Context, username string) (sec.RoleSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	roles, ok := f.roles[username]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return roles, nil
}

// # Harness

type authzHarness struct {
	tokens    *sec.TokenService
	signer    *sec.CookieSigner
	cookies   middleware.CookiePolicy
	refresher *fakeRefresher
}

func newAuthzHarness(t *testing.T, accessTTL time.Duration) *authzHarness {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret-0123456789", "quickshift.test", accessTTL)
	require.NoError(t, err)

	signer := sec.NewCookieSigner("cookie-secret-0123456789")

	return &authzHarness{
		tokens: tokens,
		signer: signer,
		cookies: middleware.CookiePolicy{
			Signer:     signer,
			AccessTTL:  accessTTL,
			RefreshTTL: time.Hour,
		},
		refresher: &fakeRefresher{},
	}
}

func (harness *authzHarness) config() middleware.AuthConfig {
	return middleware.AuthConfig{
		Verifier:  harness.tokens,
		Refresher: harness.refresher,
		Cookies:   harness.cookies,
	}
}

// serve runs an Authenticate-wrapped probe handler and reports the claims
// that reached it (nil when the handler was never invoked or anonymous).
func (harness *authzHarness) serve(request *http.Request) (*httptest.ResponseRecorder, *sec.AuthClaims, bool) {
	var (
		reached bool
		claims  *sec.AuthClaims
	)

	handler := middleware.Authenticate(harness.config())(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			reached = true
			claims = middleware.GetUser(request.Context())
			writer.WriteHeader(http.StatusOK)
		}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder, claims, reached
}

func (harness *authzHarness) accessCookie(t *testing.T, username string, roles sec.RoleSet) *http.Cookie {
	t.Helper()

	token, err := harness.tokens.GenerateAccessToken("user-1", username, roles)
	require.NoError(t, err)

	return &http.Cookie{
		Name:  constants.AccessTokenCookieName,
		Value: harness.signer.Sign(token),
	}
}

// # Authenticate

/*
TestAuthenticate_ValidToken verifies that a valid signed access cookie
resolves to claims in the request context.
*/
func TestAuthenticate_ValidToken(t *testing.T) {
	harness := newAuthzHarness(t, 15*time.Minute)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(harness.accessCookie(t, "alice", sec.RoleSet{sec.RoleWorker}))

	recorder, claims, reached := harness.serve(request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, reached)
	require.NotNil(t, claims)
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, harness.refresher.called)
}

/*
TestAuthenticate_Anonymous verifies that requests without an access cookie
pass through unauthenticated instead of being rejected.
*/
func TestAuthenticate_Anonymous(t *testing.T) {
	harness := newAuthzHarness(t, 15*time.Minute)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder, claims, reached := harness.serve(request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, reached)
	assert.Nil(t, claims)
}

/*
TestAuthenticate_ForgedCookie verifies that an access cookie with a bad
signature is rejected before any JWT parsing.
*/
func TestAuthenticate_ForgedCookie(t *testing.T) {
	harness := newAuthzHarness(t, 15*time.Minute)

	token, err := harness.tokens.GenerateAccessToken("user-1", "alice", sec.RoleSet{sec.RoleWorker})
	require.NoError(t, err)

	// Valid JWT, but signed by a different cookie secret
	otherSigner := sec.NewCookieSigner("a-different-cookie-secret")
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{
		Name:  constants.AccessTokenCookieName,
		Value: otherSigner.Sign(token),
	})

	recorder, _, reached := harness.serve(request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, reached)
	assert.False(t, harness.refresher.called)
}

/*
TestAuthenticate_GarbageToken verifies that a non-expired verification
failure never triggers the refresh flow.
*/
func TestAuthenticate_GarbageToken(t *testing.T) {
	harness := newAuthzHarness(t, 15*time.Minute)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{
		Name:  constants.AccessTokenCookieName,
		Value: harness.signer.Sign("not.a.jwt"),
	})
	request.AddCookie(&http.Cookie{
		Name:  constants.RefreshTokenCookieName,
		Value: "some-refresh-token",
	})

	recorder, _, reached := harness.serve(request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, reached)
	assert.False(t, harness.refresher.called, "invalid (non-expired) tokens must not be refreshed")
}

/*
TestAuthenticate_LazyRefresh verifies the transparent rotation: an expired
access token plus a refresh cookie yields new cookies and a served request.
*/
func TestAuthenticate_LazyRefresh(t *testing.T) {
	harness := newAuthzHarness(t, -time.Minute) // every issued token is already expired

	// The refresher hands back a verifiable (non-expired) replacement
	freshTokens, err := sec.NewTokenService("test-secret-0123456789", "quickshift.test", 15*time.Minute)
	require.NoError(t, err)
	replacement, err := freshTokens.GenerateAccessToken("user-1", "alice", sec.RoleSet{sec.RoleWorker})
	require.NoError(t, err)

	harness.refresher.accessToken = replacement
	harness.refresher.refreshToken = "rotated-refresh-token"

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("User-Agent", "test-laptop")
	request.AddCookie(harness.accessCookie(t, "alice", sec.RoleSet{sec.RoleWorker}))
	request.AddCookie(&http.Cookie{
		Name:  constants.RefreshTokenCookieName,
		Value: "original-refresh-token",
	})

	recorder, claims, reached := harness.serve(request)

	// 1. The request is served with the refreshed identity
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, reached)
	require.NotNil(t, claims)
	assert.Equal(t, "alice", claims.Username)

	// 2. The refresher received the original token and the device name
	assert.True(t, harness.refresher.called)
	assert.Equal(t, "original-refresh-token", harness.refresher.gotToken)
	assert.Equal(t, "test-laptop", harness.refresher.gotDevice)

	// 3. Both cookies were rotated on the response
	cookies := recorder.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	require.Contains(t, byName, constants.AccessTokenCookieName)
	require.Contains(t, byName, constants.RefreshTokenCookieName)
	assert.Equal(t, "rotated-refresh-token", byName[constants.RefreshTokenCookieName].Value)

	unwrapped, ok := harness.signer.Verify(byName[constants.AccessTokenCookieName].Value)
	require.True(t, ok)
	assert.Equal(t, replacement, unwrapped)
}

/*
TestAuthenticate_ExpiredWithoutRefreshCookie verifies that expiry without a
refresh token terminates the request.
*/
func TestAuthenticate_ExpiredWithoutRefreshCookie(t *testing.T) {
	harness := newAuthzHarness(t, -time.Minute)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(harness.accessCookie(t, "alice", sec.RoleSet{sec.RoleWorker}))

	recorder, _, reached := harness.serve(request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, reached)
	assert.False(t, harness.refresher.called)
}

/*
TestAuthenticate_RefreshFailure verifies that a rejected rotation (revoked
or replayed refresh token) terminates the request.
*/
func TestAuthenticate_RefreshFailure(t *testing.T) {
	harness := newAuthzHarness(t, -time.Minute)
	harness.refresher.err = apperr.Unauthorized("Invalid or expired refresh token")

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(harness.accessCookie(t, "alice", sec.RoleSet{sec.RoleWorker}))
	request.AddCookie(&http.Cookie{
		Name:  constants.RefreshTokenCookieName,
		Value: "revoked-refresh-token",
	})

	recorder, _, reached := harness.serve(request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, reached)
	assert.True(t, harness.refresher.called)
}

// # Guard

func guardProbe(guard *middleware.Guard, role sec.Role) (http.Handler, *bool) {
	reached := false
	handler := guard.RequireRole(role)(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			reached = true
			writer.WriteHeader(http.StatusOK)
		}))
	return handler, &reached
}

func authedRequest(t *testing.T, harness *authzHarness, username string, roles sec.RoleSet) *http.Request {
	t.Helper()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(harness.accessCookie(t, username, roles))
	return request
}

/*
TestGuard_RequireRole verifies the full authorization matrix: anonymous,
role present, role missing, stale token claims, deleted user, and resolver
storage failure.
*/
func TestGuard_RequireRole(t *testing.T) {
	harness := newAuthzHarness(t, 15*time.Minute)

	resolver := &fakeResolver{roles: map[string]sec.RoleSet{
		"admin-user": {sec.RoleAdmin, sec.RoleWorker},
		"plain-user": {sec.RoleWorker},
		"promoted":   {sec.RoleEmployer, sec.RoleWorker},
	}}
	guard := middleware.NewGuard(resolver)

	run := func(request *http.Request, role sec.Role) (int, bool) {
		probe, reached := guardProbe(guard, role)
		handler := middleware.Authenticate(harness.config())(probe)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code, *reached
	}

	// 1. Anonymous request → 401
	status, reached := run(httptest.NewRequest(http.MethodGet, "/", nil), sec.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, reached)

	// 2. Authenticated with the required role → 200
	status, reached = run(authedRequest(t, harness, "admin-user", sec.RoleSet{sec.RoleAdmin}), sec.RoleAdmin)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, reached)

	// 3. Authenticated without the required role → 403
	status, reached = run(authedRequest(t, harness, "plain-user", sec.RoleSet{sec.RoleWorker}), sec.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, reached)

	// 4. STORED roles win over token claims: the token says WORKER only,
	//    but storage says the user is now an EMPLOYER
	status, reached = run(authedRequest(t, harness, "promoted", sec.RoleSet{sec.RoleWorker}), sec.RoleEmployer)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, reached)

	// 5. User deleted after token issue → 403
	status, reached = run(authedRequest(t, harness, "ghost", sec.RoleSet{sec.RoleAdmin}), sec.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, reached)

	// 6. Resolver storage failure → 500, never disguised as a role denial
	resolver.err = errors.New("connection refused")
	status, reached = run(authedRequest(t, harness, "admin-user", sec.RoleSet{sec.RoleAdmin}), sec.RoleAdmin)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, reached)
}

/*
TestGuard_RequireAnyRole verifies that membership in any one of the accepted
roles is sufficient.
*/
func TestGuard_RequireAnyRole(t *testing.T) {
	harness := newAuthzHarness(t, 15*time.Minute)

	resolver := &fakeResolver{roles: map[string]sec.RoleSet{
		"manager": {sec.RoleCompanyAdmin},
	}}
	guard := middleware.NewGuard(resolver)

	reached := false
	probe := guard.RequireAnyRole(sec.RoleEmployer, sec.RoleCompanyAdmin)(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			reached = true
			writer.WriteHeader(http.StatusOK)
		}))

	handler := middleware.Authenticate(harness.config())(probe)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, authedRequest(t, harness, "manager", sec.RoleSet{sec.RoleCompanyAdmin}))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, reached)
}

/*
TestGuard_RequireAuth verifies the bare authentication gate.
*/
func TestGuard_RequireAuth(t *testing.T) {
	harness := newAuthzHarness(t, 15*time.Minute)
	guard := middleware.NewGuard(&fakeResolver{})

	reached := false
	probe := guard.RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = true
		writer.WriteHeader(http.StatusOK)
	}))
	handler := middleware.Authenticate(harness.config())(probe)

	// 1. Anonymous → 401
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, reached)

	// 2. Authenticated → 200
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, authedRequest(t, harness, "alice", sec.RoleSet{sec.RoleWorker}))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, reached)
}
