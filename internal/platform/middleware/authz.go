// Copyright (c) 2026 QuickShift. All rights reserved.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/constants"
	"github.com/quickshift/quickshift/internal/platform/ctxkey"
	"github.com/quickshift/quickshift/internal/platform/ctxutil"
	"github.com/quickshift/quickshift/internal/platform/respond"
	"github.com/quickshift/quickshift/internal/platform/sec"
)

// # Contracts

// TokenVerifier defines the interface needed to verify access tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionRefresher performs the refresh-token rotation flow on behalf of the
// middleware when an access token has expired mid-session.
//
// Implemented by the auth service. The middleware never touches storage
// directly.
type SessionRefresher interface {
	// RefreshForDevice exchanges a refresh token for a new token pair,
	// rotating the stored session for the given device.
	RefreshForDevice(ctx context.Context, refreshToken, deviceName string) (accessToken, newRefreshToken string, err error)
}

// RoleResolver resolves the CURRENT role set of a user by username.
//
// Role checks deliberately consult storage rather than trusting the role
// claim baked into the JWT: a role revoked after token issue must take
// effect within one request, not one token lifetime.
type RoleResolver interface {
	RolesByUsername(ctx context.Context, username string) (sec.RoleSet, error)
}

// # Session Cookies

// CookiePolicy centralizes how the two session cookies are written.
//
// The access-token cookie is signed ([sec.CookieSigner]) so the middleware
// can reject forged values before any JWT parsing. The refresh-token cookie
// is plain: its value is opaque and only meaningful after a server-side
// lookup.
type CookiePolicy struct {
	Signer     *sec.CookieSigner
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Secure is false only in development so local HTTP testing works.
	Secure bool
}

// Set writes fresh access/refresh cookies onto the response.
func (policy CookiePolicy) Set(writer http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    policy.Signer.Sign(accessToken),
		Path:     constants.CookiePath,
		MaxAge:   int(policy.AccessTTL.Seconds()),
		Secure:   policy.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    refreshToken,
		Path:     constants.CookiePath,
		MaxAge:   int(policy.RefreshTTL.Seconds()),
		Secure:   policy.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires both session cookies on the client.
func (policy CookiePolicy) Clear(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.CookiePath,
			MaxAge:   -1,
			Secure:   policy.Secure,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// # Authentication

// AuthConfig bundles the collaborators of the [Authenticate] middleware.
type AuthConfig struct {
	Verifier  TokenVerifier
	Refresher SessionRefresher
	Cookies   CookiePolicy
}

// Authenticate resolves the caller's identity from the session cookies.
//
// # Flow
//  1. Read the signed 'access-token' cookie. Absent → request proceeds as
//     anonymous (role guards reject it downstream).
//  2. Verify the cookie signature. Forged → 401.
//  3. Verify the JWT inside.
//     - Valid → inject [*sec.AuthClaims] into the request context.
//     - Expired → run the refresh flow with the 'refresh-token' cookie and
//       the device name derived from the User-Agent header; on success set
//       fresh cookies, re-verify, and proceed with the new claims.
//     - Invalid for any other reason, or refresh failed → 401.
func Authenticate(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Anonymous Access ───────────────────────────────────────────
			accessCookie, err := request.Cookie(constants.AccessTokenCookieName)
			if err != nil || accessCookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Cookie Integrity ───────────────────────────────────────────
			accessToken, ok := cfg.Cookies.Signer.Verify(accessCookie.Value)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := cfg.Verifier.VerifyAccessToken(accessToken)

			// ── 4. Lazy Refresh ───────────────────────────────────────────────
			// Only an EXPIRED token is refreshable. Every other failure mode is
			// indistinguishable from an attack and terminates the request.
			if errors.Is(err, sec.ErrTokenExpired) {
				claims, err = refreshSession(cfg, writer, request)
			}

			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// refreshSession performs the transparent rotation triggered by an expired
// access token. It returns the claims of the freshly minted access token.
func refreshSession(cfg AuthConfig, writer http.ResponseWriter, request *http.Request) (*sec.AuthClaims, error) {
	refreshCookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || refreshCookie.Value == "" {
		return nil, apperr.Unauthorized("Missing authentication tokens")
	}

	accessToken, newRefreshToken, err := cfg.Refresher.RefreshForDevice(
		request.Context(),
		refreshCookie.Value,
		DeviceName(request),
	)
	if err != nil {
		return nil, err
	}

	// The rotated pair replaces both cookies, including on this response.
	cfg.Cookies.Set(writer, accessToken, newRefreshToken)

	// Re-verify rather than trusting the issuer blindly. This is the same
	// code path a subsequent request would take.
	return cfg.Verifier.VerifyAccessToken(accessToken)
}

// DeviceName derives the session device identifier from the User-Agent
// header. One refresh-token lifeline exists per (user, device) pair.
func DeviceName(request *http.Request) string {
	userAgent := request.UserAgent()
	if userAgent == "" {
		return "unknown-device"
	}
	return userAgent
}

// # Authorization

// Guard produces role-checking middleware bound to a [RoleResolver].
type Guard struct {
	roles RoleResolver
}

// NewGuard constructs a [Guard].
func NewGuard(resolver RoleResolver) *Guard {
	return &Guard{roles: resolver}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func (guard *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if GetUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Missing authentication tokens"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose user does not hold the required role.
func (guard *Guard) RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return guard.RequireAnyRole(role)
}

// RequireAnyRole blocks requests whose user holds none of the accepted roles.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context (implies AuthN).
//  2. Resolve the user's CURRENT role set from storage by username.
//  3. Test set membership; no overlap → HTTP 403 Forbidden.
func (guard *Guard) RequireAnyRole(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Missing authentication tokens"))
				return
			}

			// ── 2. Role Resolution ────────────────────────────────────────────
			// A user deleted between token issue and this request resolves to
			// no roles, which fails the check below.
			current, err := guard.roles.RolesByUsername(request.Context(), claims.Username)
			if err != nil {
				if apperr.IsNotFound(err) {
					respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
					return
				}
				// Storage failures are not authorization outcomes; let the
				// responder log and map them to 500.
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Authorization Check ────────────────────────────────────────
			if !current.HasAny(roles...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
