// Copyright (c) 2026 QuickShift. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/constants"
	"github.com/quickshift/quickshift/internal/platform/middleware"
	requestutil "github.com/quickshift/quickshift/internal/platform/request"
	"github.com/quickshift/quickshift/internal/platform/respond"
	"github.com/quickshift/quickshift/internal/platform/sec"
	"github.com/quickshift/quickshift/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration, Login,
// Refresh, Logout) and the privileged admin-registration path. Cookie
// issuance is delegated to the shared [middleware.CookiePolicy] so the
// handler and the authorization middleware can never disagree on cookie
// attributes.
type Handler struct {
	authService *Service
	cookies     middleware.CookiePolicy
	guard       *middleware.Guard
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, cookies middleware.CookiePolicy, guard *middleware.Guard) *Handler {
	return &Handler{
		authService: service,
		cookies:     cookies,
		guard:       guard,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register       : Creates a new worker account.
//   - POST /login          : Authenticates and sets the token cookies.
//   - POST /refresh        : Rotates the refresh token session.
//   - POST /logout         : Revokes the session and clears cookies.
//   - POST /register-admin : Creates an administrator account (ADMIN only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.RequireRole(sec.RoleAdmin))
		r.Post("/register-admin", handler.registerAdmin)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Skills    []string `json:"skills"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new worker account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database.

Request:
  - Body: registerRequest (Username, Email, Password, FirstName, LastName, Skills)

Response:
  - 201: User: Created user profile (password hash excluded)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	handler.handleRegister(writer, request, false)
}

/*
RegisterAdmin handles the creation of an administrator account.

POST /api/v1/auth/register-admin

Description: Same flow as Register, but grants the ADMIN role. The route is
guarded so only an authenticated administrator can reach it.

Response:
  - 201: User: Created admin profile
  - 401: ErrUnauthorized: Missing authentication tokens
  - 403: ErrForbidden: Caller lacks the ADMIN role
*/
func (handler *Handler) registerAdmin(writer http.ResponseWriter, request *http.Request) {
	handler.handleRegister(writer, request, true)
}

func (handler *Handler) handleRegister(writer http.ResponseWriter, request *http.Request, isAdmin bool) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Skills:    input.Skills,
		IsAdmin:   isAdmin,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, then sets the signed access-token cookie
and the refresh-token cookie on the response.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: Session: Access token and User profile
  - 404: ErrNotFound: "Invalid username or password" for unknown users AND
    wrong passwords alike, so the response cannot enumerate accounts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username:   input.Username,
		Password:   input.Password,
		DeviceName: middleware.DeviceName(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.Set(writer, session.AccessToken, session.RefreshToken)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Rotates the session by validating the refresh token cookie and
issuing a fresh access token plus an updated refresh token. The consumed
refresh token is single-use and cannot be replayed.

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: ErrUnauthorized: Missing, invalid, or already-rotated refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(),
		cookie.Value,
		middleware.DeviceName(request),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.Set(writer, session.AccessToken, session.RefreshToken)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   handler.cookies.AccessTTL / time.Second,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present) and clears the
security cookies from the client. Always succeeds, even without a live
session, so repeated logout calls are harmless.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.authService.Logout(request.Context(), cookie.Value)
	}

	handler.cookies.Clear(writer)

	respond.NoContent(writer)
}
