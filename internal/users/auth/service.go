// Copyright (c) 2026 QuickShift. All rights reserved.

/*
Package auth implements the core identity and access management system.

It handles everything from user registration and secure password hashing to
session lifecycle management via JWT access tokens and rotated refresh
tokens (stored in Redis).

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Sessions).
  - Security: Leverages bcrypt and HMAC-signed JWTs from the sec package.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/sec"
	"github.com/quickshift/quickshift/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - roles: The roles held by the account.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username string, roles sec.RoleSet) (string, error)
}

// invalidCredentials is the single error returned for both unknown usernames
// and wrong passwords, so responses cannot be used to enumerate accounts.
var invalidCredentials = apperr.NotFoundWithMessage("Invalid username or password")

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing,
// registration, or login logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
	refreshTokenTTL   time.Duration
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokenProv TokenProvider,
	refreshTokenTTL time.Duration,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
		refreshTokenTTL:   refreshTokenTTL,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Skills    []string

	// IsAdmin is only settable through the admin-registration path, never
	// from the public register payload.
	IsAdmin bool
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member, handling duplicate-identity rejection and
password hashing. The returned entity serializes WITHOUT the password hash:
credential material never reaches a client-facing projection.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// New accounts start as workers; the admin path additionally grants ADMIN.
	roles := sec.RoleSet{sec.RoleWorker}
	if input.IsAdmin {
		roles = sec.RoleSet{sec.RoleAdmin, sec.RoleWorker}
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Roles:        roles,
		Skills:       input.Skills,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username   string
	Password   string
	DeviceName string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and rotates the refresh-token session for the caller's device.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Enumeration-safe credential failure or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, invalidCredentials
	}

	// Verify the password hash; bcrypt compares in constant time to prevent
	// timing attacks. The failure message is identical to the lookup miss.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, invalidCredentials
	}

	return service.establishSession(context, user, input.DeviceName)
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, deletes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens for the
same device lifeline.

Parameters:
  - context: context.Context
  - refreshToken: string
  - deviceName: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized, NotFound, or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, deviceName string) (*LoginSession, error) {

	// Hash the incoming refresh token to look it up
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already rotated away, or
	// completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Expired sessions are treated as invalid, never silently renewed. The
	// store drops them on its own; this check closes the race window.
	if !time.Now().Before(session.ExpiresAt) {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: delete the consumed token so it is single-use
	if err := service.sessionRepository.Delete(context, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_rotate_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	return service.establishSession(context, user, deviceName)
}

/*
RefreshForDevice adapts [RefreshSession] for the authorization middleware,
which only needs the rotated token pair.

Parameters:
  - context: context.Context
  - refreshToken: string
  - deviceName: string

Returns:
  - string: New access token
  - string: New refresh token
  - err: Same failure modes as RefreshSession
*/
func (service *Service) RefreshForDevice(context context.Context, refreshToken, deviceName string) (string, string, error) {
	session, err := service.RefreshSession(context, refreshToken, deviceName)
	if err != nil {
		return "", "", err
	}
	return session.AccessToken, session.RefreshToken, nil
}

/*
RolesByUsername resolves the CURRENT role set of a user for authorization
checks. Role grants and revocations take effect on the next request, not
the next token issue.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - sec.RoleSet: Stored roles
  - err: apperr.NotFound when the user no longer exists
*/
func (service *Service) RolesByUsername(context context.Context, username string) (sec.RoleSet, error) {
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return user.Roles, nil
}

/*
GrantRole adds a role to a user's stored role set.

Description: Idempotent; granting a role the user already holds is a no-op.
The change is visible to authorization checks on the user's next request,
without waiting for their access token to rotate.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - err: apperr.NotFound when the user does not exist, or storage failures
*/
func (service *Service) GrantRole(context context.Context, userID string, role sec.Role) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if user.Roles.Has(role) {
		return nil
	}

	user.Roles = user.Roles.Add(role)
	if err := service.userRepository.Update(context, user); err != nil {
		return fmt.Errorf("auth_service_grant_role_failed: %w", err)
	}

	return nil
}

/*
Logout invalidates the caller's refresh-token session.

Description: Ensures that a tracked refresh token can never be used again.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// Hash the refresh token
	tokenHash := sec.HashToken(refreshToken)

	// If the session is already gone or invalid, logout is considered
	// successful (idempotent operation).
	if _, err := service.sessionRepository.FindByTokenHash(context, tokenHash); err != nil {
		return nil
	}

	if err := service.sessionRepository.Delete(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

/*
DeleteAccount removes a user and every refresh-token session referencing it.

Description: Explicitly a no-op (not an error) when the username does not
exist, so the operation is safely retryable.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - err: Deletion failures
*/
func (service *Service) DeleteAccount(context context.Context, username string) error {
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return nil
	}

	if err := service.userRepository.Delete(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_delete_user_failed: %w", err)
	}

	// Sessions reference users without a transactional foreign key; the bulk
	// delete here is the cleanup path that keeps the stores consistent.
	if err := service.sessionRepository.DeleteAllForUser(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_delete_sessions_failed: %w", err)
	}

	return nil
}

// establishSession mints an access token and rotates the device's refresh
// session. Shared by Login and RefreshSession.
func (service *Service) establishSession(context context.Context, user *User, deviceName string) (*LoginSession, error) {

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create the tracking session. The store replaces any live session for
	// the same (user, device) pair.
	expiresAt := time.Now().Add(service.refreshTokenTTL)
	session := &Session{
		UserID:     user.ID,
		TokenHash:  sec.HashToken(refreshToken),
		DeviceName: deviceName,
		ExpiresAt:  expiresAt,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}
