// Copyright (c) 2026 QuickShift. All rights reserved.

package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/sec"
	"github.com/quickshift/quickshift/internal/users/auth"
)

// # In-Memory Fakes

type memoryUserRepository struct {
	users map[string]*auth.User // keyed by ID
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]*auth.User{}}
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User not found with this username")
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (repo *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *memoryUserRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	repo.users[user.ID] = user
	return nil
}

func (repo *memoryUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.users, id)
	return nil
}

type memorySessionRepository struct {
	sessions map[string]*auth.Session // keyed by token hash
	devices  map[string]string        // (userID, device) -> token hash
}

func newMemorySessionRepository() *memorySessionRepository {
	return &memorySessionRepository{
		sessions: map[string]*auth.Session{},
		devices:  map[string]string{},
	}
}

func (repo *memorySessionRepository) deviceKey(userID, deviceName string) string {
	return userID + "/" + deviceName
}

func (repo *memorySessionRepository) Create(_ context.Context, session *auth.Session) error {
	device := repo.deviceKey(session.UserID, session.DeviceName)
	if previous, ok := repo.devices[device]; ok {
		delete(repo.sessions, previous)
	}
	repo.sessions[session.TokenHash] = session
	repo.devices[device] = session.TokenHash
	return nil
}

func (repo *memorySessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	if session, ok := repo.sessions[tokenHash]; ok {
		return session, nil
	}
	return nil, apperr.NotFound("Session is invalid or expired")
}

func (repo *memorySessionRepository) Delete(_ context.Context, tokenHash string) error {
	session, ok := repo.sessions[tokenHash]
	if !ok {
		return apperr.NotFound("Session is invalid or expired")
	}
	delete(repo.sessions, tokenHash)
	delete(repo.devices, repo.deviceKey(session.UserID, session.DeviceName))
	return nil
}

func (repo *memorySessionRepository) DeleteAllForUser(_ context.Context, userID string) error {
	for hash, session := range repo.sessions {
		if session.UserID == userID {
			delete(repo.sessions, hash)
			delete(repo.devices, repo.deviceKey(session.UserID, session.DeviceName))
		}
	}
	return nil
}

func (repo *memorySessionRepository) ListByUser(_ context.Context, userID string) ([]*auth.Session, error) {
	var sessions []*auth.Session
	for _, session := range repo.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// # Harness

type serviceHarness struct {
	service  *auth.Service
	users    *memoryUserRepository
	sessions *memorySessionRepository
}

func newServiceHarness(t *testing.T, refreshTTL time.Duration) *serviceHarness {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret-0123456789", "quickshift.test", 15*time.Minute)
	require.NoError(t, err)

	users := newMemoryUserRepository()
	sessions := newMemorySessionRepository()

	return &serviceHarness{
		service:  auth.NewService(users, sessions, tokens, refreshTTL),
		users:    users,
		sessions: sessions,
	}
}

func (harness *serviceHarness) register(t *testing.T, username string) *auth.User {
	t.Helper()

	user, err := harness.service.Register(context.Background(), auth.RegisterInput{
		Username:  username,
		Email:     username + "@quickshift.test",
		Password:  "correct horse battery",
		FirstName: "Test",
		LastName:  "Worker",
		Skills:    []string{"bartending"},
	})
	require.NoError(t, err)
	return user
}

// # Registration

/*
TestService_Register verifies role assignment and credential handling for
new accounts.
*/
func TestService_Register(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)

	user := harness.register(t, "alice")

	// 1. New accounts get the WORKER role only
	assert.True(t, user.Roles.Has(sec.RoleWorker))
	assert.False(t, user.Roles.Has(sec.RoleAdmin))

	// 2. The stored password is hashed, never plain text
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
}

/*
TestService_Register_AdminPath verifies that the admin flag grants the
ADMIN role on top of WORKER.
*/
func TestService_Register_AdminPath(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)

	user, err := harness.service.Register(context.Background(), auth.RegisterInput{
		Username: "root",
		Email:    "root@quickshift.test",
		Password: "super secret pass",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	assert.True(t, user.Roles.Has(sec.RoleAdmin))
	assert.True(t, user.Roles.Has(sec.RoleWorker))
}

/*
TestService_Register_Duplicates verifies that duplicate usernames and emails
are rejected with a Conflict error.
*/
func TestService_Register_Duplicates(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)
	harness.register(t, "alice")

	// 1. Same username, different email
	_, err := harness.service.Register(context.Background(), auth.RegisterInput{
		Username: "alice",
		Email:    "other@quickshift.test",
		Password: "another password",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)

	// 2. Same email, different username
	_, err = harness.service.Register(context.Background(), auth.RegisterInput{
		Username: "alice2",
		Email:    "alice@quickshift.test",
		Password: "another password",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)
}

// # Login

/*
TestService_Login_EnumerationSafe verifies that an unknown username and a
wrong password produce byte-identical errors, so responses cannot be used
to probe which accounts exist.
*/
func TestService_Login_EnumerationSafe(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)
	harness.register(t, "alice")

	// 1. Unknown username
	_, unknownErr := harness.service.Login(context.Background(), auth.LoginInput{
		Username:   "nobody",
		Password:   "whatever",
		DeviceName: "test-device",
	})
	require.Error(t, unknownErr)

	// 2. Known username, wrong password
	_, wrongPassErr := harness.service.Login(context.Background(), auth.LoginInput{
		Username:   "alice",
		Password:   "not the password",
		DeviceName: "test-device",
	})
	require.Error(t, wrongPassErr)

	// 3. Identical message and status for both failures
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
	assert.Equal(t, "Invalid username or password", unknownErr.Error())
	assert.Equal(t, http.StatusNotFound, apperr.As(unknownErr).HTTPStatus)
	assert.Equal(t, http.StatusNotFound, apperr.As(wrongPassErr).HTTPStatus)
}

/*
TestService_Login_Success verifies that a valid login issues both tokens and
tracks the refresh session.
*/
func TestService_Login_Success(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)
	harness.register(t, "alice")

	session, err := harness.service.Login(context.Background(), auth.LoginInput{
		Username:   "alice",
		Password:   "correct horse battery",
		DeviceName: "test-device",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "alice", session.User.Username)

	// The refresh session is stored under the token's hash, not the token
	stored, err := harness.sessions.FindByTokenHash(context.Background(), sec.HashToken(session.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, "test-device", stored.DeviceName)
}

/*
TestService_Login_OneSessionPerDevice verifies that a second login from the
same device replaces the first session, while a different device keeps its
own.
*/
func TestService_Login_OneSessionPerDevice(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)
	user := harness.register(t, "alice")

	login := func(device string) string {
		session, err := harness.service.Login(context.Background(), auth.LoginInput{
			Username:   "alice",
			Password:   "correct horse battery",
			DeviceName: device,
		})
		require.NoError(t, err)
		return session.RefreshToken
	}

	first := login("laptop")
	second := login("laptop")
	phone := login("phone")

	// 1. The first laptop token was replaced and is no longer usable
	_, err := harness.service.RefreshSession(context.Background(), first, "laptop")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	// 2. The second laptop token and the phone token both work
	_, err = harness.service.RefreshSession(context.Background(), second, "laptop")
	assert.NoError(t, err)
	_, err = harness.service.RefreshSession(context.Background(), phone, "phone")
	assert.NoError(t, err)

	// 3. Exactly two live sessions remain for the user
	sessions, err := harness.sessions.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

// # Refresh Rotation

/*
TestService_RefreshSession_SingleUse verifies refresh token rotation: a
consumed token is deleted and cannot be replayed.
*/
func TestService_RefreshSession_SingleUse(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)
	harness.register(t, "alice")

	login, err := harness.service.Login(context.Background(), auth.LoginInput{
		Username:   "alice",
		Password:   "correct horse battery",
		DeviceName: "laptop",
	})
	require.NoError(t, err)

	// 1. First refresh succeeds and rotates the token
	rotated, err := harness.service.RefreshSession(context.Background(), login.RefreshToken, "laptop")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	// 2. Replaying the consumed token fails
	_, err = harness.service.RefreshSession(context.Background(), login.RefreshToken, "laptop")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	// 3. The rotated token still works
	_, err = harness.service.RefreshSession(context.Background(), rotated.RefreshToken, "laptop")
	assert.NoError(t, err)
}

/*
TestService_RefreshSession_Expired verifies that an expired session is
rejected rather than silently renewed.
*/
func TestService_RefreshSession_Expired(t *testing.T) {
	harness := newServiceHarness(t, -time.Minute)
	harness.register(t, "alice")

	login, err := harness.service.Login(context.Background(), auth.LoginInput{
		Username:   "alice",
		Password:   "correct horse battery",
		DeviceName: "laptop",
	})
	require.NoError(t, err)

	_, err = harness.service.RefreshSession(context.Background(), login.RefreshToken, "laptop")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
}

/*
TestService_RefreshSession_InvalidToken verifies that a token the server
never issued is rejected.
*/
func TestService_RefreshSession_InvalidToken(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)

	_, err := harness.service.RefreshSession(context.Background(), "never-issued", "laptop")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
}

// # Logout & Account Removal

/*
TestService_Logout_Idempotent verifies that logout revokes the session and
that repeating it is harmless.
*/
func TestService_Logout_Idempotent(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)
	harness.register(t, "alice")

	login, err := harness.service.Login(context.Background(), auth.LoginInput{
		Username:   "alice",
		Password:   "correct horse battery",
		DeviceName: "laptop",
	})
	require.NoError(t, err)

	// 1. Logout revokes the refresh token
	require.NoError(t, harness.service.Logout(context.Background(), login.RefreshToken))
	_, err = harness.service.RefreshSession(context.Background(), login.RefreshToken, "laptop")
	require.Error(t, err)

	// 2. A second logout with the same token still succeeds
	assert.NoError(t, harness.service.Logout(context.Background(), login.RefreshToken))

	// 3. Logout with garbage succeeds too
	assert.NoError(t, harness.service.Logout(context.Background(), "garbage"))
}

/*
TestService_DeleteAccount verifies that deleting an account removes the user
and every session, and that unknown usernames are a no-op.
*/
func TestService_DeleteAccount(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)
	user := harness.register(t, "alice")

	_, err := harness.service.Login(context.Background(), auth.LoginInput{
		Username:   "alice",
		Password:   "correct horse battery",
		DeviceName: "laptop",
	})
	require.NoError(t, err)

	// 1. Deletion removes the user and its sessions
	require.NoError(t, harness.service.DeleteAccount(context.Background(), "alice"))
	_, err = harness.users.FindByUsername(context.Background(), "alice")
	require.Error(t, err)

	sessions, err := harness.sessions.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// 2. Deleting an account that never existed is not an error
	assert.NoError(t, harness.service.DeleteAccount(context.Background(), "ghost"))
}

// # Role Resolution

/*
TestService_RolesByUsername verifies that stored roles are resolved for
authorization checks.
*/
func TestService_RolesByUsername(t *testing.T) {
	harness := newServiceHarness(t, time.Hour)
	user := harness.register(t, "alice")

	// 1. Fresh account resolves to WORKER only
	roles, err := harness.service.RolesByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, roles.Has(sec.RoleWorker))
	assert.False(t, roles.Has(sec.RoleEmployer))

	// 2. A role granted in storage is visible immediately
	user.Roles = user.Roles.Add(sec.RoleEmployer)
	require.NoError(t, harness.users.Update(context.Background(), user))

	roles, err = harness.service.RolesByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, roles.Has(sec.RoleEmployer))

	// 3. Unknown user resolves to an error
	_, err = harness.service.RolesByUsername(context.Background(), "ghost")
	require.Error(t, err)
}
