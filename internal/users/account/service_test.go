// Copyright (c) 2026 QuickShift. All rights reserved.

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/users/account"
	"github.com/quickshift/quickshift/internal/users/auth"
	"github.com/quickshift/quickshift/pkg/pointer"
)

// # In-Memory Fakes

type memoryAccounts struct {
	users map[string]*auth.User
}

func (repo *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	if found, ok := repo.users[id]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryAccounts) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	repo.users[user.ID] = user
	return nil
}

func (repo *memoryAccounts) Delete(_ context.Context, id string) error {
	if _, ok := repo.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.users, id)
	return nil
}

type memorySessions struct {
	sessions     map[string]*auth.Session // tokenHash -> session
	deleteAllErr error
}

func (repo *memorySessions) ListByUser(_ context.Context, userID string) ([]*auth.Session, error) {
	var matched []*auth.Session
	for _, session := range repo.sessions {
		if session.UserID == userID {
			matched = append(matched, session)
		}
	}
	return matched, nil
}

func (repo *memorySessions) Delete(_ context.Context, tokenHash string) error {
	delete(repo.sessions, tokenHash)
	return nil
}

func (repo *memorySessions) DeleteAllForUser(_ context.Context, userID string) error {
	if repo.deleteAllErr != nil {
		return repo.deleteAllErr
	}
	for hash, session := range repo.sessions {
		if session.UserID == userID {
			delete(repo.sessions, hash)
		}
	}
	return nil
}

// # Test Harness

type accountHarness struct {
	service  *account.Service
	accounts *memoryAccounts
	sessions *memorySessions
}

func newAccountHarness() *accountHarness {
	accounts := &memoryAccounts{users: map[string]*auth.User{}}
	sessions := &memorySessions{sessions: map[string]*auth.Session{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &accountHarness{
		service:  account.NewService(accounts, sessions, logger),
		accounts: accounts,
		sessions: sessions,
	}
}

func (harness *accountHarness) seedUser(id string) *auth.User {
	user := &auth.User{
		ID:        id,
		Username:  "tanaka",
		Email:     "tanaka@quickshift.app",
		FirstName: "Yuki",
		LastName:  "Tanaka",
		Skills:    []string{"bartending"},
		CreatedAt: time.Now(),
	}
	harness.accounts.users[id] = user
	return user
}

func (harness *accountHarness) seedSession(userID, device, hash string) {
	harness.sessions.sessions[hash] = &auth.Session{
		UserID:     userID,
		TokenHash:  hash,
		DeviceName: device,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

// # Behavioral Tests

/* TestService_UpdateProfile verifies that delta updates touch only the
provided fields and that unknown users surface a 404. */
func TestService_UpdateProfile(t *testing.T) {
	harness := newAccountHarness()
	harness.seedUser("user-1")

	// 1. Update only the first name. Everything else must survive.
	updated, err := harness.service.UpdateProfile(context.Background(), "user-1", account.UpdateProfileInput{
		FirstName: pointer.To("Haruki"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Haruki", updated.FirstName)
	assert.Equal(t, "Tanaka", updated.LastName)
	assert.Equal(t, []string{"bartending"}, updated.Skills)

	// 2. Replace the skill list wholesale.
	updated, err = harness.service.UpdateProfile(context.Background(), "user-1", account.UpdateProfileInput{
		Skills: pointer.To([]string{"barista", "cashier"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"barista", "cashier"}, updated.Skills)
	assert.Equal(t, "Haruki", updated.FirstName)

	// 3. Unknown user → 404.
	_, err = harness.service.UpdateProfile(context.Background(), "ghost", account.UpdateProfileInput{})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/* TestService_ListSessions verifies that every live device is reported and
that only the requesting device is flagged as current. */
func TestService_ListSessions(t *testing.T) {
	harness := newAccountHarness()
	harness.seedUser("user-1")
	harness.seedSession("user-1", "Chrome on Windows", "hash-chrome")
	harness.seedSession("user-1", "iPhone", "hash-iphone")
	harness.seedSession("user-2", "Firefox", "hash-other-user")

	sessions, err := harness.service.ListSessions(context.Background(), "user-1", "iPhone")
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	current := 0
	for _, session := range sessions {
		if session.IsCurrent {
			current++
			assert.Equal(t, "iPhone", session.DeviceName)
		}
	}
	assert.Equal(t, 1, current)
}

/* TestService_RevokeOtherSessions verifies that revocation spares the
current device and never touches other users. */
func TestService_RevokeOtherSessions(t *testing.T) {
	harness := newAccountHarness()
	harness.seedUser("user-1")
	harness.seedSession("user-1", "Chrome on Windows", "hash-chrome")
	harness.seedSession("user-1", "iPhone", "hash-iphone")
	harness.seedSession("user-2", "Firefox", "hash-other-user")

	// 1. Revoke everything but the iPhone session.
	require.NoError(t, harness.service.RevokeOtherSessions(context.Background(), "user-1", "iPhone"))

	// 2. Only the current device remains for user-1.
	remaining, err := harness.service.ListSessions(context.Background(), "user-1", "iPhone")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "iPhone", remaining[0].DeviceName)

	// 3. The other user's session is untouched.
	assert.Contains(t, harness.sessions.sessions, "hash-other-user")
}

/* TestService_DeleteAccount verifies that deleting an account removes the
row and terminates every session for a forced global sign-out. */
func TestService_DeleteAccount(t *testing.T) {
	harness := newAccountHarness()
	harness.seedUser("user-1")
	harness.seedSession("user-1", "Chrome on Windows", "hash-chrome")
	harness.seedSession("user-1", "iPhone", "hash-iphone")

	// 1. Delete the account.
	require.NoError(t, harness.service.DeleteAccount(context.Background(), "user-1"))

	// 2. The profile is gone.
	_, err := harness.service.GetProfile(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	// 3. All sessions are gone.
	assert.Empty(t, harness.sessions.sessions)
}

/* TestService_DeleteAccount_SessionCascadeFailure verifies that a failing
session cascade never blocks the account deletion itself. */
func TestService_DeleteAccount_SessionCascadeFailure(t *testing.T) {
	harness := newAccountHarness()
	harness.seedUser("user-1")
	harness.seedSession("user-1", "Chrome on Windows", "hash-chrome")
	harness.sessions.deleteAllErr = errors.New("connection refused")

	// 1. Deletion succeeds despite the cascade failure.
	require.NoError(t, harness.service.DeleteAccount(context.Background(), "user-1"))

	// 2. The account row is gone either way.
	_, err := harness.service.GetProfile(context.Background(), "user-1")
	assert.True(t, apperr.IsNotFound(err))
}

/* TestPublicView verifies that the marketplace projection never carries
email, roles, or credential material. */
func TestPublicView(t *testing.T) {
	harness := newAccountHarness()
	user := harness.seedUser("user-1")
	user.PasswordHash = "secret-hash"

	view := account.PublicView(user)

	assert.Equal(t, user.ID, view.ID)
	assert.Equal(t, user.Username, view.Username)
	assert.Equal(t, user.Skills, view.Skills)
}
