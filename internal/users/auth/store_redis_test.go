// Copyright (c) 2026 QuickShift. All rights reserved.

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/users/auth"
)

func newRedisRepository(t *testing.T) (*auth.RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewSessionRepository(client), server
}

func testSession(userID, tokenHash, device string, ttl time.Duration) *auth.Session {
	return &auth.Session{
		UserID:     userID,
		TokenHash:  tokenHash,
		DeviceName: device,
		ExpiresAt:  time.Now().Add(ttl),
	}
}

/*
TestRedisSessionRepository_RoundTrip verifies that a stored session can be
retrieved by its token hash with all fields intact.
*/
func TestRedisSessionRepository_RoundTrip(t *testing.T) {
	repository, _ := newRedisRepository(t)
	ctx := context.Background()

	session := testSession("user-1", "hash-1", "laptop", time.Hour)
	require.NoError(t, repository.Create(ctx, session))

	found, err := repository.FindByTokenHash(ctx, "hash-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", found.UserID)
	assert.Equal(t, "hash-1", found.TokenHash)
	assert.Equal(t, "laptop", found.DeviceName)
	assert.WithinDuration(t, session.ExpiresAt, found.ExpiresAt, time.Second)
}

/*
TestRedisSessionRepository_DeviceReplacement verifies that creating a second
session for the same (user, device) pair evicts the first one.
*/
func TestRedisSessionRepository_DeviceReplacement(t *testing.T) {
	repository, _ := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-old", "laptop", time.Hour)))
	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-new", "laptop", time.Hour)))

	// 1. The old session is gone
	_, err := repository.FindByTokenHash(ctx, "hash-old")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	// 2. The new session is live
	_, err = repository.FindByTokenHash(ctx, "hash-new")
	assert.NoError(t, err)

	// 3. Only one session remains in the user's listing
	sessions, err := repository.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

/*
TestRedisSessionRepository_DistinctDevices verifies that sessions on
different devices coexist.
*/
func TestRedisSessionRepository_DistinctDevices(t *testing.T) {
	repository, _ := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-a", "laptop", time.Hour)))
	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-b", "phone", time.Hour)))

	sessions, err := repository.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

/*
TestRedisSessionRepository_Delete verifies single-session deletion and the
NotFound result for already-deleted hashes.
*/
func TestRedisSessionRepository_Delete(t *testing.T) {
	repository, _ := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-1", "laptop", time.Hour)))

	// 1. Delete removes the session
	require.NoError(t, repository.Delete(ctx, "hash-1"))
	_, err := repository.FindByTokenHash(ctx, "hash-1")
	assert.True(t, apperr.IsNotFound(err))

	// 2. Deleting again reports NotFound
	err = repository.Delete(ctx, "hash-1")
	assert.True(t, apperr.IsNotFound(err))

	// 3. The listing is empty
	sessions, err := repository.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

/*
TestRedisSessionRepository_DeleteAllForUser verifies bulk revocation across
devices without touching other users.
*/
func TestRedisSessionRepository_DeleteAllForUser(t *testing.T) {
	repository, _ := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-a", "laptop", time.Hour)))
	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-b", "phone", time.Hour)))
	require.NoError(t, repository.Create(ctx, testSession("user-2", "hash-c", "laptop", time.Hour)))

	require.NoError(t, repository.DeleteAllForUser(ctx, "user-1"))

	// 1. user-1 has no sessions left
	sessions, err := repository.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// 2. user-2 is untouched
	sessions, err = repository.ListByUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

/*
TestRedisSessionRepository_Expiry verifies that sessions disappear when
their TTL elapses and that listings skip the stale set members.
*/
func TestRedisSessionRepository_Expiry(t *testing.T) {
	repository, server := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-short", "laptop", time.Minute)))
	require.NoError(t, repository.Create(ctx, testSession("user-1", "hash-long", "phone", time.Hour)))

	// Advance the clock past the short TTL
	server.FastForward(2 * time.Minute)

	// 1. The expired session resolves to NotFound
	_, err := repository.FindByTokenHash(ctx, "hash-short")
	assert.True(t, apperr.IsNotFound(err))

	// 2. The listing only contains the live session
	sessions, err := repository.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "hash-long", sessions[0].TokenHash)
}

/*
TestRedisSessionRepository_RejectsExpired verifies that a session whose
expiry is already in the past is never written.
*/
func TestRedisSessionRepository_RejectsExpired(t *testing.T) {
	repository, _ := newRedisRepository(t)

	err := repository.Create(context.Background(), testSession("user-1", "hash-1", "laptop", -time.Minute))
	assert.Error(t, err)
}
