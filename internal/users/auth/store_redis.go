// Copyright (c) 2026 QuickShift. All rights reserved.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/constants"
	"github.com/quickshift/quickshift/internal/platform/sec"
)

// # Session Repository

// RedisSessionRepository implements SessionRepository using Redis.
//
// # Key Layout
//
//   - auth:session:<tokenHash>          -> JSON session payload (TTL-bound)
//   - auth:device:<userID>:<deviceHash> -> tokenHash of the live session
//   - auth:user_sessions:<userID>       -> set of the user's token hashes
//
// The device index enforces the one-session-per-(user, device) invariant:
// creating a session for a device that already has one replaces the old
// session instead of accumulating a second.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func deviceKey(userID, deviceName string) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixDevice, userID, sec.HashToken(deviceName))
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSessions + userID
}

/*
Create stores a session, replacing any live session for the same device.

Description: Looks up the (user, device) index first and evicts the previous
session before writing the new one, so a device can never hold two usable
refresh tokens. All writes run in a single pipeline.

Parameters:
  - context: context.Context
  - session: *Session (must carry TokenHash and ExpiresAt)

Returns:
  - error: Storage failures
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redis_session_create_failed: session already expired")
	}

	// Evict the previous session of this device, if any.
	device := deviceKey(session.UserID, session.DeviceName)
	previousHash, err := repository.client.Get(context, device).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_session_device_lookup_failed: %w", err)
	}

	payload, err := json.Marshal(sessionRecord{
		UserID:     session.UserID,
		TokenHash:  session.TokenHash,
		DeviceName: session.DeviceName,
		ExpiresAt:  session.ExpiresAt,
		CreatedAt:  session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	pipeline := repository.client.TxPipeline()
	if previousHash != "" {
		pipeline.Del(context, sessionKey(previousHash))
		pipeline.SRem(context, userSessionsKey(session.UserID), previousHash)
	}
	pipeline.Set(context, sessionKey(session.TokenHash), payload, ttl)
	pipeline.Set(context, device, session.TokenHash, ttl)
	pipeline.SAdd(context, userSessionsKey(session.UserID), session.TokenHash)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves a session by the hash of its refresh token.

Description: Returns apperr.NotFound when the session is absent, which covers
expired sessions (Redis drops the key at TTL) and already-rotated tokens.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated session
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {

	payload, err := repository.client.Get(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session is invalid or expired")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}

	return record.toSession(), nil
}

/*
Delete removes a single session by its token hash.

Description: Also clears the device index entry and the user's session-set
membership, so rotation never leaves a stale pointer behind.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: apperr.NotFound when the session is already gone, or execution failures
*/
func (repository *RedisSessionRepository) Delete(context context.Context, tokenHash string) error {

	session, err := repository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return err
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Del(context, sessionKey(tokenHash))
	pipeline.Del(context, deviceKey(session.UserID, session.DeviceName))
	pipeline.SRem(context, userSessionsKey(session.UserID), tokenHash)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteAllForUser removes every session belonging to a user.

Description: Walks the user's session set and deletes each session plus its
device index entry. Members whose session key already expired are skipped.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (repository *RedisSessionRepository) DeleteAllForUser(context context.Context, userID string) error {

	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_list_failed: %w", err)
	}

	pipeline := repository.client.TxPipeline()
	for _, hash := range hashes {
		session, err := repository.FindByTokenHash(context, hash)
		if err == nil {
			pipeline.Del(context, deviceKey(session.UserID, session.DeviceName))
		}
		pipeline.Del(context, sessionKey(hash))
	}
	pipeline.Del(context, userSessionsKey(userID))

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_delete_all_failed: %w", err)
	}

	return nil
}

/*
ListByUser returns the user's live sessions.

Description: Expired set members are silently skipped; the set itself is
best-effort and only authoritative through the session keys it points at.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Session: Live sessions, possibly empty
  - error: Connectivity errors
*/
func (repository *RedisSessionRepository) ListByUser(context context.Context, userID string) ([]*Session, error) {

	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_session_list_failed: %w", err)
	}

	sessions := make([]*Session, 0, len(hashes))
	for _, hash := range hashes {
		session, err := repository.FindByTokenHash(context, hash)
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// sessionRecord is the Redis wire shape of [Session]. The domain entity hides
// TokenHash from JSON; the record keeps it so a fetched session can be
// deleted without re-deriving the hash.
type sessionRecord struct {
	UserID     string    `json:"user_id"`
	TokenHash  string    `json:"token_hash"`
	DeviceName string    `json:"device_name"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (record sessionRecord) toSession() *Session {
	return &Session{
		UserID:     record.UserID,
		TokenHash:  record.TokenHash,
		DeviceName: record.DeviceName,
		ExpiresAt:  record.ExpiresAt,
		CreatedAt:  record.CreatedAt,
	}
}
