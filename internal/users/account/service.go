// Copyright (c) 2026 QuickShift. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quickshift/quickshift/internal/users/auth"
	"github.com/quickshift/quickshift/pkg/slice"
)

// # Service Layer

// Service orchestrates business logic for user accounts and session security.
//
// It ensures that profile updates and session cleanup follow established
// business constraints.
type Service struct {
	accountRepository AccountRepository
	sessionRepository SessionRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRepository: sessionRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil pointers leave the stored value untouched.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Skills    *[]string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	// Apply delta updates
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	// Apply delta updates
	if input.Skills != nil {
		user.Skills = *input.Skills
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
DeleteAccount permanently removes a user account.

Description: Deletes the account row and immediately terminates all active
security sessions to force a global sign-out.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {

	if err := service.accountRepository.Delete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global revocation of sessions for the deleted account. Redis TTLs
	// reap any survivors, so a failed cascade is logged, not fatal.
	if err := service.sessionRepository.DeleteAllForUser(context, userID); err != nil {
		service.logger.Warn("user_session_cascade_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Session Security

/*
ListSessions provides a list of all active device sessions for the user.

Parameters:
  - context: context.Context
  - userID: string
  - currentDevice: string (Device name of the session making the request)

Returns:
  - []SessionInfo: List of active devices
  - error: Retrieval failures
*/
func (service *Service) ListSessions(context context.Context, userID, currentDevice string) ([]SessionInfo, error) {

	sessions, err := service.sessionRepository.ListByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_sessions_failed: %w", err)
	}

	return slice.Map(sessions, func(session *auth.Session) SessionInfo {
		return SessionInfo{
			DeviceName: session.DeviceName,
			CreatedAt:  session.CreatedAt,
			ExpiresAt:  session.ExpiresAt,
			IsCurrent:  session.DeviceName == currentDevice,
		}
	}), nil
}

/*
RevokeOtherSessions terminates all sessions except the one on the current device.

Parameters:
  - context: context.Context
  - userID: string
  - currentDevice: string

Returns:
  - error: Revocation failures
*/
func (service *Service) RevokeOtherSessions(context context.Context, userID, currentDevice string) error {

	sessions, err := service.sessionRepository.ListByUser(context, userID)
	if err != nil {
		return fmt.Errorf("account_service_revoke_others_failed: %w", err)
	}

	for _, session := range sessions {
		if session.DeviceName == currentDevice {
			continue
		}
		if err := service.sessionRepository.Delete(context, session.TokenHash); err != nil {
			return fmt.Errorf("account_service_revoke_others_failed: %w", err)
		}
	}

	service.logger.Info("user_other_sessions_revoked", slog.String("user_id", userID))

	return nil
}

// PublicView maps a full user entity onto its marketplace-safe projection.
func PublicView(user *auth.User) PublicProfile {
	return PublicProfile{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Skills:    user.Skills,
		CreatedAt: user.CreatedAt,
	}
}
