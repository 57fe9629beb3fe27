// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moodlyapp/moodly/internal/auth"
	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/sec"
	"github.com/moodlyapp/moodly/pkg/identifier"
)

// # Service Layer

// Service orchestrates business logic for account self-management.
//
// It ensures profile updates, password rotation, and account deletion follow
// established business constraints, including the forced global sign-out that
// accompanies any credential-affecting change.
type Service struct {
	users    UserRepository
	sessions SessionRevoker
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	users UserRepository,
	sessions SessionRevoker,
	hasher PasswordHasher,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(ctx context.Context, userID string) (*auth.User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Username is deliberately absent: it is fixed at registration.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. A changed email is normalized
and checked for uniqueness before it is accepted.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Conflict, update, or storage failures
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Email != nil {
		email := identifier.Normalize(*input.Email)
		if email != user.Email {
			if _, lookupErr := service.users.FindByEmail(ctx, email); lookupErr == nil {
				return nil, apperr.Conflict("This email is already registered")
			}
			user.Email = email
		}
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	// Apply delta updates
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	// Persist changes
	if err := service.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Credential Management

// ChangePasswordInput carries the current and replacement passwords.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

/*
ChangePassword rotates a user's password after verifying the current one.

Description: Verifies the presented current password against the stored hash,
hashes the replacement, persists it, and revokes every refresh session so all
other devices must log in again with the new credential.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: ChangePasswordInput

Returns:
  - error: Unauthorized when the current password is wrong; storage failures
*/
func (service *Service) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("account_service_password_lookup_failed: %w", err)
	}

	ok, err := service.hasher.Verify(ctx, input.CurrentPassword, user.PasswordHash)
	if err != nil {
		if errors.Is(err, sec.ErrCredentialCorrupt) {
			service.logger.ErrorContext(ctx, "stored_credential_corrupt",
				slog.String("user_id", userID),
			)
			return apperr.Unauthorized("Current password is incorrect")
		}
		return fmt.Errorf("account_service_password_verify_failed: %w", err)
	}
	if !ok {
		return apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := service.hasher.Hash(ctx, input.NewPassword)
	if err != nil {
		return fmt.Errorf("account_service_password_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("account_service_password_update_failed: %w", err)
	}

	// Force global sign-out: existing refresh tokens were minted under the
	// old credential.
	if err := service.sessions.RevokeAll(ctx, userID); err != nil {
		service.logger.ErrorContext(ctx, "session_revoke_all_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	service.logger.Info("user_password_changed", slog.String("user_id", userID))

	return nil
}

// # Account Deletion

/*
DeleteAccount performs a password-confirmed soft-deletion of a user account.

Description: Verifies the presented password, flags the account as deleted,
and immediately terminates all refresh sessions to force a global sign-out.
The row itself is retained so the user's mood history keeps its integrity.

Parameters:
  - ctx: context.Context
  - userID: string
  - password: string

Returns:
  - error: Unauthorized when the password is wrong; execution failures
*/
func (service *Service) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("account_service_delete_lookup_failed: %w", err)
	}

	ok, err := service.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil && !errors.Is(err, sec.ErrCredentialCorrupt) {
		return fmt.Errorf("account_service_delete_verify_failed: %w", err)
	}
	if !ok {
		return apperr.Unauthorized("Password is incorrect")
	}

	if err := service.users.SoftDelete(ctx, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global revocation of sessions for the deleted account
	if err := service.sessions.RevokeAll(ctx, userID); err != nil {
		service.logger.ErrorContext(ctx, "session_revoke_all_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}
