// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently.
//
// # Error Contract
//
// Lookup misses return [apperr.NotFound]. Infrastructure failures (store
// unreachable, query timeout) are returned as wrapped errors that are NOT
// AppErrors, so callers can tell "no such row" apart from "store is down".
type UserRepository interface {
	// FindByID returns the account with the given ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given (normalized) email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given (normalized) username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create persists a brand-new user account.
	// Unique-constraint violations surface as [apperr.Conflict].
	Create(ctx context.Context, user *User) error

	// UpdateProfile persists changes to mutable profile fields
	// (first/last name, email). Passwords go through [UpdatePassword].
	UpdateProfile(ctx context.Context, user *User) error

	// UpdatePassword replaces only the user's password hash.
	// Separate from [UpdateProfile] to prevent accidental overwrites
	// during unrelated profile updates.
	UpdatePassword(ctx context.Context, userID, newHash string) error

	// TouchLastLogin records a successful authentication timestamp.
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error

	// SoftDelete marks the account as deleted without removing the row,
	// preserving relational integrity of the user's mood history.
	SoftDelete(ctx context.Context, id string) error
}

// RefreshSessionRepository defines the contract for storing volatile,
// revocable refresh-token sessions.
//
// # Design
//
// Access tokens (JWT) are stateless and expire naturally; refresh tokens are
// the revocable half of the pair. They live in Redis keyed by token hash so
// revocation is an O(1) delete and expiry needs no cleanup worker.
type RefreshSessionRepository interface {
	// Set stores a refresh-token hash for a user with a TTL.
	Set(ctx context.Context, tokenHash, userID string, ttl time.Duration) error

	// Get resolves a token hash to its userID.
	// Returns [apperr.NotFound] if the hash is absent or expired.
	Get(ctx context.Context, tokenHash string) (string, error)

	// Delete revokes a single refresh session. Deleting an absent hash is
	// not an error (logout is idempotent).
	Delete(ctx context.Context, userID, tokenHash string) error

	// RevokeAll revokes every refresh session belonging to userID.
	// Invoked on password change and account deletion.
	RevokeAll(ctx context.Context, userID string) error
}
