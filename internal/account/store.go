// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package account

import (
	"context"

	"github.com/moodlyapp/moodly/internal/auth"
)

// UserRepository is the slice of the auth user store this package consumes.
//
// Defined here (consumer side) so the account service can be tested with a
// small fake instead of the full auth storage contract. The Postgres
// repository in the auth package satisfies it.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	UpdateProfile(ctx context.Context, user *auth.User) error
	UpdatePassword(ctx context.Context, userID, newHash string) error
	SoftDelete(ctx context.Context, id string) error
}

// SessionRevoker revokes refresh sessions in bulk.
//
// Password changes and account deletion must force a global sign-out, so the
// account service needs exactly this one operation from the session store.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

// PasswordHasher mirrors the credential hashing contract of the auth package.
type PasswordHasher interface {
	Hash(ctx context.Context, plainTextPassword string) (string, error)
	Verify(ctx context.Context, plainTextPassword, existingHash string) (bool, error)
}
