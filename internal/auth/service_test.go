// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/moodlyapp/moodly/internal/auth"
	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/sec"
)

// newTestService wires a Service with real crypto components (minimum bcrypt
// cost for speed) over in-memory stores.
func newTestService(t *testing.T) (*auth.Service, *memUserRepo, *memSessionRepo) {
	t.Helper()

	tokens, err := sec.NewTokenService("test-signing-secret", "HS256", "moodly.life", "api", 15*time.Minute)
	require.NoError(t, err)

	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	hasher := sec.NewHasher(bcrypt.MinCost, 2)

	service := auth.NewService(users, sessions, tokens, hasher, 30*24*time.Hour, slog.Default())
	return service, users, sessions
}

func register(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username:  "thao.nguyen",
		Email:     "thao.nguyen@example.com",
		Password:  "s3cret-pass",
		FirstName: "Thao",
		LastName:  "Nguyen",
	})
	require.NoError(t, err)
	return user
}

/*
TestService_Register verifies enrollment defaults and identifier normalization.
*/
func TestService_Register(t *testing.T) {
	service, _, _ := newTestService(t)

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "  Thao.Nguyen ",
		Email:    "Thao.Nguyen@Example.COM",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "thao.nguyen", user.Username)
	assert.Equal(t, "thao.nguyen@example.com", user.Email)
	assert.Equal(t, auth.RoleCustomer, user.Role)
	assert.Equal(t, auth.StatusActive, user.Status)

	// The stored credential is a salted hash, never the plaintext.
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

/*
TestService_Register_Duplicate verifies that reusing a username or email in
any letter casing is rejected with 409.
*/
func TestService_Register_Duplicate(t *testing.T) {
	service, _, _ := newTestService(t)
	register(t, service)

	tests := []struct {
		name  string
		input auth.RegisterInput
	}{
		{"same_username", auth.RegisterInput{Username: "THAO.NGUYEN", Email: "other@example.com", Password: "x"}},
		{"same_email", auth.RegisterInput{Username: "someone.else", Email: "Thao.Nguyen@example.com", Password: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
		})
	}
}

/*
TestService_Login verifies credential checks, token bundle shape, and login
bookkeeping for both login-identifier forms.
*/
func TestService_Login(t *testing.T) {
	service, users, sessions := newTestService(t)
	user := register(t, service)

	tests := []struct {
		name  string
		login string
	}{
		{"by_email", "thao.nguyen@example.com"},
		{"by_username", "thao.nguyen"},
		{"by_email_mixed_case", "Thao.Nguyen@EXAMPLE.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, err := service.Login(context.Background(), auth.LoginInput{
				Login:    tt.login,
				Password: "s3cret-pass",
			})
			require.NoError(t, err)

			assert.NotEmpty(t, bundle.AccessToken)
			assert.NotEmpty(t, bundle.RefreshToken)
			assert.Equal(t, "bearer", bundle.TokenType)
			assert.Equal(t, "api", bundle.Scope)
			assert.Equal(t, user.ID, bundle.UserID)
			assert.InDelta(t, 15*60, bundle.ExpiresIn, 2)
			assert.True(t, bundle.ExpiresAt.After(bundle.IssuedAt))
		})
	}

	// Bookkeeping: the last successful login is recorded.
	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginDate)

	// One refresh session per successful login.
	assert.Equal(t, 3, sessions.count())
}

/*
TestService_Login_GenericFailure verifies that an unknown login, a wrong
password, and a corrupt stored hash all yield the same generic error.
*/
func TestService_Login_GenericFailure(t *testing.T) {
	service, users, _ := newTestService(t)
	user := register(t, service)

	corruptUser := *user
	corruptUser.ID = "018f2c00-0000-7000-8000-0000000000cc"
	corruptUser.Username = "broken.account"
	corruptUser.Email = "broken@example.com"
	corruptUser.PasswordHash = "not-a-bcrypt-hash"
	require.NoError(t, users.Create(context.Background(), &corruptUser))

	tests := []struct {
		name  string
		input auth.LoginInput
	}{
		{"unknown_login", auth.LoginInput{Login: "ghost@example.com", Password: "whatever"}},
		{"wrong_password", auth.LoginInput{Login: "thao.nguyen", Password: "wrong-pass"}},
		{"corrupt_stored_hash", auth.LoginInput{Login: "broken.account", Password: "whatever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
			assert.Equal(t, "Invalid login credentials", ae.Message)
		})
	}
}

/*
TestService_Refresh_Rotation verifies that refreshing yields a new pair and
kills the presented token, so a replay of the old token fails.
*/
func TestService_Refresh_Rotation(t *testing.T) {
	service, _, sessions := newTestService(t)
	user := register(t, service)

	first, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "thao.nguyen",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	second, err := service.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, second.UserID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Exactly one live session: the rotated one.
	assert.Equal(t, 1, sessions.count())

	// Replaying the consumed token must fail.
	_, err = service.Refresh(context.Background(), first.RefreshToken)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
	assert.Equal(t, "Invalid or expired refresh token", ae.Message)
}

/*
TestService_Logout verifies revocation and its idempotency.
*/
func TestService_Logout(t *testing.T) {
	service, _, sessions := newTestService(t)
	register(t, service)

	bundle, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "thao.nguyen",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, 1, sessions.count())

	require.NoError(t, service.Logout(context.Background(), bundle.RefreshToken))
	assert.Equal(t, 0, sessions.count())

	// A second logout with the same (now dead) token is still a success.
	assert.NoError(t, service.Logout(context.Background(), bundle.RefreshToken))

	// The revoked token can no longer mint new credentials.
	_, err = service.Refresh(context.Background(), bundle.RefreshToken)
	assert.NotNil(t, apperr.As(err))
}
