// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/sec"
	"github.com/moodlyapp/moodly/pkg/identifier"
	"github.com/moodlyapp/moodly/pkg/uuidv7"
)

// TokenIssuer defines the contract for producing signed access tokens.
type TokenIssuer interface {
	// Issue creates a signed access token for the given subject.
	// An empty scope or zero TTL selects the configured defaults.
	Issue(subjectID, scope string, timeToLive time.Duration) (*sec.IssuedToken, error)
}

// PasswordHasher defines the contract for credential hashing.
//
// Both operations are CPU-bound and context-aware; implementations bound
// their own concurrency so login storms cannot starve the server.
type PasswordHasher interface {
	Hash(ctx context.Context, plainTextPassword string) (string, error)
	Verify(ctx context.Context, plainTextPassword, existingHash string) (bool, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	users      UserRepository
	sessions   RefreshSessionRepository
	tokens     TokenIssuer
	hasher     PasswordHasher
	refreshTTL time.Duration
	logger     *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	sessions RefreshSessionRepository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	refreshTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		hasher:     hasher,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register validates, hashes, and persists a brand new user account.
//
// # Business Rules
//   - Usernames and emails must be unique (compared in normalized form).
//   - Default role is always 'customer'; default status is 'active'.
//
// Returns [apperr.Conflict] if the username or email is already registered.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// ── 1. Normalization ─────────────────────────────────────────────────

	// Canonicalize once at the boundary so "Alice" and "alice" (or their
	// full-width lookalikes) cannot coexist as separate accounts.
	username := identifier.Normalize(input.Username)
	email := identifier.Normalize(input.Email)

	// ── 2. Uniqueness Checks ─────────────────────────────────────────────

	if _, err := service.users.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("This username already exists")
	}

	if _, err := service.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("This email is already registered")
	}

	// ── 3. Credential Hashing ────────────────────────────────────────────

	// The plaintext never leaves this scope; only the salted hash persists.
	hashedPassword, err := service.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction & Persistence ─────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to keep the PG index append-mostly.
		Username:     username,
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashedPassword,
		Role:         RoleCustomer, // Rule: default role is always customer.
		Status:       StatusActive,
	}

	if err := service.users.Create(ctx, user); err != nil {
		// The store maps unique violations to Conflict; the race between
		// the pre-check above and the insert ends here either way.
		return nil, err
	}

	return user, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Username or email.
	Password string
}

// Login validates credentials and issues a fresh token bundle.
//
// # Anti-Enumeration
//
// Every credential failure — unknown login, wrong password, even a corrupt
// stored hash — produces the same generic [apperr.Unauthorized]. A probing
// client learns nothing about which part was wrong or whether the account
// exists.
func (service *Service) Login(ctx context.Context, input LoginInput) (*Token, error) {
	// ── 1. Fetch User ────────────────────────────────────────────────────

	// Flexible login: the identifier may be an email or a username.
	login := identifier.Normalize(input.Login)

	user, err := service.users.FindByEmail(ctx, login)
	if err != nil {
		user, err = service.users.FindByUsername(ctx, login)
	}
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 2. Credential Verification ───────────────────────────────────────

	ok, err := service.hasher.Verify(ctx, input.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, sec.ErrCredentialCorrupt) {
			// Operator-visible data corruption; the client still sees only
			// the generic credential failure.
			service.logger.ErrorContext(ctx, "stored_credential_corrupt",
				slog.String("user_id", user.ID),
			)
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, fmt.Errorf("auth_service_verify_failed: %w", err)
	}
	if !ok {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 3. Token Issuance ────────────────────────────────────────────────

	bundle, err := service.issueBundle(ctx, user)
	if err != nil {
		return nil, err
	}

	// ── 4. Login Bookkeeping ─────────────────────────────────────────────

	if err := service.users.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Bookkeeping must not fail an otherwise successful login.
		service.logger.WarnContext(ctx, "last_login_update_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	return bundle, nil
}

// Refresh implements refresh-token rotation: it revokes the presented token
// and issues a fresh access/refresh pair.
//
// Returns [apperr.Unauthorized] for an unknown, expired, or already-rotated
// refresh token.
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	// ── 1. Resolve Session ───────────────────────────────────────────────

	tokenHash := sec.HashToken(refreshToken)
	userID, err := service.sessions.Get(ctx, tokenHash)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 2. Rotation (Revoke Before Reissue) ──────────────────────────────

	// Revoking first means a replayed refresh token is dead even if the
	// reissue below fails.
	if err := service.sessions.Delete(ctx, userID, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// ── 3. Re-resolve Identity ───────────────────────────────────────────

	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 4. Issue New Pair ────────────────────────────────────────────────

	return service.issueBundle(ctx, user)
}

// Logout revokes the presented refresh token.
//
// Logout is idempotent: revoking an unknown or already-revoked token is a
// success, since the desired end state (token unusable) already holds.
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := sec.HashToken(refreshToken)

	userID, err := service.sessions.Get(ctx, tokenHash)
	if err != nil {
		return nil
	}

	if err := service.sessions.Delete(ctx, userID, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// issueBundle mints an access token plus a stored, revocable refresh token
// and assembles the caller-facing credential bundle.
func (service *Service) issueBundle(ctx context.Context, user *User) (*Token, error) {
	issued, err := service.tokens.Issue(user.ID, "", 0)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.sessions.Set(ctx, sec.HashToken(refreshToken), user.ID, service.refreshTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_store_failed: %w", err)
	}

	return &Token{
		AccessToken:  issued.SignedToken,
		RefreshToken: refreshToken,
		TokenType:    BearerTokenType,
		ExpiresIn:    int64(issued.ExpiresAt.Sub(issued.IssuedAt).Seconds()),
		ExpiresAt:    issued.ExpiresAt,
		Scope:        issued.Scope,
		IssuedAt:     issued.IssuedAt,
		UserID:       user.ID,
	}, nil
}
