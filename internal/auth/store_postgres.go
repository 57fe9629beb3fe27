// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] using pgx.
//
// # Error Mapping
//
// pgx.ErrNoRows becomes [apperr.NotFound]; unique-constraint violations
// become [apperr.Conflict]; everything else is wrapped and bubbles up as an
// infrastructure error so the gate can tell "absent" from "store down".
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates the PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `
	id, username, email, first_name, last_name, password_hash,
	role, status, register_date, updated_date, last_login_date`

// scanUser hydrates a [*User] from a single-row query, validating the role
// and status enumerations at the storage boundary.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var rawRole, rawStatus string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&rawRole,
		&rawStatus,
		&user.RegisterDate,
		&user.UpdatedDate,
		&user.LastLoginDate,
	)
	if err != nil {
		return nil, err
	}

	if user.Role, err = ParseRole(rawRole); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_bad_role: %w", err)
	}
	if user.Status, err = ParseStatus(rawStatus); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_bad_status: %w", err)
	}

	return user, nil
}

// Create persists a new user record into the users table.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, username, email, first_name, last_name, password_hash,
			role, status, register_date, updated_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.RegisterDate.IsZero() {
		user.RegisterDate = now
	}
	user.UpdatedDate = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.RegisterDate,
		user.UpdatedDate,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user record by their unique email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND deleted_at IS NULL`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

// FindByUsername retrieves a user record by their unique username.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 AND deleted_at IS NULL`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

// UpdateProfile persists changes to a user's mutable profile fields.
func (repository *PostgresUserRepository) UpdateProfile(ctx context.Context, user *User) error {
	const query = `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, updated_date = $5
		WHERE id = $1 AND deleted_at IS NULL`

	user.UpdatedDate = time.Now()
	tag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.UpdatedDate,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("This email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// UpdatePassword updates only the password hash for a specific user.
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, newHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_date = $3
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := repository.pool.Exec(ctx, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// TouchLastLogin records the timestamp of a successful authentication.
func (repository *PostgresUserRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	const query = "UPDATE users SET last_login_date = $2 WHERE id = $1 AND deleted_at IS NULL"

	if _, err := repository.pool.Exec(ctx, query, userID, at); err != nil {
		return fmt.Errorf("postgres_user_repo_touch_last_login_failed: %w", err)
	}

	return nil
}

// SoftDelete marks a user account as deleted using their ID.
func (repository *PostgresUserRepository) SoftDelete(ctx context.Context, id string) error {
	const query = "UPDATE users SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL"

	tag, err := repository.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
