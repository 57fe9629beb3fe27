// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

// Package auth implements the identity and access management core of Moodly.
//
// # Architecture
//
// Entities in this file represent the "Truth" of the identity system.
// They have no dependencies on outer layers (HTTP, SQL, Redis); everything
// technology-specific lives in the sibling store and handler files.
package auth

import (
	"fmt"
	"time"
)

// UserRole classifies an account for authorization decisions.
//
// # Closed Enumeration
//
// Moodly recognizes exactly two roles. Role strings are validated with
// [ParseRole] at the data-model boundary (registration, row scanning) so
// handlers never need to defend against unknown values.
type UserRole string

const (
	// RoleCustomer is the default role: records and manages their own moods.
	RoleCustomer UserRole = "customer"

	// RoleMerchant can additionally read aggregated, anonymized mood data.
	RoleMerchant UserRole = "merchant"
)

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(raw string) (UserRole, error) {
	switch UserRole(raw) {
	case RoleCustomer, RoleMerchant:
		return UserRole(raw), nil
	default:
		return "", fmt.Errorf("auth: unknown role %q", raw)
	}
}

// In reports whether the role is a member of the given allow-set.
//
// # Exact Match
//
// There is no role hierarchy: a merchant is not a superset of a customer.
// Endpoints that accept several roles pass all of them explicitly.
func (r UserRole) In(allowed ...UserRole) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}

// UserStatus describes whether an account may currently act.
type UserStatus string

const (
	// StatusActive is the normal operating state.
	StatusActive UserStatus = "active"

	// StatusInactive blocks all gated operations until reactivation.
	StatusInactive UserStatus = "inactive"
)

// ParseStatus validates a raw status string against the closed enumeration.
func ParseStatus(raw string) (UserStatus, error) {
	switch UserStatus(raw) {
	case StatusActive, StatusInactive:
		return UserStatus(raw), nil
	default:
		return "", fmt.Errorf("auth: unknown status %q", raw)
	}
}

// User represents a registered Moodly account.
//
// # Rules
//   - Username and Email are unique and stored in normalized form.
//   - PasswordHash is produced exclusively by the sec.Hasher; the plaintext
//     secret is never stored or logged anywhere.
//   - Role and Status are members of their closed enumerations.
type User struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	PasswordHash  string     `json:"-"` // Explicitly omitted from JSON for security.
	Role          UserRole   `json:"role"`
	Status        UserStatus `json:"status"`
	RegisterDate  time.Time  `json:"register_date"`
	UpdatedDate   time.Time  `json:"updated_date"`
	LastLoginDate *time.Time `json:"last_login_date,omitempty"`
}

// IsActive reports whether the account may pass the activity gate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Token is the credential bundle returned to a caller on successful login
// or refresh. AccessToken is the bearer credential for subsequent requests;
// RefreshToken is an opaque, revocable handle for obtaining the next bundle.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scope        string    `json:"scope"`
	IssuedAt     time.Time `json:"issued_at"`
	UserID       string    `json:"user_id"`
}
