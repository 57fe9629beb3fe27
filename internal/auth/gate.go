// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package auth

import (
	"context"

	"github.com/moodlyapp/moodly/internal/platform/apperr"
)

// TokenValidator is the slice of the token codec the gate needs.
//
// # Why an interface?
//
// It decouples the gate from the sec package implementation, so gate tests
// can reject tokens with precisely controlled failure kinds.
type TokenValidator interface {
	// Validate returns the embedded subject ID and scope, or one of the
	// sec sentinel kinds (malformed / signature / expired).
	Validate(rawToken string) (subjectID, scope string, err error)
}

// Gate composes token validation, identity resolution, and state/role
// predicates into the request-time access checks every protected endpoint
// runs before its handler.
//
// # Statelessness
//
// A Gate holds only immutable references; all methods are pure functions of
// their inputs plus the shared signing key and the user store. It is safe
// for unrestricted concurrent use and produces no side effects, so a check
// abandoned mid-flight (client disconnect) leaves nothing behind.
type Gate struct {
	tokens TokenValidator
	users  UserRepository
}

// NewGate constructs a [Gate].
func NewGate(tokens TokenValidator, users UserRepository) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate resolves a raw bearer token to a live user identity.
//
// # Flow
//  1. Validate the token signature and window via [TokenValidator].
//  2. Load the embedded subject from the user store.
//
// # Indistinguishability
//
// Every failure in either stage — malformed token, bad signature, expired
// token, or a subject that no longer exists — returns the SAME
// [apperr.Unauthenticated] error. Callers (and therefore clients) cannot
// probe which stage rejected them. The true cause rides along as the
// error's unexported Cause for server-side logs only.
//
// Infrastructure failures of the user store are the one exception: they
// bubble up unchanged so an outage maps to 5xx, not to a misleading 401.
func (gate *Gate) Authenticate(ctx context.Context, rawToken string) (*User, error) {
	subjectID, _, err := gate.tokens.Validate(rawToken)
	if err != nil {
		return nil, apperr.Unauthenticated(err)
	}

	user, err := gate.users.FindByID(ctx, subjectID)
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			return nil, apperr.Unauthenticated(err)
		}
		// Store unavailable: a distinguishable infrastructure error.
		return nil, err
	}

	return user, nil
}

// RequireActive rejects identities that are not in the active state.
//
// Unlike authentication failures this outcome is surfaced distinctly: the
// caller holds a valid token and should be told the account needs
// reactivation rather than be sent back to the login page.
func (gate *Gate) RequireActive(user *User) error {
	if !user.IsActive() {
		return apperr.InactiveAccount()
	}
	return nil
}

// RequireRole rejects identities whose role is not in the allow-set.
//
// Membership is an exact match; there is no hierarchy between roles.
func (gate *Gate) RequireRole(user *User, allowed ...UserRole) error {
	if !user.Role.In(allowed...) {
		return apperr.RoleNotPermitted()
	}
	return nil
}
