// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/moodlyapp/moodly/internal/auth"
	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/constants"
	"github.com/moodlyapp/moodly/internal/platform/ctxutil"
	"github.com/moodlyapp/moodly/internal/platform/respond"
)

// Authenticator defines the identity resolution behavior the middleware needs.
//
// # Why an interface?
//
// Defining Authenticator here decouples the middleware from [auth.Gate],
// allowing us to easily inject fakes during unit testing.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*auth.User, error)
	RequireActive(user *auth.User) error
	RequireRole(user *auth.User, allowed ...auth.UserRole) error
}

// Authenticate resolves the bearer token in the Authorization header to a
// full user record and stores it in the request context.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, resolve the token to a live user via [Authenticator].
//  4. Inject [*auth.User] into the request context for downstream use.
//
// A malformed header or a rejected token aborts the request. The gate
// deliberately reports every credential failure with the same message, so
// this middleware never reveals which check rejected the caller.
func Authenticate(gate Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Scheme Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != constants.BearerScheme {
				respond.Error(writer, request, apperr.Unauthenticated(nil))
				return
			}

			// ── 3. Identity Resolution ────────────────────────────────────────
			user, err := gate.Authenticate(request.Context(), parts[1])
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthenticated(nil))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireActiveUser blocks requests whose authenticated account is not active.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
func RequireActiveUser(gate Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if user == nil {
				respond.Error(writer, request, apperr.Unauthenticated(nil))
				return
			}

			// ── 2. Account State Check ────────────────────────────────────────
			if err := gate.RequireActive(user); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireRole blocks requests whose user's role is not in the allow-set.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies both
// [RequireAuth] and [RequireActiveUser]: a suspended account is rejected for
// its state before its role is ever considered.
func RequireRole(gate Authenticator, allowed ...auth.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if user == nil {
				respond.Error(writer, request, apperr.Unauthenticated(nil))
				return
			}

			// ── 2. Account State Check ────────────────────────────────────────
			if err := gate.RequireActive(user); err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Role Membership Check ──────────────────────────────────────
			if err := gate.RequireRole(user, allowed...); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
