// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodlyapp/moodly/internal/auth"
	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/ctxutil"
	"github.com/moodlyapp/moodly/internal/platform/middleware"
)

// fakeGate resolves a single known token to a fixed user.
type fakeGate struct {
	token string
	user  *auth.User
}

func (g *fakeGate) Authenticate(_ context.Context, rawToken string) (*auth.User, error) {
	if g.user != nil && rawToken == g.token {
		return g.user, nil
	}
	return nil, apperr.Unauthenticated(nil)
}

func (g *fakeGate) RequireActive(user *auth.User) error {
	if !user.IsActive() {
		return apperr.InactiveAccount()
	}
	return nil
}

func (g *fakeGate) RequireRole(user *auth.User, allowed ...auth.UserRole) error {
	if !user.Role.In(allowed...) {
		return apperr.RoleNotPermitted()
	}
	return nil
}

func activeCustomer() *auth.User {
	return &auth.User{
		ID:       "018f2c00-0000-7000-8000-000000000001",
		Username: "mai.tran",
		Role:     auth.RoleCustomer,
		Status:   auth.StatusActive,
	}
}

// echoUser records whether the handler ran and which user it saw.
func echoUser(seen **auth.User, called *bool) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*called = true
		*seen = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate_AnonymousPassThrough verifies that a request without an
Authorization header reaches the handler with no user in context.
*/
func TestAuthenticate_AnonymousPassThrough(t *testing.T) {
	gate := &fakeGate{}

	var seen *auth.User
	var called bool
	handler := middleware.Authenticate(gate)(echoUser(&seen, &called))

	request := httptest.NewRequest(http.MethodGet, "/moods", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.True(t, called)
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestAuthenticate_ValidToken verifies that a valid bearer token resolves the
full user into the request context.
*/
func TestAuthenticate_ValidToken(t *testing.T) {
	user := activeCustomer()
	gate := &fakeGate{token: "good-token", user: user}

	var seen *auth.User
	var called bool
	handler := middleware.Authenticate(gate)(echoUser(&seen, &called))

	request := httptest.NewRequest(http.MethodGet, "/moods", nil)
	request.Header.Set("Authorization", "Bearer good-token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.True(t, called)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
}

/*
TestAuthenticate_RejectedCredentials verifies that malformed headers and
rejected tokens all produce the same 401 response.
*/
func TestAuthenticate_RejectedCredentials(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"bad_scheme", "Basic abc123"},
		{"missing_token", "Bearer"},
		{"too_many_parts", "Bearer one two"},
		{"unknown_token", "Bearer forged-token"},
	}

	gate := &fakeGate{token: "good-token", user: activeCustomer()}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *auth.User
			var called bool
			handler := middleware.Authenticate(gate)(echoUser(&seen, &called))

			request := httptest.NewRequest(http.MethodGet, "/moods", nil)
			request.Header.Set("Authorization", tt.header)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "Could not validate credentials")
			assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
		})
	}
}

/*
TestRequireAuth verifies the authenticated-only guard.
*/
func TestRequireAuth(t *testing.T) {
	var seen *auth.User
	var called bool
	handler := middleware.RequireAuth(echoUser(&seen, &called))

	t.Run("anonymous_blocked", func(t *testing.T) {
		called = false
		request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_allowed", func(t *testing.T) {
		called = false
		request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), activeCustomer())
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

/*
TestRequireActiveUser verifies that suspended accounts are rejected with 400
while active accounts pass through.
*/
func TestRequireActiveUser(t *testing.T) {
	gate := &fakeGate{}

	var seen *auth.User
	var called bool
	handler := middleware.RequireActiveUser(gate)(echoUser(&seen, &called))

	t.Run("inactive_blocked", func(t *testing.T) {
		called = false
		user := activeCustomer()
		user.Status = auth.StatusInactive

		request := httptest.NewRequest(http.MethodGet, "/moods", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), user)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.False(t, called)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Inactive user")
	})

	t.Run("active_allowed", func(t *testing.T) {
		called = false
		request := httptest.NewRequest(http.MethodGet, "/moods", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), activeCustomer())
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.True(t, called)
	})
}

/*
TestRequireRole verifies role allow-set enforcement, including that account
state is checked before role membership.
*/
func TestRequireRole(t *testing.T) {
	gate := &fakeGate{}

	var seen *auth.User
	var called bool
	handler := middleware.RequireRole(gate, auth.RoleMerchant)(echoUser(&seen, &called))

	t.Run("wrong_role_forbidden", func(t *testing.T) {
		called = false
		request := httptest.NewRequest(http.MethodGet, "/moods/summary", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), activeCustomer())
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("matching_role_allowed", func(t *testing.T) {
		called = false
		user := activeCustomer()
		user.Role = auth.RoleMerchant

		request := httptest.NewRequest(http.MethodGet, "/moods/summary", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), user)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.True(t, called)
	})

	t.Run("inactive_rejected_before_role", func(t *testing.T) {
		called = false
		user := activeCustomer()
		user.Role = auth.RoleMerchant
		user.Status = auth.StatusInactive

		request := httptest.NewRequest(http.MethodGet, "/moods/summary", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), user)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.False(t, called)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("anonymous_unauthenticated", func(t *testing.T) {
		called = false
		request := httptest.NewRequest(http.MethodGet, "/moods/summary", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
