// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moodlyapp/moodly/internal/auth"
	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/ctxutil"
	"github.com/moodlyapp/moodly/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
// It returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID retrieves a named URL parameter (UUID) from the request.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// CurrentUser extracts the authenticated user from the request context.
// Returns nil if the request is anonymous.
func CurrentUser(request *http.Request) *auth.User {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredUser ensures the request is authenticated and returns the user.
// Returns [apperr.Unauthenticated] otherwise.
func RequiredUser(request *http.Request) (*auth.User, error) {
	user := ctxutil.GetAuthUser(request.Context())
	if user == nil {
		return nil, apperr.Unauthenticated(nil)
	}
	return user, nil
}

// RequiredUserID returns the ID of the currently authenticated user.
func RequiredUserID(request *http.Request) (string, error) {
	user, err := RequiredUser(request)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
