// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

/*
Package account provides self-service management of a Moodly user account.

It implements the RESTful interface for users to read and update their own
profile, rotate their password, and delete their account.

# Security

All endpoints in this package require an active authentication session
provided by the RequireActiveUser middleware.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/moodlyapp/moodly/internal/platform/request"
	"github.com/moodlyapp/moodly/internal/platform/respond"
	"github.com/moodlyapp/moodly/internal/platform/validate"
)

// Handler implements the HTTP layer for account self-management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.getMe)
	router.Put("/me", handler.updateMe)
	router.Put("/me/password", handler.changePassword)
	router.Delete("/me", handler.deleteMe)

	return router
}

// # Profile Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: Unauthenticated: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

/*
PUT /api/v1/users/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: Validation: Invalid input data
  - 401: Unauthenticated: Authentication required
  - 409: Conflict: Email already registered
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Email != nil {
		v.Email("email", *input.Email)
	}
	if input.FirstName != nil {
		v.MaxLen("first_name", *input.FirstName, 100)
	}
	if input.LastName != nil {
		v.MaxLen("last_name", *input.LastName, 100)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Credential Endpoints

// changePasswordRequest defines the payload for password rotation.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
PUT /api/v1/users/me/password.

Description: Rotates the authenticated user's password and signs out every
other device.

Request:
  - body: changePasswordRequest

Response:
  - 204: No Content: Password changed successfully
  - 400: Validation: Invalid input data
  - 401: Unauthorized: Current password is incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("current_password", input.CurrentPassword).
		Required("new_password", input.NewPassword).
		MinLen("new_password", input.NewPassword, 8).
		MaxLen("new_password", input.NewPassword, 128)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.ChangePassword(request.Context(), userID, ChangePasswordInput{
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Deletion Endpoints

// deleteMeRequest carries the password confirmation for account deletion.
type deleteMeRequest struct {
	Password string `json:"password"`
}

/*
DELETE /api/v1/users/me.

Description: Performs a password-confirmed soft-deletion of the authenticated
user's account and revokes every refresh session.

Request:
  - body: deleteMeRequest

Response:
  - 204: No Content: Account deleted successfully
  - 401: Unauthorized: Password is incorrect
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input deleteMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("password", input.Password)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
