// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

/*
Package mood provides the HTTP delivery layer for the mood journal.

# Security

All endpoints require an active authenticated user. The summary endpoint is
additionally restricted to merchant accounts at the router.
*/
package mood

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moodlyapp/moodly/internal/platform/apperr"
	requestutil "github.com/moodlyapp/moodly/internal/platform/request"
	"github.com/moodlyapp/moodly/internal/platform/respond"
	"github.com/moodlyapp/moodly/pkg/pagination"
)

// moodDateLayout is the wire format for mood dates (date only, no time).
const moodDateLayout = "2006-01-02"

// Handler implements the HTTP layer for mood journal entries.
type Handler struct {
	moodService *Service
}

// NewHandler constructs a new mood [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{moodService: service}
}

// Routes returns a [chi.Router] with the personal journal endpoints.
// The merchant-only summary route is mounted separately via [SummaryRoutes]
// so the router can wrap it in a stricter role gate.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listMoods)
	router.Post("/", handler.createMood)
	router.Get("/{id}", handler.getMood)
	router.Put("/{id}", handler.updateMood)
	router.Delete("/{id}", handler.deleteMood)

	return router
}

// SummaryRoutes returns a [chi.Router] with the aggregate endpoint.
func (handler *Handler) SummaryRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.summarize)
	return router
}

// # Journal Endpoints

// moodRequest is the JSON payload for creating an entry.
type moodRequest struct {
	Description string `json:"description"`
	MoodType    int    `json:"mood_type"`
	Location    string `json:"location"`
	MoodDate    string `json:"mood_date"`
}

// moodUpdateRequest is the JSON payload for partial updates.
type moodUpdateRequest struct {
	Description *string `json:"description"`
	MoodType    *int    `json:"mood_type"`
	Location    *string `json:"location"`
	MoodDate    *string `json:"mood_date"`
}

/*
POST /api/v1/moods.

Description: Records a new mood entry for the authenticated user.

Request:
  - body: moodRequest

Response:
  - 201: Mood: The persisted entry
  - 400: Validation: Invalid input data
  - 401: Unauthenticated: Authentication required
*/
func (handler *Handler) createMood(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input moodRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	moodDate, err := parseMoodDate(input.MoodDate)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.moodService.CreateMood(request.Context(), userID, CreateInput{
		Description: input.Description,
		MoodType:    input.MoodType,
		Location:    input.Location,
		MoodDate:    moodDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

/*
GET /api/v1/moods.

Description: Lists the authenticated user's own entries, newest mood date
first, optionally narrowed to a date window.

Request:
  - page, limit: Pagination query parameters
  - from, to: Optional date bounds (YYYY-MM-DD)

Response:
  - 200: []Mood + pagination meta
  - 401: Unauthenticated: Authentication required
*/
func (handler *Handler) listMoods(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	entries, total, err := handler.moodService.ListMoods(request.Context(), userID, filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if entries == nil {
		entries = []*Mood{}
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/moods/{id}.

Description: Retrieves one entry. An entry owned by another user is reported
as not found.

Response:
  - 200: Mood: The hydrated entry
  - 404: NotFound: Missing or foreign entry
*/
func (handler *Handler) getMood(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.moodService.GetMood(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
PUT /api/v1/moods/{id}.

Description: Applies a partial update to an entry the user owns.

Request:
  - body: moodUpdateRequest (Partial JSON)

Response:
  - 200: Mood: The updated entry
  - 400: Validation: Invalid input data
  - 404: NotFound: Missing or foreign entry
*/
func (handler *Handler) updateMood(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input moodUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update := UpdateInput{
		Description: input.Description,
		MoodType:    input.MoodType,
		Location:    input.Location,
	}
	if input.MoodDate != nil {
		moodDate, err := parseMoodDate(*input.MoodDate)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		update.MoodDate = &moodDate
	}

	entry, err := handler.moodService.UpdateMood(request.Context(), userID, requestutil.ID(request, "id"), update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
DELETE /api/v1/moods/{id}.

Description: Soft-deletes an entry the user owns.

Response:
  - 204: No Content: Entry deleted
  - 404: NotFound: Missing or foreign entry
*/
func (handler *Handler) deleteMood(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.moodService.DeleteMood(request.Context(), userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Aggregate Endpoints

/*
GET /api/v1/moods/summary.

Description: Returns anonymized, cross-user mood statistics for merchant
accounts. Individual entries and user IDs are never exposed.

Request:
  - from, to: Optional date bounds (YYYY-MM-DD)

Response:
  - 200: Summary: Per-intensity buckets and overall average
  - 403: RoleNotPermitted: Caller is not a merchant
*/
func (handler *Handler) summarize(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.moodService.Summarize(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

// # Request Parsing Helpers

// parseMoodDate parses a YYYY-MM-DD value.
func parseMoodDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperr.ValidationError("Invalid input", apperr.FieldError{
			Field:   FieldMoodDate,
			Message: "Mood date is required",
		})
	}

	parsed, err := time.Parse(moodDateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.ValidationError("Invalid input", apperr.FieldError{
			Field:   FieldMoodDate,
			Message: "Mood date must be in YYYY-MM-DD format",
		})
	}

	return parsed, nil
}

// parseFilter extracts the optional from/to date window from the query string.
func parseFilter(request *http.Request) (Filter, error) {
	var filter Filter

	if raw := request.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(moodDateLayout, raw)
		if err != nil {
			return Filter{}, apperr.ValidationError("Invalid input", apperr.FieldError{
				Field:   "from",
				Message: "Date must be in YYYY-MM-DD format",
			})
		}
		filter.From = parsed
	}

	if raw := request.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(moodDateLayout, raw)
		if err != nil {
			return Filter{}, apperr.ValidationError("Invalid input", apperr.FieldError{
				Field:   "to",
				Message: "Date must be in YYYY-MM-DD format",
			})
		}
		filter.To = parsed
	}

	return filter, nil
}
