// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package mood

import (
	"context"
	"log/slog"
	"time"

	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/validate"
	"github.com/moodlyapp/moodly/pkg/uuidv7"
)

const (
	FieldDescription = "description"
	FieldMoodType    = "mood_type"
	FieldLocation    = "location"
	FieldMoodDate    = "mood_date"
)

// # Service Layer

// Service orchestrates the business logic for mood journal entries.
//
// # Ownership
//
// Every read and write goes through an ownership check. A mood that exists
// but belongs to someone else is reported as not found, so entry IDs cannot
// be probed across accounts.
type Service struct {
	moods  MoodRepository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(moods MoodRepository, logger *slog.Logger) *Service {
	return &Service{
		moods:  moods,
		logger: logger,
	}
}

// CreateInput carries the fields of a new mood entry.
type CreateInput struct {
	Description string
	MoodType    int
	Location    string
	MoodDate    time.Time
}

/*
CreateMood validates and persists a new journal entry for the given user.

Parameters:
  - ctx: context.Context
  - userID: string (Owner, taken from the authenticated identity)
  - input: CreateInput

Returns:
  - *Mood: The persisted entry
  - error: Validation or persistence errors
*/
func (service *Service) CreateMood(ctx context.Context, userID string, input CreateInput) (*Mood, error) {

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldDescription, input.Description)
	validator.MaxLen(FieldDescription, input.Description, 1000)
	validator.Range(FieldMoodType, input.MoodType, MoodTypeMin, MoodTypeMax)
	validator.MaxLen(FieldLocation, input.Location, 255)
	validator.Custom(FieldMoodDate, input.MoodDate.IsZero(), "Mood date is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry := &Mood{
		ID:          uuidv7.New(),
		UserID:      userID,
		Description: input.Description,
		MoodType:    input.MoodType,
		Location:    input.Location,
		MoodDate:    input.MoodDate,
	}

	if err := service.moods.Create(ctx, entry); err != nil {
		return nil, err
	}

	service.logger.Info("mood_created",
		slog.String("mood_id", entry.ID),
		slog.String("user_id", userID),
		slog.Int("mood_type", entry.MoodType),
	)

	return entry, nil
}

/*
GetMood retrieves a single entry, enforcing ownership.

Parameters:
  - ctx: context.Context
  - requesterID: string (The authenticated user)
  - moodID: string (UUID)

Returns:
  - *Mood: The hydrated entry
  - error: apperr.NotFound when missing OR owned by someone else
*/
func (service *Service) GetMood(ctx context.Context, requesterID, moodID string) (*Mood, error) {
	entry, err := service.moods.FindByID(ctx, moodID)
	if err != nil {
		return nil, err
	}

	// Another user's entry is indistinguishable from an absent one.
	if entry.UserID != requesterID {
		return nil, apperr.NotFound("Mood")
	}

	return entry, nil
}

/*
ListMoods retrieves a page of the requester's own entries.

Parameters:
  - ctx: context.Context
  - requesterID: string (The authenticated user)
  - filter: Filter (Date window)
  - limit: int
  - offset: int

Returns:
  - []*Mood: Page of entries, newest mood date first
  - int: Total matching entries
  - error: Storage failures
*/
func (service *Service) ListMoods(ctx context.Context, requesterID string, filter Filter, limit, offset int) ([]*Mood, int, error) {
	return service.moods.ListByUser(ctx, requesterID, filter, limit, offset)
}

// UpdateInput carries the mutable fields of an entry. Nil means unchanged.
type UpdateInput struct {
	Description *string
	MoodType    *int
	Location    *string
	MoodDate    *time.Time
}

/*
UpdateMood applies a partial update to an entry the requester owns.

Parameters:
  - ctx: context.Context
  - requesterID: string (The authenticated user)
  - moodID: string (UUID)
  - input: UpdateInput

Returns:
  - *Mood: The updated entry
  - error: apperr.NotFound for missing/foreign entries; validation errors
*/
func (service *Service) UpdateMood(ctx context.Context, requesterID, moodID string, input UpdateInput) (*Mood, error) {
	entry, err := service.GetMood(ctx, requesterID, moodID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Description != nil {
		entry.Description = *input.Description
	}
	if input.MoodType != nil {
		entry.MoodType = *input.MoodType
	}
	if input.Location != nil {
		entry.Location = *input.Location
	}
	if input.MoodDate != nil {
		entry.MoodDate = *input.MoodDate
	}

	// Re-validate the merged state, not just the delta.
	validator := &validate.Validator{}
	validator.Required(FieldDescription, entry.Description)
	validator.MaxLen(FieldDescription, entry.Description, 1000)
	validator.Range(FieldMoodType, entry.MoodType, MoodTypeMin, MoodTypeMax)
	validator.MaxLen(FieldLocation, entry.Location, 255)
	validator.Custom(FieldMoodDate, entry.MoodDate.IsZero(), "Mood date is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.moods.Update(ctx, entry); err != nil {
		return nil, err
	}

	service.logger.Info("mood_updated",
		slog.String("mood_id", entry.ID),
		slog.String("user_id", requesterID),
	)

	return entry, nil
}

/*
DeleteMood soft-deletes an entry the requester owns.

Parameters:
  - ctx: context.Context
  - requesterID: string (The authenticated user)
  - moodID: string (UUID)

Returns:
  - error: apperr.NotFound for missing/foreign entries; removal failures
*/
func (service *Service) DeleteMood(ctx context.Context, requesterID, moodID string) error {
	if _, err := service.GetMood(ctx, requesterID, moodID); err != nil {
		return err
	}

	if err := service.moods.SoftDelete(ctx, moodID); err != nil {
		return err
	}

	service.logger.Info("mood_deleted",
		slog.String("mood_id", moodID),
		slog.String("user_id", requesterID),
	)

	return nil
}

// # Aggregation

/*
Summarize produces the anonymized cross-user aggregate for a date window.

Description: Intended for merchant accounts only; the role gate is enforced
at the router. The result contains counts per intensity and an overall
average, never individual entries or user IDs.

Parameters:
  - ctx: context.Context
  - filter: Filter (Date window)

Returns:
  - *Summary: Anonymized aggregate
  - error: Storage failures
*/
func (service *Service) Summarize(ctx context.Context, filter Filter) (*Summary, error) {
	return service.moods.Summarize(ctx, filter)
}
