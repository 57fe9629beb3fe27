// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package mood_test

import (
	"context"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodlyapp/moodly/internal/mood"
	"github.com/moodlyapp/moodly/internal/platform/apperr"
)

// memMoodRepo is an in-memory MoodRepository for service tests.
type memMoodRepo struct {
	entries map[string]*mood.Mood
}

func newMemMoodRepo() *memMoodRepo {
	return &memMoodRepo{entries: make(map[string]*mood.Mood)}
}

func (r *memMoodRepo) Create(_ context.Context, entry *mood.Mood) error {
	copied := *entry
	now := time.Now()
	copied.CreatedDate = now
	copied.UpdatedDate = now
	r.entries[entry.ID] = &copied
	return nil
}

func (r *memMoodRepo) FindByID(_ context.Context, id string) (*mood.Mood, error) {
	entry, found := r.entries[id]
	if !found {
		return nil, apperr.NotFound("Mood")
	}
	copied := *entry
	return &copied, nil
}

func (r *memMoodRepo) ListByUser(_ context.Context, userID string, filter mood.Filter, limit, offset int) ([]*mood.Mood, int, error) {
	var matched []*mood.Mood
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		if !filter.From.IsZero() && entry.MoodDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && entry.MoodDate.After(filter.To) {
			continue
		}
		copied := *entry
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].MoodDate.After(matched[j].MoodDate)
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *memMoodRepo) Update(_ context.Context, entry *mood.Mood) error {
	if _, found := r.entries[entry.ID]; !found {
		return apperr.NotFound("Mood")
	}
	copied := *entry
	copied.UpdatedDate = time.Now()
	r.entries[entry.ID] = &copied
	return nil
}

func (r *memMoodRepo) SoftDelete(_ context.Context, id string) error {
	if _, found := r.entries[id]; !found {
		return apperr.NotFound("Mood")
	}
	delete(r.entries, id)
	return nil
}

func (r *memMoodRepo) Summarize(_ context.Context, filter mood.Filter) (*mood.Summary, error) {
	counts := make(map[int]int64)
	for _, entry := range r.entries {
		if !filter.From.IsZero() && entry.MoodDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && entry.MoodDate.After(filter.To) {
			continue
		}
		counts[entry.MoodType]++
	}

	summary := &mood.Summary{Buckets: []mood.SummaryBucket{}}
	var weightedSum int64
	for moodType := mood.MoodTypeMin; moodType <= mood.MoodTypeMax; moodType++ {
		count, found := counts[moodType]
		if !found {
			continue
		}
		summary.Buckets = append(summary.Buckets, mood.SummaryBucket{MoodType: moodType, Count: count})
		summary.TotalEntries += count
		weightedSum += int64(moodType) * count
	}
	if summary.TotalEntries > 0 {
		summary.AverageMood = float64(weightedSum) / float64(summary.TotalEntries)
	}
	return summary, nil
}

func newTestService() (*mood.Service, *memMoodRepo) {
	repo := newMemMoodRepo()
	return mood.NewService(repo, slog.Default()), repo
}

func day(offset int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

const (
	ownerID    = "018f2c00-0000-7000-8000-000000000001"
	strangerID = "018f2c00-0000-7000-8000-000000000002"
)

/*
TestService_CreateMood verifies validation of the intensity scale and the
mandatory fields.
*/
func TestService_CreateMood(t *testing.T) {
	service, _ := newTestService()

	t.Run("valid_entry", func(t *testing.T) {
		entry, err := service.CreateMood(context.Background(), ownerID, mood.CreateInput{
			Description: "Sunny walk by the river",
			MoodType:    8,
			Location:    "Hanoi",
			MoodDate:    day(0),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, ownerID, entry.UserID)
		assert.Equal(t, 8, entry.MoodType)
	})

	invalids := []struct {
		name  string
		input mood.CreateInput
	}{
		{"mood_type_too_low", mood.CreateInput{Description: "x", MoodType: 0, MoodDate: day(0)}},
		{"mood_type_too_high", mood.CreateInput{Description: "x", MoodType: 11, MoodDate: day(0)}},
		{"missing_description", mood.CreateInput{MoodType: 5, MoodDate: day(0)}},
		{"missing_mood_date", mood.CreateInput{Description: "x", MoodType: 5}},
	}

	for _, tt := range invalids {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateMood(context.Background(), ownerID, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestService_Ownership verifies that another user's entry is indistinguishable
from an absent one for reads, updates, and deletes.
*/
func TestService_Ownership(t *testing.T) {
	service, _ := newTestService()

	entry, err := service.CreateMood(context.Background(), ownerID, mood.CreateInput{
		Description: "Quiet evening",
		MoodType:    6,
		MoodDate:    day(0),
	})
	require.NoError(t, err)

	t.Run("owner_reads", func(t *testing.T) {
		got, err := service.GetMood(context.Background(), ownerID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
	})

	t.Run("stranger_gets_not_found", func(t *testing.T) {
		_, err := service.GetMood(context.Background(), strangerID, entry.ID)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})

	t.Run("stranger_cannot_update", func(t *testing.T) {
		desc := "hijacked"
		_, err := service.UpdateMood(context.Background(), strangerID, entry.ID, mood.UpdateInput{Description: &desc})
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("stranger_cannot_delete", func(t *testing.T) {
		err := service.DeleteMood(context.Background(), strangerID, entry.ID)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

		// The entry is still there for its owner.
		_, err = service.GetMood(context.Background(), ownerID, entry.ID)
		assert.NoError(t, err)
	})
}

/*
TestService_UpdateMood verifies delta merging and re-validation of the merged
state.
*/
func TestService_UpdateMood(t *testing.T) {
	service, _ := newTestService()

	entry, err := service.CreateMood(context.Background(), ownerID, mood.CreateInput{
		Description: "Initial",
		MoodType:    5,
		Location:    "Home",
		MoodDate:    day(0),
	})
	require.NoError(t, err)

	t.Run("partial_update", func(t *testing.T) {
		newType := 9
		updated, err := service.UpdateMood(context.Background(), ownerID, entry.ID, mood.UpdateInput{
			MoodType: &newType,
		})
		require.NoError(t, err)
		assert.Equal(t, 9, updated.MoodType)
		assert.Equal(t, "Initial", updated.Description)
		assert.Equal(t, "Home", updated.Location)
	})

	t.Run("merged_state_validated", func(t *testing.T) {
		badType := 42
		_, err := service.UpdateMood(context.Background(), ownerID, entry.ID, mood.UpdateInput{
			MoodType: &badType,
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})
}

/*
TestService_ListMoods verifies ordering, pagination, and the date window.
*/
func TestService_ListMoods(t *testing.T) {
	service, _ := newTestService()

	for i := 0; i < 5; i++ {
		_, err := service.CreateMood(context.Background(), ownerID, mood.CreateInput{
			Description: "Entry",
			MoodType:    i + 1,
			MoodDate:    day(i),
		})
		require.NoError(t, err)
	}
	// A stranger's entry must never appear in the owner's listing.
	_, err := service.CreateMood(context.Background(), strangerID, mood.CreateInput{
		Description: "Foreign",
		MoodType:    10,
		MoodDate:    day(2),
	})
	require.NoError(t, err)

	t.Run("newest_first_paginated", func(t *testing.T) {
		page, total, err := service.ListMoods(context.Background(), ownerID, mood.Filter{}, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, page, 2)
		assert.True(t, page[0].MoodDate.After(page[1].MoodDate))
	})

	t.Run("date_window", func(t *testing.T) {
		page, total, err := service.ListMoods(context.Background(), ownerID, mood.Filter{
			From: day(1),
			To:   day(3),
		}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, page, 3)
	})
}

/*
TestService_Summarize verifies the anonymized aggregate math.
*/
func TestService_Summarize(t *testing.T) {
	service, _ := newTestService()

	// Two users, four entries: intensities 4, 4, 6, 10.
	for _, seed := range []struct {
		user     string
		moodType int
	}{
		{ownerID, 4}, {ownerID, 4}, {strangerID, 6}, {strangerID, 10},
	} {
		_, err := service.CreateMood(context.Background(), seed.user, mood.CreateInput{
			Description: "Entry",
			MoodType:    seed.moodType,
			MoodDate:    day(0),
		})
		require.NoError(t, err)
	}

	summary, err := service.Summarize(context.Background(), mood.Filter{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.TotalEntries)
	assert.InDelta(t, 6.0, summary.AverageMood, 0.001)
	require.Len(t, summary.Buckets, 3)
	assert.Equal(t, mood.SummaryBucket{MoodType: 4, Count: 2}, summary.Buckets[0])
}
