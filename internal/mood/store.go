// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package mood

import "context"

// # Mood Data Access

// MoodRepository defines the data access contract for mood journal entries.
type MoodRepository interface {

	/*
		Create persists a new mood entry to the store.

		Parameters:
		  - ctx: context.Context
		  - entry: *Mood

		Returns:
		  - error: Storage failure
	*/
	Create(ctx context.Context, entry *Mood) error

	/*
		FindByID returns the mood entry with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string (UUID)

		Returns:
		  - *Mood: Hydrated entry
		  - error: apperr.NotFound if missing or soft-deleted
	*/
	FindByID(ctx context.Context, id string) (*Mood, error)

	/*
		ListByUser returns a user's mood entries ordered by mood date,
		newest first.

		Parameters:
		  - ctx: context.Context
		  - userID: string (Owner ID)
		  - filter: Filter (Date window)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Mood: Page of entries
		  - int: Total matching entries
		  - error: Storage failures
	*/
	ListByUser(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Mood, int, error)

	/*
		Update persists changes to an existing mood entry.

		Parameters:
		  - ctx: context.Context
		  - entry: *Mood

		Returns:
		  - error: apperr.NotFound if missing; update failures
	*/
	Update(ctx context.Context, entry *Mood) error

	/*
		SoftDelete marks a mood entry as deleted without physical row removal.

		Parameters:
		  - ctx: context.Context
		  - id: string (UUID)

		Returns:
		  - error: apperr.NotFound if missing; removal failures
	*/
	SoftDelete(ctx context.Context, id string) error

	/*
		Summarize aggregates all users' entries in a date window into
		per-intensity buckets. No user identifiers leave the database.

		Parameters:
		  - ctx: context.Context
		  - filter: Filter (Date window)

		Returns:
		  - *Summary: Anonymized aggregate
		  - error: Storage failures
	*/
	Summarize(ctx context.Context, filter Filter) (*Summary, error)
}
