// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package mood

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moodlyapp/moodly/internal/platform/apperr"
)

// # PostgreSQL Repository

// PostgresMoodRepository implements [MoodRepository] using pgx.
//
// # Error Mapping
//
// pgx.ErrNoRows becomes [apperr.NotFound]; everything else is wrapped and
// bubbles up as an infrastructure error.
type PostgresMoodRepository struct {
	pool *pgxpool.Pool
}

// NewMoodRepository creates the PostgreSQL implementation of [MoodRepository].
func NewMoodRepository(pool *pgxpool.Pool) *PostgresMoodRepository {
	return &PostgresMoodRepository{pool: pool}
}

const moodColumns = `
	id, user_id, description, mood_type, location,
	mood_date, created_date, updated_date`

// scanMood hydrates a [*Mood] from a single-row query.
func scanMood(row pgx.Row) (*Mood, error) {
	entry := &Mood{}
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Description,
		&entry.MoodType,
		&entry.Location,
		&entry.MoodDate,
		&entry.CreatedDate,
		&entry.UpdatedDate,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Create persists a new mood entry.
func (repository *PostgresMoodRepository) Create(ctx context.Context, entry *Mood) error {
	const query = `
		INSERT INTO moods (
			id, user_id, description, mood_type, location,
			mood_date, created_date, updated_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	entry.CreatedDate = now
	entry.UpdatedDate = now

	_, err := repository.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Description,
		entry.MoodType,
		entry.Location,
		entry.MoodDate,
		entry.CreatedDate,
		entry.UpdatedDate,
	)

	if err != nil {
		return fmt.Errorf("postgres_mood_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a mood entry by its unique ID.
func (repository *PostgresMoodRepository) FindByID(ctx context.Context, id string) (*Mood, error) {
	const query = `
		SELECT ` + moodColumns + `
		FROM moods
		WHERE id = $1 AND deleted_at IS NULL`

	entry, err := scanMood(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Mood")
		}
		return nil, fmt.Errorf("postgres_mood_repo_find_by_id_failed: %w", err)
	}

	return entry, nil
}

/*
ListByUser retrieves a page of a user's mood entries.

Description: Orders by mood date descending so the journal reads newest
first. Uses a window function to return the total match count without a
second round-trip.
*/
func (repository *PostgresMoodRepository) ListByUser(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Mood, int, error) {

	// Query construction with optional date-window predicates
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(`
		SELECT
			id, user_id, description, mood_type, location,
			mood_date, created_date, updated_date,
			COUNT(*) OVER() AS total_count
		FROM moods
		WHERE user_id = $1 AND deleted_at IS NULL`)
	args = append(args, userID)

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		queryBuilder.WriteString(fmt.Sprintf(" AND mood_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		queryBuilder.WriteString(fmt.Sprintf(" AND mood_date <= $%d", len(args)))
	}

	queryBuilder.WriteString(" ORDER BY mood_date DESC, id DESC")
	args = append(args, limit, offset)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)))

	// Query execution
	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_mood_repo_list_failed: %w", err)
	}
	defer rows.Close()

	// Row iteration and entity hydration
	var entries []*Mood
	var totalCount int

	for rows.Next() {
		entry := &Mood{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Description,
			&entry.MoodType,
			&entry.Location,
			&entry.MoodDate,
			&entry.CreatedDate,
			&entry.UpdatedDate,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_mood_repo_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, totalCount, nil
}

// Update persists changes to an existing mood entry.
func (repository *PostgresMoodRepository) Update(ctx context.Context, entry *Mood) error {
	const query = `
		UPDATE moods
		SET description = $2, mood_type = $3, location = $4, mood_date = $5, updated_date = $6
		WHERE id = $1 AND deleted_at IS NULL`

	entry.UpdatedDate = time.Now()
	tag, err := repository.pool.Exec(ctx, query,
		entry.ID,
		entry.Description,
		entry.MoodType,
		entry.Location,
		entry.MoodDate,
		entry.UpdatedDate,
	)

	if err != nil {
		return fmt.Errorf("postgres_mood_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Mood")
	}

	return nil
}

// SoftDelete marks a mood entry as deleted.
func (repository *PostgresMoodRepository) SoftDelete(ctx context.Context, id string) error {
	const query = "UPDATE moods SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL"

	tag, err := repository.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_mood_repo_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Mood")
	}

	return nil
}

/*
Summarize aggregates entries across all users into per-intensity buckets.

Description: Produces counts per mood type plus the overall average in a
single grouped query. Only aggregate values are selected; no user column
appears in the projection.
*/
func (repository *PostgresMoodRepository) Summarize(ctx context.Context, filter Filter) (*Summary, error) {

	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(`
		SELECT mood_type, COUNT(*) AS entry_count
		FROM moods
		WHERE deleted_at IS NULL`)

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		queryBuilder.WriteString(fmt.Sprintf(" AND mood_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		queryBuilder.WriteString(fmt.Sprintf(" AND mood_date <= $%d", len(args)))
	}

	queryBuilder.WriteString(" GROUP BY mood_type ORDER BY mood_type")

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_mood_repo_summarize_failed: %w", err)
	}
	defer rows.Close()

	summary := &Summary{Buckets: []SummaryBucket{}}
	var weightedSum int64

	for rows.Next() {
		var bucket SummaryBucket
		if err := rows.Scan(&bucket.MoodType, &bucket.Count); err != nil {
			return nil, fmt.Errorf("postgres_mood_repo_summarize_scan_failed: %w", err)
		}
		summary.Buckets = append(summary.Buckets, bucket)
		summary.TotalEntries += bucket.Count
		weightedSum += int64(bucket.MoodType) * bucket.Count
	}

	if summary.TotalEntries > 0 {
		summary.AverageMood = float64(weightedSum) / float64(summary.TotalEntries)
	}

	return summary, nil
}
