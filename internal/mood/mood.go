// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

// Package mood implements the mood journal, the core domain of Moodly.
//
// # Architecture
//
// Entities in this file represent the canonical mood record. Everything
// technology-specific (SQL, HTTP) lives in the sibling store and handler
// files.
package mood

import "time"

// MoodTypeMin and MoodTypeMax bound the 1..10 intensity scale.
const (
	MoodTypeMin = 1
	MoodTypeMax = 10
)

// Mood is a single journal entry: how a user felt, where, and when.
//
// # Rules
//   - MoodType is an integer on the closed 1..10 scale.
//   - MoodDate is the day the feeling occurred, which may lag behind
//     CreatedDate when entries are backfilled.
//   - A mood belongs to exactly one user and is never visible to others
//     except through anonymized aggregation.
type Mood struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	MoodType    int       `json:"mood_type"`
	Location    string    `json:"location"`
	MoodDate    time.Time `json:"mood_date"`
	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
}

// Filter narrows mood listings and summaries to a date window.
type Filter struct {
	// From is the inclusive lower bound on MoodDate. Zero means unbounded.
	From time.Time
	// To is the inclusive upper bound on MoodDate. Zero means unbounded.
	To time.Time
}

// SummaryBucket is one row of the anonymized aggregate: how many entries
// landed on a given mood intensity.
type SummaryBucket struct {
	MoodType int   `json:"mood_type"`
	Count    int64 `json:"count"`
}

// Summary is the merchant-facing aggregate over all users' moods. It carries
// no user identifiers at all.
type Summary struct {
	Buckets      []SummaryBucket `json:"buckets"`
	TotalEntries int64           `json:"total_entries"`
	AverageMood  float64         `json:"average_mood"`
}
