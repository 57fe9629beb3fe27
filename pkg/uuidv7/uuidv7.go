// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// # Why UUIDv7?
//
// Moodly uses it as the primary key type for every table. Time-sortable IDs
// keep PostgreSQL btree indexes append-mostly, avoiding the page splits that
// random UUIDv4 keys cause on insert-heavy tables such as mood entries.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// # Safety
//
// It panics only if the OS random source is unavailable (extremely rare).
// Entropy failure is an unrecoverable system-level condition, so a panic
// here is acceptable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}
