// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

// Package identifier canonicalizes user-supplied login identifiers.
//
// # Usage
//
// Usernames and emails are normalized once at the API boundary so that the
// same account cannot be registered twice under visually identical names
// (e.g., a full-width "ａｄｍｉｎ" vs ASCII "admin"), and so login lookups
// hit the same canonical value that registration stored.
package identifier

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize converts an identifier into its canonical stored form.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Applies Unicode NFKC normalization (folds compatibility variants).
// 3. Lowercases the result.
func Normalize(s string) string {
	trimmed := strings.TrimSpace(s)
	composed := norm.NFKC.String(trimmed)

	return strings.ToLower(composed)
}

// Equal reports whether two identifiers are the same after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
