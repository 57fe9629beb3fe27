// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package auth

// # Authentication Constraints

const (
	// RefreshTokenLength is the byte length of the random opaque refresh token.
	RefreshTokenLength = 32

	// BearerTokenType is the token_type value in issued credential bundles.
	BearerTokenType = "bearer"
)
