// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer behind small interfaces, never reached through globals.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Internal token-rejection kinds. These are for logging and tests only; the
// access gate collapses all of them into one opaque UNAUTHENTICATED response
// before anything reaches a client.
var (
	// ErrTokenMalformed means the raw value could not be parsed as a JWT,
	// or its claims are structurally unusable (e.g. missing subject).
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenSignature means the token parsed but its signature does not
	// verify against the configured key, or it was signed with an
	// unexpected algorithm.
	ErrTokenSignature = errors.New("sec: token signature is invalid")

	// ErrTokenExpired means the signature verified but the validity window
	// has closed. Expiry is terminal: a token never becomes valid again.
	ErrTokenExpired = errors.New("sec: token is expired")
)

// AccessClaims is the payload embedded inside a Moodly access token.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Scope limits what the token may be used for (default "api").
	Scope string `json:"scope"`
}

// IssuedToken is the result of a successful [TokenService.Issue] call.
//
// The timestamps are returned alongside the signed string so the HTTP layer
// can build its token response without re-parsing the JWT it just created.
type IssuedToken struct {
	SignedToken string
	SubjectID   string
	Scope       string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// TokenService issues and validates signed, time-limited bearer tokens.
//
// # Immutability
//
// The signing key, algorithm, issuer, and defaults are fixed at construction
// and never change for the lifetime of the process. This keeps the service
// safe for unrestricted concurrent use and lets tests inject fixture keys.
type TokenService struct {
	signingKey   []byte
	method       jwt.SigningMethod
	issuer       string
	defaultScope string
	accessTTL    time.Duration
}

// NewTokenService creates a [TokenService] from an HMAC secret.
//
// # Parameters
//   - secret: raw HMAC signing key. Must be non-empty.
//   - algorithm: one of HS256, HS384, HS512. Anything else is rejected at
//     startup rather than discovered on the first login.
//   - issuer: value for the standard 'iss' claim.
//   - defaultScope: scope stamped into tokens when the caller passes "".
//   - accessTTL: default validity window for issued tokens.
func NewTokenService(secret, algorithm, issuer, defaultScope string, accessTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q (want HS256/HS384/HS512)", algorithm)
	}

	if accessTTL <= 0 {
		return nil, fmt.Errorf("sec: access token TTL must be positive, got %s", accessTTL)
	}

	return &TokenService{
		signingKey:   []byte(secret),
		method:       method,
		issuer:       issuer,
		defaultScope: defaultScope,
		accessTTL:    accessTTL,
	}, nil
}

// DefaultScope returns the scope used when [TokenService.Issue] is called with "".
func (service *TokenService) DefaultScope() string {
	return service.defaultScope
}

// AccessTTL returns the default validity window for issued tokens.
func (service *TokenService) AccessTTL() time.Duration {
	return service.accessTTL
}

// Issue produces a signed access token asserting the given subject.
//
// # Parameters
//   - subjectID: the user ID embedded as the 'sub' claim.
//   - scope: token scope; "" selects the configured default.
//   - timeToLive: validity window; zero selects the configured default.
//
// Given the same key and claims the signature is deterministic; uniqueness
// across logins comes from the issued-at timestamp.
func (service *TokenService) Issue(subjectID, scope string, timeToLive time.Duration) (*IssuedToken, error) {
	if subjectID == "" {
		return nil, errors.New("sec: cannot issue token without a subject")
	}
	if scope == "" {
		scope = service.defaultScope
	}
	if timeToLive == 0 {
		timeToLive = service.accessTTL
	}

	issuedAt := time.Now()
	expiresAt := issuedAt.Add(timeToLive)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Scope: scope,
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.signingKey)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return &IssuedToken{
		SignedToken: signedToken,
		SubjectID:   subjectID,
		Scope:       scope,
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate checks the signature and validity window of a raw token string.
//
// # Returns
//
// On success, the embedded subject ID and scope. On failure, exactly one of
// the sentinel kinds: [ErrTokenMalformed], [ErrTokenSignature], or
// [ErrTokenExpired]. Signature verification happens before the time check,
// so a tampered-but-expired token reports the signature condition.
func (service *TokenService) Validate(rawToken string) (subjectID, scope string, err error) {
	claims := &AccessClaims{}

	_, err = jwt.ParseWithClaims(rawToken, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return service.signingKey, nil
		},
		jwt.WithValidMethods([]string{service.method.Alg()}),
	)

	if err != nil {
		return "", "", classifyParseError(err)
	}

	// A verified token without a subject is useless to the resolver.
	if claims.Subject == "" {
		return "", "", ErrTokenMalformed
	}

	return claims.Subject, claims.Scope, nil
}

// classifyParseError maps golang-jwt's error chain onto our sentinel kinds.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignature
	default:
		// Anything else (bad segment count, invalid base64, broken JSON)
		// is a structural failure.
		return ErrTokenMalformed
	}
}
