// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package sec

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrCredentialCorrupt signals that a stored credential could not be parsed
// as a bcrypt hash at all.
//
// # Handling
//
// Callers must treat this exactly like an incorrect password in user-facing
// responses; it exists as a distinct kind only so operators can spot data
// corruption in the logs.
var ErrCredentialCorrupt = errors.New("sec: stored credential is not a valid bcrypt hash")

// defaultMaxConcurrentHashes bounds how many bcrypt computations may run at
// once. Bcrypt is intentionally slow; without a bound, a burst of login
// attempts could saturate every CPU and starve unrelated requests.
const defaultMaxConcurrentHashes = 8

// Hasher performs salted one-way password hashing with bounded concurrency.
//
// # Concurrency
//
// All methods are safe for concurrent use. Work admission goes through a
// semaphore; a caller whose context is cancelled while queued gives up
// without burning CPU.
type Hasher struct {
	cost      int
	admission chan struct{}
}

// NewHasher constructs a [Hasher].
//
// # Parameters
//   - cost: bcrypt cost factor. Values below [bcrypt.MinCost] fall back to
//     [bcrypt.DefaultCost].
//   - maxConcurrent: upper bound on simultaneous hash computations. Values
//     below 1 fall back to a CPU-friendly default.
func NewHasher(cost, maxConcurrent int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent < 1 {
		maxConcurrent = defaultMaxConcurrentHashes
	}

	return &Hasher{
		cost:      cost,
		admission: make(chan struct{}, maxConcurrent),
	}
}

// Hash derives a salted bcrypt credential from a plain-text password.
//
// A fresh random salt is generated for every call, so hashing the same
// password twice yields two different credentials. The empty string is a
// legal (if unwise) password.
func (hasher *Hasher) Hash(ctx context.Context, plainTextPassword string) (string, error) {
	if err := hasher.acquire(ctx); err != nil {
		return "", err
	}
	defer hasher.release()

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// Verify recomputes the hash of plainTextPassword using the salt embedded in
// existingHash and compares the results in constant time.
//
// # Returns
//   - (true, nil) when the password matches.
//   - (false, nil) on a plain mismatch.
//   - (false, [ErrCredentialCorrupt]) when existingHash is not a bcrypt hash.
//     This never panics, regardless of how mangled the stored value is.
func (hasher *Hasher) Verify(ctx context.Context, plainTextPassword, existingHash string) (bool, error) {
	if err := hasher.acquire(ctx); err != nil {
		return false, err
	}
	defer hasher.release()

	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCredentialCorrupt, err)
	}
}

// acquire blocks until a hashing slot is free or the context is done.
func (hasher *Hasher) acquire(ctx context.Context) error {
	// Fast-path rejection: a caller that is already gone must not grab a
	// slot even when one happens to be free.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sec: hashing cancelled while queued: %w", err)
	}

	select {
	case hasher.admission <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sec: hashing cancelled while queued: %w", ctx.Err())
	}
}

// release frees a hashing slot.
func (hasher *Hasher) release() {
	<-hasher.admission
}
