// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/moodlyapp/moodly/internal/auth"
	"github.com/moodlyapp/moodly/internal/platform/apperr"
)

// memUserRepo is an in-memory UserRepository used across the auth tests.
//
// Setting failWith makes every method return that error, simulating an
// unreachable store.
type memUserRepo struct {
	mu       sync.Mutex
	users    map[string]*auth.User
	failWith error
}

func newMemUserRepo(seed ...*auth.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*auth.User)}
	for _, user := range seed {
		copied := *user
		repo.users[user.ID] = &copied
	}
	return repo
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	user, found := r.users[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *memUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("This username already exists")
		}
	}
	copied := *user
	copied.RegisterDate = time.Now()
	copied.UpdatedDate = copied.RegisterDate
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, found := r.users[user.ID]
	if !found {
		return apperr.NotFound("User")
	}
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.UpdatedDate = time.Now()
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, found := r.users[userID]
	if !found {
		return apperr.NotFound("User")
	}
	existing.PasswordHash = newHash
	existing.UpdatedDate = time.Now()
	return nil
}

func (r *memUserRepo) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, found := r.users[userID]
	if !found {
		return apperr.NotFound("User")
	}
	existing.LastLoginDate = &at
	return nil
}

func (r *memUserRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.users[id]; !found {
		return apperr.NotFound("User")
	}
	delete(r.users, id)
	return nil
}

// memSessionRepo is an in-memory RefreshSessionRepository.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]string // tokenHash -> userID
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]string)}
}

func (r *memSessionRepo) Set(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[tokenHash] = userID
	return nil
}

func (r *memSessionRepo) Get(_ context.Context, tokenHash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, found := r.sessions[tokenHash]
	if !found {
		return "", apperr.NotFound("Refresh session")
	}
	return userID, nil
}

func (r *memSessionRepo) Delete(_ context.Context, _, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	return nil
}

func (r *memSessionRepo) RevokeAll(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, owner := range r.sessions {
		if owner == userID {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *memSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// stubValidator returns a fixed resolution outcome, letting gate tests
// exercise each rejection kind precisely.
type stubValidator struct {
	subjectID string
	scope     string
	err       error
}

func (v *stubValidator) Validate(string) (string, string, error) {
	return v.subjectID, v.scope, v.err
}
