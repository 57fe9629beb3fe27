// Copyright (c) 2026 Moodly. All rights reserved.
// Author: khanh.doan.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moodlyapp/moodly/internal/platform/apperr"
	"github.com/moodlyapp/moodly/internal/platform/constants"
)

// RedisRefreshSessionRepository implements [RefreshSessionRepository] on Redis.
//
// # Key Layout
//
//   - auth:refresh_token:<hash>  -> userID        (expires with the session TTL)
//   - auth:refresh_user:<userID> -> set of hashes (index for RevokeAll)
//
// Redis TTLs do the expiry work; no background cleanup pass is needed.
type RedisRefreshSessionRepository struct {
	client *redis.Client
}

// NewRefreshSessionRepository creates a Redis-backed [RefreshSessionRepository].
func NewRefreshSessionRepository(client *redis.Client) *RedisRefreshSessionRepository {
	return &RedisRefreshSessionRepository{client: client}
}

func refreshTokenKey(tokenHash string) string {
	return constants.RedisPrefixRefreshToken + tokenHash
}

func refreshUserKey(userID string) string {
	return "auth:refresh_user:" + userID
}

// Set stores a refresh-token hash and indexes it under its owner.
func (repository *RedisRefreshSessionRepository) Set(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	pipeline := repository.client.TxPipeline()

	pipeline.Set(ctx, refreshTokenKey(tokenHash), userID, ttl)
	pipeline.SAdd(ctx, refreshUserKey(userID), tokenHash)
	// The index lives at least as long as the newest session it tracks.
	pipeline.Expire(ctx, refreshUserKey(userID), ttl)

	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("redis_refresh_session_set_failed: %w", err)
	}

	return nil
}

// Get resolves a token hash to its userID.
func (repository *RedisRefreshSessionRepository) Get(ctx context.Context, tokenHash string) (string, error) {
	userID, err := repository.client.Get(ctx, refreshTokenKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Refresh session")
		}
		return "", fmt.Errorf("redis_refresh_session_get_failed: %w", err)
	}

	return userID, nil
}

// Delete revokes a single refresh session and removes it from the owner index.
func (repository *RedisRefreshSessionRepository) Delete(ctx context.Context, userID, tokenHash string) error {
	pipeline := repository.client.TxPipeline()

	pipeline.Del(ctx, refreshTokenKey(tokenHash))
	pipeline.SRem(ctx, refreshUserKey(userID), tokenHash)

	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("redis_refresh_session_delete_failed: %w", err)
	}

	return nil
}

// RevokeAll revokes every refresh session belonging to a user.
func (repository *RedisRefreshSessionRepository) RevokeAll(ctx context.Context, userID string) error {
	hashes, err := repository.client.SMembers(ctx, refreshUserKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_refresh_session_members_failed: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, refreshTokenKey(hash))
	}
	keys = append(keys, refreshUserKey(userID))

	if err := repository.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis_refresh_session_revoke_all_failed: %w", err)
	}

	return nil
}
