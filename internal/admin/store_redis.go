// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wayfare-app/wayfare/internal/platform/constants"
)

// # Redis Revocation Store

// RedisRevocationStore implements [RevocationStore] on Redis.
//
// Each revoked token becomes one key whose TTL equals the token's remaining
// lifetime, so Redis evicts the entry at the exact moment the token would
// have expired on its own. The store never needs a sweep job.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates a Redis implementation of the revocation
// store.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Revoke marks the token invalid for its remaining lifetime. A non-positive
// remaining lifetime is a no-op: the token is already dead.
func (store *RedisRevocationStore) Revoke(ctx context.Context, token string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}

	key := constants.RedisPrefixRevokedToken + token
	if err := store.client.Set(ctx, key, "1", remaining).Err(); err != nil {
		return fmt.Errorf("redis_revoke_token_failed: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token is present in the revocation set.
// Errors surface to the caller so the gates can fail closed.
func (store *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := constants.RedisPrefixRevokedToken + token
	exists, err := store.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revocation_check_failed: %w", err)
	}
	return exists > 0, nil
}
