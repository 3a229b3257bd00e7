package auth

import (
	"context"
	"time"

	"investment_platform/internal/utils"

	"github.com/redis/go-redis/v9"
)

// RedisRevocations stores revoked session ids until their tokens expire.
type RedisRevocations struct {
	rdb *redis.Client
}

// NewRedisRevocations creates a revocation list stored in rdb.
func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb}
}

// Revoke marks a session as logged out until expiresAt. Tokens that have
// already expired are not stored.
func (r *RedisRevocations) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt) // Key lives as long as the token would
	if ttl <= 0 {
		return nil // token is already useless
	}
	return r.rdb.Set(ctx, utils.RevokedPrefix+sessionID, 1, ttl).Err()
}

// IsRevoked reports whether sessionID has been logged out.
func (r *RedisRevocations) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, utils.RevokedPrefix+sessionID).Result()
	if err != nil {
		return false, err // Fail closed, the caller maps this to 500
	}
	return n > 0, nil
}
