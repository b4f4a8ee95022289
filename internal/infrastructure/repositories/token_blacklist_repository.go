package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const blacklistPrefix = "finance_tokens:revoked"

// TokenBlacklistRepository records revoked JWTs in Redis until they would have expired
type TokenBlacklistRepository struct {
	client redis.Cmdable
	logger *logrus.Logger
}

func NewTokenBlacklistRepository(client redis.Cmdable, logger *logrus.Logger) *TokenBlacklistRepository {
	return &TokenBlacklistRepository{client: client, logger: logger}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *TokenBlacklistRepository) key(token string) string {
	return fmt.Sprintf("%s:%s", blacklistPrefix, hashToken(token))
}

// Revoke blacklists token until expiresAt. Already expired tokens are a no-op.
func (r *TokenBlacklistRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(token), 1, ttl).Err(); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("redis: failed to revoke token")
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether token has been blacklisted
func (r *TokenBlacklistRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}
