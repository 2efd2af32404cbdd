package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenRepository 记录已登出的 token id，过期时间与 token 剩余有效期一致
type TokenRepository struct {
	Redis *redis.Client
}

func NewTokenRepository(rdb *redis.Client) *TokenRepository {
	return &TokenRepository{Redis: rdb}
}

func revokedKey(tokenID string) string {
	return "token-revoked-" + tokenID
}

func (r *TokenRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.Redis.Set(ctx, revokedKey(tokenID), 1, ttl).Err()
}

func (r *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.Redis.Exists(ctx, revokedKey(tokenID)).Result()
	return n > 0, err
}
