package repository

import (
	"context"
	"errors"
	"sapaa_backend/internal/inspection"
	"time"

	"github.com/go-redis/redis/v8"
)

// DraftRepository 巡查草稿存放在 Redis，key 为 inspection-draft-<uid>-<sid>
type DraftRepository struct {
	Redis *redis.Client
	ttl   time.Duration
}

func NewDraftRepository(rdb *redis.Client, ttl time.Duration) *DraftRepository {
	return &DraftRepository{Redis: rdb, ttl: ttl}
}

func (r *DraftRepository) Load(ctx context.Context, key inspection.DraftKey) ([]byte, error) {
	data, err := r.Redis.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, inspection.ErrNoDraft
	}
	return data, err
}

// Save 每次保存都会刷新过期时间，ttl 为 0 时永不过期
func (r *DraftRepository) Save(ctx context.Context, key inspection.DraftKey, data []byte) error {
	return r.Redis.Set(ctx, key.String(), data, r.ttl).Err()
}

func (r *DraftRepository) Delete(ctx context.Context, key inspection.DraftKey) error {
	return r.Redis.Del(ctx, key.String()).Err()
}
