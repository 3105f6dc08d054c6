package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const oauthStatePrefix = "oauth:state:"

// OAuthStateRepository OAuth 登录的一次性 state，存于 Redis 并带过期时间
type OAuthStateRepository struct {
	Redis *redis.Client
}

func NewOAuthStateRepository(rdb *redis.Client) *OAuthStateRepository {
	return &OAuthStateRepository{Redis: rdb}
}

func (r *OAuthStateRepository) Save(ctx context.Context, state string, ttl time.Duration) error {
	return r.Redis.Set(ctx, oauthStatePrefix+state, "1", ttl).Err()
}

// Consume 读取并删除 state，不存在或已过期返回 false
func (r *OAuthStateRepository) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	_, err := r.Redis.GetDel(ctx, oauthStatePrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
