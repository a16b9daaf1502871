package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const unlockTTL = 7 * 24 * time.Hour

// UnlockCache 已解锁标记的读缓存，数据库 article_unlocks 为准
type UnlockCache struct {
	redis *redis.Client
}

func NewUnlockCache(redis *redis.Client) *UnlockCache {
	return &UnlockCache{redis: redis}
}

func (u *UnlockCache) name(userID, articleID uint64) string {
	return fmt.Sprintf("paywall:unlock:%d:%d", userID, articleID)
}

// IsUnlocked 第二个返回值表示缓存是否命中
func (u *UnlockCache) IsUnlocked(ctx context.Context, userID, articleID uint64) (bool, bool, error) {
	err := u.redis.Get(ctx, u.name(userID, articleID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, true, nil
}

func (u *UnlockCache) Set(ctx context.Context, userID, articleID uint64) error {
	return u.redis.Set(ctx, u.name(userID, articleID), 1, unlockTTL).Err()
}
