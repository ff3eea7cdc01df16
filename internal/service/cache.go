package service

import (
	"Reunite/internal/pkg/consts"
	"Reunite/internal/pkg/redis"
	"context"
	"strconv"
	"time"
)

// 未读数缓存的兜底过期时间，主失效手段是写路径上的同步删除
const unreadCacheTTL = 30 * time.Second

// UnreadCache 未读数缓存。任何改变未读集合的写操作完成后必须同步调用 Invalidate。
type UnreadCache interface {
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, count int64) error
	Invalidate(ctx context.Context, key string) error
}

type redisUnreadCache struct{}

func NewRedisUnreadCache() UnreadCache {
	return &redisUnreadCache{}
}

func (c *redisUnreadCache) Get(ctx context.Context, key string) (int64, bool, error) {
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if value == "" {
		return 0, false, nil
	}
	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (c *redisUnreadCache) Set(ctx context.Context, key string, count int64) error {
	return redis.SetWithExpiration(ctx, key, count, unreadCacheTTL)
}

func (c *redisUnreadCache) Invalidate(ctx context.Context, key string) error {
	return redis.DeleteKey(ctx, key)
}

// ViewCounter 浏览量实时计数器。Incr 必须返回自增后的精确值。
type ViewCounter interface {
	Seed(ctx context.Context, reportID uint64, value int64) error
	Incr(ctx context.Context, reportID uint64) (int64, error)
	Current(ctx context.Context, reportID uint64) (int64, bool, error)
	MarkDirty(ctx context.Context, reportID uint64) error
}

type redisViewCounter struct{}

func NewRedisViewCounter() ViewCounter {
	return &redisViewCounter{}
}

// Seed 键不存在时以 MySQL 快照为起点初始化计数器，已存在则保持不变
func (c *redisViewCounter) Seed(ctx context.Context, reportID uint64, value int64) error {
	key := consts.ReportViewKey + strconv.FormatUint(reportID, 10)
	_, err := redis.SetNX(ctx, key, value, 0)
	return err
}

func (c *redisViewCounter) Incr(ctx context.Context, reportID uint64) (int64, error) {
	key := consts.ReportViewKey + strconv.FormatUint(reportID, 10)
	return redis.Incr(ctx, key)
}

func (c *redisViewCounter) Current(ctx context.Context, reportID uint64) (int64, bool, error) {
	key := consts.ReportViewKey + strconv.FormatUint(reportID, 10)
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if value == "" {
		return 0, false, nil
	}
	total, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return total, true, nil
}

func (c *redisViewCounter) MarkDirty(ctx context.Context, reportID uint64) error {
	return redis.SAdd(ctx, consts.ReportViewDirtyKey, strconv.FormatUint(reportID, 10))
}
