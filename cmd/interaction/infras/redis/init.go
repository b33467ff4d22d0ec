package redis

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VideoHub.com/config"
	"VideoHub.com/pkg/cache"
)

// Load 按 cache.driver 选择缓存后端; redis 不可用时退回进程内缓存
func Load(ctx context.Context) *ViewCache {
	var store cache.Store
	switch config.ConfigInfo.Cache.Driver {
	case "redis":
		client, err := cache.NewRedisClient(ctx)
		if err != nil {
			hlog.CtxErrorf(ctx, "view cache falls back to memory: %v", err)
			store = cache.NewMemoryStore()
			break
		}
		store = cache.NewRedisStore(client)
	default:
		store = cache.NewMemoryStore()
	}
	hlog.CtxInfof(ctx, "view cache driver=%s ttl=%s", config.ConfigInfo.Cache.Driver, config.CacheTTL())
	return NewViewCache(store, config.ConfigInfo.Cache.Prefix, config.CacheTTL())
}
