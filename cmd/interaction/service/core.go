package service

import (
	"context"
	"math"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/interaction/infras/redis"
	"VideoHub.com/cmd/interaction/infras/search"
	"VideoHub.com/config"
	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/metrics"
	"VideoHub.com/pkg/mq"
	"VideoHub.com/pkg/oss"
)

// Core 互动核心依赖的外部协作者, 由网关在启动时组装
type Core struct {
	Store     *db.Store
	Cache     *redis.ViewCache
	Publisher mq.Publisher
	Media     oss.MediaStore
	Searcher  search.Searcher
}

func (c *Core) projector() *Projector {
	return NewProjector(c.Store)
}

// publish 尽力投递, 失败只记录
func (c *Core) publish(ctx context.Context, ev *mq.EngagementEvent) {
	if c.Publisher == nil {
		return
	}
	if err := c.Publisher.Publish(ctx, ev); err != nil {
		metrics.EventsPublished.WithLabelValues(ev.Type, "error").Inc()
		hlog.CtxWarnf(ctx, "publish %s event %s failed: %v", ev.Type, ev.EventID, err)
		return
	}
	metrics.EventsPublished.WithLabelValues(ev.Type, "ok").Inc()
}

// evictVideoViews 清掉某个视频的详情及所有列表类缓存
func (c *Core) evictVideoViews(ctx context.Context, videoId int64) error {
	if err := c.Cache.EvictVideo(ctx, videoId); err != nil {
		return err
	}
	return c.Cache.EvictNamespace(ctx, constants.VideoLongCache, constants.VideoShortCache, constants.VideoSearchCache)
}

// evictAllVideoViews 订阅数变化会影响所有视频视图
func (c *Core) evictAllVideoViews(ctx context.Context) error {
	return c.Cache.EvictNamespace(ctx,
		constants.VideoLongCache, constants.VideoShortCache, constants.VideoSearchCache, constants.VideoEntityCache)
}

// normalizePage 页码从 0 开始, size 取默认值并封顶.
// offset 不超过 MaxInt32, 超大页码落在数据之外而不是溢出成负数
func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	def, max := config.ConfigInfo.Page.DefaultSize, config.ConfigInfo.Page.MaxSize
	if def <= 0 {
		def = constants.DefaultPageSize
	}
	if max <= 0 {
		max = constants.MaxPageSize
	}
	if size <= 0 {
		size = def
	}
	if size > max {
		size = max
	}
	if page > math.MaxInt32/size {
		page = math.MaxInt32 / size
	}
	return page, size
}
