package service

import (
	"context"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/pkg/principal"
)

// DashboardService 当前用户自己频道的统计
type DashboardService struct {
	ctx  context.Context
	core *Core
}

func NewDashboardService(ctx context.Context, core *Core) *DashboardService {
	return &DashboardService{ctx: ctx, core: core}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	uid, err := principal.Require(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.core.Store.ChannelStats(ctx, uid)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.core.Store.Subscriptions.Count(ctx, db.Filter{"channel_id": uid})
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalViews:       stats.TotalViews,
		TotalVideos:      stats.TotalVideos,
		TotalLikes:       stats.TotalLikes,
		TotalSubscribers: subscribers,
	}, nil
}

// ChannelVideos 包含未发布的视频
func (s *DashboardService) ChannelVideos(ctx context.Context, page, size int) (*PageView[*VideoView], error) {
	uid, err := principal.Require(ctx)
	if err != nil {
		return nil, err
	}
	page, size = normalizePage(page, size)
	res, err := s.core.Store.Videos.FindPage(ctx, db.Filter{"user_id": uid}, newestFirst, page*size, size)
	if err != nil {
		return nil, err
	}
	items, err := s.core.projector().Videos(ctx, res.Items)
	if err != nil {
		return nil, err
	}
	return &PageView[*VideoView]{Items: items, Total: res.Total, Page: page, Size: size}, nil
}
