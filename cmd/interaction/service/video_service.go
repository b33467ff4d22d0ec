package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/interaction/infras/redis"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/mq"
	"VideoHub.com/pkg/principal"
	"VideoHub.com/pkg/utils"
)

var newestFirst = []db.Sort{{Column: "created_at", Desc: true}, {Column: "video_id", Desc: true}}

// MediaFile 上传的单个文件
type MediaFile struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

type UploadVideoInput struct {
	Title       string
	Description string
	Video       *MediaFile
	Thumbnail   *MediaFile
	// 为空时默认直接发布
	IsPublished *bool
	// 时长超过一分钟或未知时由上传者决定是否作为短视频
	IsShort *bool
}

// VideoService 视频的读写, 读路径全部经过视图缓存
type VideoService struct {
	ctx  context.Context
	core *Core
}

func NewVideoService(ctx context.Context, core *Core) *VideoService {
	return &VideoService{ctx: ctx, core: core}
}

// ListVideos 已发布的长视频
func (s *VideoService) ListVideos(ctx context.Context, page, size int) (*PageView[*VideoView], error) {
	return s.listPublished(ctx, constants.VideoLongCache, false, page, size)
}

// ListShorts 已发布的短视频
func (s *VideoService) ListShorts(ctx context.Context, page, size int) (*PageView[*VideoView], error) {
	return s.listPublished(ctx, constants.VideoShortCache, true, page, size)
}

func (s *VideoService) listPublished(ctx context.Context, namespace string, short bool, page, size int) (*PageView[*VideoView], error) {
	page, size = normalizePage(page, size)
	key := s.core.Cache.Key(namespace, principal.CacheScope(ctx), page, size)
	return redis.GetOrLoad(ctx, s.core.Cache, namespace, key, func(ctx context.Context) (*PageView[*VideoView], error) {
		res, err := s.core.Store.Videos.FindPage(ctx, db.Filter{"is_published": true, "is_short": short}, newestFirst, page*size, size)
		if err != nil {
			return nil, err
		}
		return s.pageView(ctx, res, page, size)
	})
}

func (s *VideoService) pageView(ctx context.Context, res *db.Page[model.Video], page, size int) (*PageView[*VideoView], error) {
	items, err := s.core.projector().Videos(ctx, res.Items)
	if err != nil {
		return nil, err
	}
	return &PageView[*VideoView]{Items: items, Total: res.Total, Page: page, Size: size}, nil
}

// GetVideo 详情不区分发布状态. 登录用户的观看记录在缓存之外写入, 失败不影响返回.
func (s *VideoService) GetVideo(ctx context.Context, videoId int64) (*VideoView, error) {
	key := s.core.Cache.Key(constants.VideoEntityCache, principal.CacheScope(ctx), videoId)
	view, err := redis.GetOrLoad(ctx, s.core.Cache, constants.VideoEntityCache, key, func(ctx context.Context) (*VideoView, error) {
		v, err := s.core.Store.Videos.Get(ctx, videoId)
		if err != nil {
			return nil, err
		}
		return s.core.projector().Video(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	if uid, ok := principal.FromContext(ctx); ok {
		if err := s.core.Store.RecordWatch(ctx, uid, videoId, utils.NextID(), time.Now()); err != nil {
			hlog.CtxWarnf(ctx, "record watch history user=%d video=%d failed: %v", uid, videoId, err)
		}
	}
	return view, nil
}

// SearchVideos 按标题或描述检索已发布视频
func (s *VideoService) SearchVideos(ctx context.Context, query string, page, size int) (*PageView[*VideoView], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errno.RequestErr.WithMessage("Search query is required")
	}
	page, size = normalizePage(page, size)
	key := s.core.Cache.Key(constants.VideoSearchCache, principal.CacheScope(ctx), query, page, size)
	return redis.GetOrLoad(ctx, s.core.Cache, constants.VideoSearchCache, key, func(ctx context.Context) (*PageView[*VideoView], error) {
		res, err := s.core.Searcher.Search(ctx, query, page*size, size)
		if err != nil {
			return nil, err
		}
		return s.pageView(ctx, res, page, size)
	})
}

// UploadVideo 媒体交给对象存储, 时长不超过一分钟的一律标记为短视频
func (s *VideoService) UploadVideo(ctx context.Context, in *UploadVideoInput, userId int64) (*VideoView, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errno.RequestErr.WithMessage("Title is required")
	}
	if in.Video == nil || in.Video.Reader == nil {
		return nil, errno.RequestErr.WithMessage("Video file is required")
	}
	if s.core.Media == nil {
		return nil, errno.OssErr.WithMessage("Media store is not configured")
	}

	videoId := utils.NextID()
	asset, err := s.core.Media.PutVideo(ctx, userId, videoId, in.Video.Reader, in.Video.Size, in.Video.ContentType)
	if err != nil {
		return nil, err
	}
	var coverUrl string
	if in.Thumbnail != nil && in.Thumbnail.Reader != nil {
		coverUrl, err = s.core.Media.PutThumbnail(ctx, userId, videoId, in.Thumbnail.Reader, in.Thumbnail.Size, in.Thumbnail.ContentType)
		if err != nil {
			return nil, err
		}
	}

	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	v := &model.Video{
		VideoId:     videoId,
		UserId:      userId,
		VideoUrl:    asset.URL,
		CoverUrl:    coverUrl,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Duration:    asset.Duration.Seconds(),
		IsPublished: published,
		IsShort:     isShort(asset.Duration, in.IsShort),
	}
	if err := s.core.Store.Videos.Insert(ctx, v); err != nil {
		return nil, err
	}
	hlog.CtxInfof(ctx, "video %d uploaded by user %d, duration=%.2fs short=%v", v.VideoId, userId, v.Duration, v.IsShort)

	if err := s.core.Cache.EvictNamespace(ctx, constants.VideoLongCache, constants.VideoShortCache, constants.VideoSearchCache); err != nil {
		return nil, err
	}
	s.index(ctx, v)
	if v.IsPublished {
		s.core.publish(ctx, mq.NewEngagementEvent(constants.EventVideoPublished, "video", v.VideoId, userId))
	}
	return s.core.projector().Video(principal.WithUser(ctx, userId), v)
}

func isShort(d time.Duration, requested *bool) bool {
	if d > 0 && d <= constants.ShortVideoMaxDuration {
		return true
	}
	return requested != nil && *requested
}

// TogglePublishStatus 仅作者可切换发布状态
func (s *VideoService) TogglePublishStatus(ctx context.Context, videoId, userId int64) (*VideoView, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	v, err := s.core.Store.Videos.Get(ctx, videoId)
	if err != nil {
		return nil, err
	}
	if v.UserId != userId {
		return nil, errno.ForbiddenErr.WithMessage("You can only change your own videos")
	}
	v.IsPublished = !v.IsPublished
	if err := s.core.Store.Videos.Update(ctx, v.VideoId, v); err != nil {
		return nil, err
	}
	if err := s.core.evictVideoViews(ctx, v.VideoId); err != nil {
		return nil, err
	}
	s.index(ctx, v)
	if v.IsPublished {
		s.core.publish(ctx, mq.NewEngagementEvent(constants.EventVideoPublished, "video", v.VideoId, userId))
	}
	return s.core.projector().Video(principal.WithUser(ctx, userId), v)
}

// IncrementViews 任何人都可以增加播放量, 只清理该视频的详情缓存
func (s *VideoService) IncrementViews(ctx context.Context, videoId int64) error {
	if err := s.core.Store.Videos.Increment(ctx, videoId, "visit_count", 1); err != nil {
		return err
	}
	return s.core.Cache.EvictVideo(ctx, videoId)
}

// WatchHistory 当前用户的观看记录, 最近观看的在前
func (s *VideoService) WatchHistory(ctx context.Context) ([]*VideoView, error) {
	uid, err := principal.Require(ctx)
	if err != nil {
		return nil, err
	}
	videos, err := s.core.Store.WatchedVideos(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.core.projector().Videos(ctx, videos)
}

func (s *VideoService) index(ctx context.Context, v *model.Video) {
	if s.core.Searcher == nil {
		return
	}
	if err := s.core.Searcher.Index(ctx, v); err != nil {
		hlog.CtxWarnf(ctx, "index video %d failed: %v", v.VideoId, err)
	}
}
