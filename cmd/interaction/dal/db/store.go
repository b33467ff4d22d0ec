package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/errno"
)

// Store 关系存储: 各实体一个 Collection, 另加少量跨表查询
type Store struct {
	DB *gorm.DB

	Users          *Collection[model.User]
	Videos         *Collection[model.Video]
	Comments       *Collection[model.Comment]
	Likes          *Collection[model.Like]
	Subscriptions  *Collection[model.Subscription]
	Playlists      *Collection[model.Playlist]
	PlaylistVideos *Collection[model.PlaylistVideo]
	Tweets         *Collection[model.Tweet]
	WatchHistory   *Collection[model.WatchHistory]
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:             db,
		Users:          NewCollection[model.User](db, "User", "user_id"),
		Videos:         NewCollection[model.Video](db, "Video", "video_id"),
		Comments:       NewCollection[model.Comment](db, "Comment", "comment_id"),
		Likes:          NewCollection[model.Like](db, "Like", "like_id"),
		Subscriptions:  NewCollection[model.Subscription](db, "Subscription", "subscription_id"),
		Playlists:      NewCollection[model.Playlist](db, "Playlist", "playlist_id"),
		PlaylistVideos: NewCollection[model.PlaylistVideo](db, "Playlist video", "playlist_video_id"),
		Tweets:         NewCollection[model.Tweet](db, "Tweet", "tweet_id"),
		WatchHistory:   NewCollection[model.WatchHistory](db, "Watch history", "watch_history_id"),
	}
}

func wrapStoreErr(err error, op string) error {
	return errors.WithMessage(errno.StoreUnavailableErr.WithMessage(err.Error()), op)
}

// SearchVideos 标题或描述模糊匹配已发布视频, 按创建时间倒序
func (s *Store) SearchVideos(ctx context.Context, query string, offset, limit int) (*Page[model.Video], error) {
	like := "%" + escapeLike(query) + "%"
	base := func() *gorm.DB {
		return s.DB.WithContext(ctx).Model(&model.Video{}).
			Where("is_published = ?", true).
			Where("(title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!')", like, like)
	}
	page := &Page[model.Video]{Items: make([]*model.Video, 0)}
	if err := base().Count(&page.Total).Error; err != nil {
		return nil, wrapStoreErr(err, "count search videos")
	}
	if page.Total == 0 {
		return page, nil
	}
	err := base().Order("created_at DESC").Order("video_id DESC").Offset(offset).Limit(limit).Find(&page.Items).Error
	if err != nil {
		return nil, wrapStoreErr(err, "search videos")
	}
	return page, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return r.Replace(s)
}

// LikedVideos 用户点赞过的视频, 最近点赞的在前
func (s *Store) LikedVideos(ctx context.Context, userId int64) ([]*model.Video, error) {
	videos := make([]*model.Video, 0)
	err := s.DB.WithContext(ctx).Model(&model.Video{}).
		Joins("JOIN likes ON likes.video_id = videos.video_id").
		Where("likes.user_id = ?", userId).
		Order("likes.created_at DESC").Order("likes.like_id DESC").
		Find(&videos).Error
	if err != nil {
		return nil, wrapStoreErr(err, "liked videos")
	}
	return videos, nil
}

// WatchedVideos 观看历史, 最近观看的在前
func (s *Store) WatchedVideos(ctx context.Context, userId int64) ([]*model.Video, error) {
	videos := make([]*model.Video, 0)
	err := s.DB.WithContext(ctx).Model(&model.Video{}).
		Joins("JOIN watch_histories ON watch_histories.video_id = videos.video_id").
		Where("watch_histories.user_id = ?", userId).
		Order("watch_histories.watched_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, wrapStoreErr(err, "watch history")
	}
	return videos, nil
}

// PlaylistItems 收藏夹内视频, 按加入顺序
func (s *Store) PlaylistItems(ctx context.Context, playlistId int64) ([]*model.Video, error) {
	videos := make([]*model.Video, 0)
	err := s.DB.WithContext(ctx).Model(&model.Video{}).
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.video_id").
		Where("playlist_videos.playlist_id = ?", playlistId).
		Order("playlist_videos.position ASC").
		Find(&videos).Error
	if err != nil {
		return nil, wrapStoreErr(err, "playlist items")
	}
	return videos, nil
}

// NextPlaylistPosition 新加入视频的位置
func (s *Store) NextPlaylistPosition(ctx context.Context, playlistId int64) (int64, error) {
	var pos sql.NullInt64
	err := s.DB.WithContext(ctx).Model(&model.PlaylistVideo{}).
		Where("playlist_id = ?", playlistId).
		Select("MAX(position)").Row().Scan(&pos)
	if err != nil {
		return 0, wrapStoreErr(err, "playlist position")
	}
	if !pos.Valid {
		return 0, nil
	}
	return pos.Int64 + 1, nil
}

// RecordWatch 写入或刷新观看记录
func (s *Store) RecordWatch(ctx context.Context, userId, videoId, id int64, at time.Time) error {
	row := &model.WatchHistory{
		WatchHistoryId: id,
		UserId:         userId,
		VideoId:        videoId,
		WatchedAt:      at,
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"watched_at": at, "updated_at": at}),
	}).Create(row).Error
	if err != nil {
		return wrapStoreErr(err, "record watch")
	}
	return nil
}

type ChannelStats struct {
	TotalViews  int64
	TotalVideos int64
	TotalLikes  int64
}

// ChannelStats 频道下全部视频的播放量, 视频数与获赞数
func (s *Store) ChannelStats(ctx context.Context, userId int64) (*ChannelStats, error) {
	stats := &ChannelStats{}
	var agg struct {
		Views  int64
		Videos int64
	}
	err := s.DB.WithContext(ctx).Model(&model.Video{}).
		Where("user_id = ?", userId).
		Select("COALESCE(SUM(visit_count), 0) AS views, COUNT(*) AS videos").
		Scan(&agg).Error
	if err != nil {
		return nil, wrapStoreErr(err, "channel views")
	}
	stats.TotalViews, stats.TotalVideos = agg.Views, agg.Videos

	err = s.DB.WithContext(ctx).Model(&model.Like{}).
		Joins("JOIN videos ON videos.video_id = likes.video_id").
		Where("videos.user_id = ?", userId).
		Count(&stats.TotalLikes).Error
	if err != nil {
		return nil, wrapStoreErr(err, "channel likes")
	}
	return stats, nil
}
