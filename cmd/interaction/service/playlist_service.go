package service

import (
	"context"
	"strings"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/principal"
	"VideoHub.com/pkg/utils"
)

// PlaylistInput 创建与修改共用, 修改时空字段保持原值
type PlaylistInput struct {
	Name        string
	Description string
	IsPublic    *bool
}

type PlaylistService struct {
	ctx  context.Context
	core *Core
}

func NewPlaylistService(ctx context.Context, core *Core) *PlaylistService {
	return &PlaylistService{ctx: ctx, core: core}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, in *PlaylistInput, userId int64) (*PlaylistView, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errno.RequestErr.WithMessage("Playlist name is required")
	}
	p := &model.Playlist{
		PlaylistId:  utils.NextID(),
		UserId:      userId,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		IsPublic:    true,
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	if err := s.core.Store.Playlists.Insert(ctx, p); err != nil {
		return nil, err
	}
	return s.view(principal.WithUser(ctx, userId), p, true)
}

// GetPlaylist 私有收藏夹对作者以外的人表现为不存在
func (s *PlaylistService) GetPlaylist(ctx context.Context, playlistId int64) (*PlaylistView, error) {
	p, err := s.core.Store.Playlists.Get(ctx, playlistId)
	if err != nil {
		return nil, err
	}
	if uid, _ := principal.FromContext(ctx); !p.IsPublic && uid != p.UserId {
		return nil, errno.NotFoundErr.WithMessage("Playlist not found")
	}
	return s.view(ctx, p, true)
}

func (s *PlaylistService) owned(ctx context.Context, playlistId, userId int64) (*model.Playlist, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	p, err := s.core.Store.Playlists.Get(ctx, playlistId)
	if err != nil {
		return nil, err
	}
	if p.UserId != userId {
		return nil, errno.ForbiddenErr.WithMessage("You can only modify your own playlists")
	}
	return p, nil
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, playlistId int64, in *PlaylistInput, userId int64) (*PlaylistView, error) {
	p, err := s.owned(ctx, playlistId, userId)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		p.Description = desc
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	if err := s.core.Store.Playlists.Update(ctx, p.PlaylistId, p); err != nil {
		return nil, err
	}
	return s.view(principal.WithUser(ctx, userId), p, true)
}

// DeletePlaylist 同时删除收藏夹内的条目, 视频本身不受影响
func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistId, userId int64) error {
	p, err := s.owned(ctx, playlistId, userId)
	if err != nil {
		return err
	}
	if _, err := s.core.Store.PlaylistVideos.DeleteWhere(ctx, db.Filter{"playlist_id": p.PlaylistId}); err != nil {
		return err
	}
	_, err = s.core.Store.Playlists.DeleteByID(ctx, p.PlaylistId)
	return err
}

// AddVideo 同一视频不能重复加入
func (s *PlaylistService) AddVideo(ctx context.Context, videoId, playlistId, userId int64) (*PlaylistView, error) {
	p, err := s.owned(ctx, playlistId, userId)
	if err != nil {
		return nil, err
	}
	if _, err := s.core.Store.Videos.Get(ctx, videoId); err != nil {
		return nil, err
	}
	pos, err := s.core.Store.NextPlaylistPosition(ctx, p.PlaylistId)
	if err != nil {
		return nil, err
	}
	_, inserted, err := s.core.Store.PlaylistVideos.FindOrInsert(ctx,
		db.Filter{"playlist_id": p.PlaylistId, "video_id": videoId},
		&model.PlaylistVideo{PlaylistVideoId: utils.NextID(), PlaylistId: p.PlaylistId, VideoId: videoId, Position: pos})
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, errno.ConflictErr.WithMessage("Video already in playlist")
	}
	return s.view(principal.WithUser(ctx, userId), p, true)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, videoId, playlistId, userId int64) (*PlaylistView, error) {
	p, err := s.owned(ctx, playlistId, userId)
	if err != nil {
		return nil, err
	}
	n, err := s.core.Store.PlaylistVideos.DeleteWhere(ctx, db.Filter{"playlist_id": p.PlaylistId, "video_id": videoId})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errno.NotFoundErr.WithMessage("Video not in playlist")
	}
	return s.view(principal.WithUser(ctx, userId), p, true)
}

// UserPlaylists 他人只能看到公开的收藏夹, 列表不展开视频
func (s *PlaylistService) UserPlaylists(ctx context.Context, userId int64, page, size int) (*PageView[*PlaylistView], error) {
	page, size = normalizePage(page, size)
	filter := db.Filter{"user_id": userId}
	if uid, _ := principal.FromContext(ctx); uid != userId {
		filter["is_public"] = true
	}
	res, err := s.core.Store.Playlists.FindPage(ctx, filter,
		[]db.Sort{{Column: "created_at", Desc: true}, {Column: "playlist_id", Desc: true}}, page*size, size)
	if err != nil {
		return nil, err
	}
	items, err := decorateAll(ctx, res.Items, func(ctx context.Context, p *model.Playlist) (*PlaylistView, error) {
		return s.view(ctx, p, false)
	})
	if err != nil {
		return nil, err
	}
	return &PageView[*PlaylistView]{Items: items, Total: res.Total, Page: page, Size: size}, nil
}

func (s *PlaylistService) view(ctx context.Context, p *model.Playlist, withVideos bool) (*PlaylistView, error) {
	projector := s.core.projector()
	owner, err := projector.Owner(ctx, p.UserId)
	if err != nil {
		return nil, err
	}
	view := &PlaylistView{
		PlaylistId:  p.PlaylistId,
		Name:        p.Name,
		Description: p.Description,
		IsPublic:    p.IsPublic,
		Owner:       owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if !withVideos {
		n, err := s.core.Store.PlaylistVideos.Count(ctx, db.Filter{"playlist_id": p.PlaylistId})
		if err != nil {
			return nil, err
		}
		view.TotalVideos = int(n)
		return view, nil
	}
	videos, err := s.core.Store.PlaylistItems(ctx, p.PlaylistId)
	if err != nil {
		return nil, err
	}
	if view.Videos, err = projector.Videos(ctx, videos); err != nil {
		return nil, err
	}
	view.TotalVideos = len(view.Videos)
	return view, nil
}
