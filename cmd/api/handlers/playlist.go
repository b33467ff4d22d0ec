package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoHub.com/cmd/interaction/service"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/principal"
)

func (p *PlaylistParam) input() *service.PlaylistInput {
	return &service.PlaylistInput{Name: p.Name, Description: p.Description, IsPublic: p.IsPublic}
}

func CreatePlaylist(ctx context.Context, c *app.RequestContext) {
	var req PlaylistParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewPlaylistService(ctx, core).CreatePlaylist(ctx, req.input(), uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetPlaylist(ctx context.Context, c *app.RequestContext) {
	playlistId, err := pathID(c, "playlistId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewPlaylistService(ctx, core).GetPlaylist(ctx, playlistId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func UpdatePlaylist(ctx context.Context, c *app.RequestContext) {
	var req PlaylistParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	playlistId, err := pathID(c, "playlistId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewPlaylistService(ctx, core).UpdatePlaylist(ctx, playlistId, req.input(), uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func DeletePlaylist(ctx context.Context, c *app.RequestContext) {
	playlistId, err := pathID(c, "playlistId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	if err := service.NewPlaylistService(ctx, core).DeletePlaylist(ctx, playlistId, uid); err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, nil)
}

func AddVideoToPlaylist(ctx context.Context, c *app.RequestContext) {
	membership(ctx, c, (*service.PlaylistService).AddVideo)
}

func RemoveVideoFromPlaylist(ctx context.Context, c *app.RequestContext) {
	membership(ctx, c, (*service.PlaylistService).RemoveVideo)
}

func membership(ctx context.Context, c *app.RequestContext,
	op func(*service.PlaylistService, context.Context, int64, int64, int64) (*service.PlaylistView, error)) {
	videoId, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	playlistId, err := pathID(c, "playlistId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := op(service.NewPlaylistService(ctx, core), ctx, videoId, playlistId, uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetUserPlaylists(ctx context.Context, c *app.RequestContext) {
	var req PageParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	userId, err := pathID(c, "userId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewPlaylistService(ctx, core).UserPlaylists(ctx, userId, req.Page, req.Size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}
