package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoHub.com/cmd/interaction/service"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/principal"
)

// toggle 点赞与订阅共用: 路径参数给出目标 id
func toggle(kind service.ToggleKind, param string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		targetId, err := pathID(c, param)
		if err != nil {
			SendResponse(c, err, nil)
			return
		}
		uid, err := principal.Require(ctx)
		if err != nil {
			SendResponse(c, err, nil)
			return
		}
		resp, err := service.NewToggleService(ctx, core).Toggle(ctx, kind, targetId, uid)
		if err != nil {
			SendResponse(c, err, nil)
			return
		}
		SendResponse(c, errno.Success, resp)
	}
}

var (
	ToggleVideoLike    = toggle(service.KindVideoLike, "videoId")
	ToggleCommentLike  = toggle(service.KindCommentLike, "commentId")
	ToggleTweetLike    = toggle(service.KindTweetLike, "tweetId")
	ToggleSubscription = toggle(service.KindSubscription, "channelId")
)

func GetLikedVideos(ctx context.Context, c *app.RequestContext) {
	resp, err := service.NewRelationService(ctx, core).LikedVideos(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetChannelSubscribers(ctx context.Context, c *app.RequestContext) {
	channelId, err := pathID(c, "channelId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewRelationService(ctx, core).ChannelSubscribers(ctx, channelId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetSubscribedChannels(ctx context.Context, c *app.RequestContext) {
	subscriberId, err := pathID(c, "subscriberId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewRelationService(ctx, core).SubscribedChannels(ctx, subscriberId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}
