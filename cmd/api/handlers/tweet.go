package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoHub.com/cmd/interaction/service"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/principal"
)

func CreateTweet(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewTweetService(ctx, core).CreateTweet(ctx, req.Content, uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetUserTweets(ctx context.Context, c *app.RequestContext) {
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
	resp, err := service.NewTweetService(ctx, core).UserTweets(ctx, userId, req.Page, req.Size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func UpdateTweet(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	tweetId, err := pathID(c, "tweetId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewTweetService(ctx, core).UpdateTweet(ctx, tweetId, req.Content, uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func DeleteTweet(ctx context.Context, c *app.RequestContext) {
	tweetId, err := pathID(c, "tweetId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	if err := service.NewTweetService(ctx, core).DeleteTweet(ctx, tweetId, uid); err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, nil)
}
