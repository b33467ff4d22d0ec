package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoHub.com/cmd/interaction/service"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/principal"
)

func GetVideoComments(ctx context.Context, c *app.RequestContext) {
	var req PageParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	videoId, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewCommentService(ctx, core).GetVideoComments(ctx, videoId, req.Page, req.Size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func AddComment(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	videoId, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewCommentService(ctx, core).AddComment(ctx, videoId, req.Content, uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func AddReply(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	parentId, err := pathID(c, "commentId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewCommentService(ctx, core).AddReply(ctx, parentId, req.Content, uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetCommentReplies(ctx context.Context, c *app.RequestContext) {
	var req PageParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	parentId, err := pathID(c, "commentId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewCommentService(ctx, core).GetCommentReplies(ctx, parentId, req.Page, req.Size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func UpdateComment(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	commentId, err := pathID(c, "commentId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewCommentService(ctx, core).UpdateComment(ctx, commentId, req.Content, uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func DeleteComment(ctx context.Context, c *app.RequestContext) {
	commentId, err := pathID(c, "commentId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	if err := service.NewCommentService(ctx, core).DeleteComment(ctx, commentId, uid); err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, nil)
}
