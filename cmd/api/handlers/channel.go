package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoHub.com/cmd/interaction/service"
	"VideoHub.com/pkg/errno"
)

func GetChannelProfile(ctx context.Context, c *app.RequestContext) {
	resp, err := service.NewUserService(ctx, core).ChannelProfile(ctx, c.Param("username"))
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetChannelStats(ctx context.Context, c *app.RequestContext) {
	resp, err := service.NewDashboardService(ctx, core).Stats(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetChannelVideos(ctx context.Context, c *app.RequestContext) {
	var req PageParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewDashboardService(ctx, core).ChannelVideos(ctx, req.Page, req.Size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}
