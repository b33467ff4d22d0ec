package handlers

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VideoHub.com/cmd/interaction/service"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/principal"
)

func ListVideos(ctx context.Context, c *app.RequestContext) {
	var req PageParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewVideoService(ctx, core).ListVideos(ctx, req.Page, req.Size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func ListShorts(ctx context.Context, c *app.RequestContext) {
	var req PageParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewVideoService(ctx, core).ListShorts(ctx, req.Page, req.Size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func SearchVideos(ctx context.Context, c *app.RequestContext) {
	var req SearchParam
	if err := bind(c, &req); err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewVideoService(ctx, core).SearchVideos(ctx, req.Query, req.Page, req.Size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func GetVideo(ctx context.Context, c *app.RequestContext) {
	videoId, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	resp, err := service.NewVideoService(ctx, core).GetVideo(ctx, videoId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

// UploadVideo multipart 表单: title, description, is_published, is_short, video, thumbnail
func UploadVideo(ctx context.Context, c *app.RequestContext) {
	uid, err := principal.Require(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	in := &service.UploadVideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	if v := c.PostForm("is_published"); v != "" {
		published, err := strconv.ParseBool(v)
		if err != nil {
			SendResponse(c, errno.RequestErr.WithMessage("Invalid is_published"), nil)
			return
		}
		in.IsPublished = &published
	}
	if v := c.PostForm("is_short"); v != "" {
		short, err := strconv.ParseBool(v)
		if err != nil {
			SendResponse(c, errno.RequestErr.WithMessage("Invalid is_short"), nil)
			return
		}
		in.IsShort = &short
	}

	videoHeader, err := c.FormFile("video")
	if err != nil {
		SendResponse(c, errno.RequestErr.WithMessage("Video file is required"), nil)
		return
	}
	video, err := openPart(videoHeader)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	defer video.Close()
	in.Video = &service.MediaFile{Reader: video, Size: videoHeader.Size, ContentType: videoHeader.Header.Get("Content-Type")}

	if thumbHeader, err := c.FormFile("thumbnail"); err == nil {
		thumb, err := openPart(thumbHeader)
		if err != nil {
			SendResponse(c, err, nil)
			return
		}
		defer thumb.Close()
		in.Thumbnail = &service.MediaFile{Reader: thumb, Size: thumbHeader.Size, ContentType: thumbHeader.Header.Get("Content-Type")}
	}

	resp, err := service.NewVideoService(ctx, core).UploadVideo(ctx, in, uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func openPart(fh *multipart.FileHeader) (multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		hlog.Warnf("open upload part %s failed: %v", fh.Filename, err)
		return nil, errno.RequestErr.WithMessage("Unreadable upload " + fh.Filename)
	}
	return f, nil
}

func TogglePublishStatus(ctx context.Context, c *app.RequestContext) {
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
	resp, err := service.NewVideoService(ctx, core).TogglePublishStatus(ctx, videoId, uid)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}

func IncrementViews(ctx context.Context, c *app.RequestContext) {
	videoId, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	if err := service.NewVideoService(ctx, core).IncrementViews(ctx, videoId); err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, nil)
}

func GetWatchHistory(ctx context.Context, c *app.RequestContext) {
	resp, err := service.NewVideoService(ctx, core).WatchHistory(ctx)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, resp)
}
