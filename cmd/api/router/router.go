package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"VideoHub.com/cmd/api/handlers"
	"VideoHub.com/cmd/api/router/authfunc"
	"VideoHub.com/pkg/constants"
)

// Register 注册全部路由, authfunc.Identity 需先初始化
func Register(r *server.Hertz) {
	r.GET("/ping", handlers.Ping)
	r.GET("/metrics", adaptor.HertzHandler(promhttp.Handler()))

	api := r.Group(constants.ApiPrefix, Tracing(), authfunc.Identify())

	comments := api.Group("/comments")
	comments.GET("/:videoId", handlers.GetVideoComments)
	comments.POST("/:videoId", withAuth(handlers.AddComment)...)
	comments.POST("/reply/:commentId", withAuth(handlers.AddReply)...)
	comments.GET("/replies/:commentId", handlers.GetCommentReplies)
	comments.PATCH("/c/:commentId", withAuth(handlers.UpdateComment)...)
	comments.DELETE("/c/:commentId", withAuth(handlers.DeleteComment)...)

	likes := api.Group("/likes")
	likes.POST("/toggle/v/:videoId", withAuth(handlers.ToggleVideoLike)...)
	likes.POST("/toggle/c/:commentId", withAuth(handlers.ToggleCommentLike)...)
	likes.POST("/toggle/t/:tweetId", withAuth(handlers.ToggleTweetLike)...)
	likes.GET("/videos", withAuth(handlers.GetLikedVideos)...)

	subscriptions := api.Group("/subscriptions")
	subscriptions.POST("/c/:channelId", withAuth(handlers.ToggleSubscription)...)
	subscriptions.GET("/c/:channelId", handlers.GetChannelSubscribers)
	subscriptions.GET("/u/:subscriberId", handlers.GetSubscribedChannels)

	playlists := api.Group("/playlists")
	playlists.POST("", withAuth(handlers.CreatePlaylist)...)
	playlists.GET("/:playlistId", handlers.GetPlaylist)
	playlists.PATCH("/:playlistId", withAuth(handlers.UpdatePlaylist)...)
	playlists.DELETE("/:playlistId", withAuth(handlers.DeletePlaylist)...)
	playlists.PATCH("/add/:videoId/:playlistId", withAuth(handlers.AddVideoToPlaylist)...)
	playlists.PATCH("/remove/:videoId/:playlistId", withAuth(handlers.RemoveVideoFromPlaylist)...)
	playlists.GET("/user/:userId", handlers.GetUserPlaylists)

	tweets := api.Group("/tweets")
	tweets.POST("", withAuth(handlers.CreateTweet)...)
	tweets.GET("/user/:userId", handlers.GetUserTweets)
	tweets.PATCH("/:tweetId", withAuth(handlers.UpdateTweet)...)
	tweets.DELETE("/:tweetId", withAuth(handlers.DeleteTweet)...)

	videos := api.Group("/videos")
	videos.GET("", handlers.ListVideos)
	videos.POST("", withAuth(handlers.UploadVideo)...)
	videos.GET("/shorts", handlers.ListShorts)
	videos.GET("/search", handlers.SearchVideos)
	videos.GET("/:videoId", handlers.GetVideo)
	videos.PATCH("/toggle/publish/:videoId", withAuth(handlers.TogglePublishStatus)...)
	videos.PATCH("/view/:videoId", handlers.IncrementViews)

	dashboard := api.Group("/dashboard", authfunc.Auth()...)
	dashboard.GET("/stats", handlers.GetChannelStats)
	dashboard.GET("/videos", handlers.GetChannelVideos)

	users := api.Group("/users")
	users.GET("/c/:username", handlers.GetChannelProfile)
	users.GET("/history", withAuth(handlers.GetWatchHistory)...)
}

func withAuth(h app.HandlerFunc) []app.HandlerFunc {
	return append(authfunc.Auth(), h)
}

// Tracing 每个请求一个 span, gorm 插件的 span 挂在它下面
func Tracing() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		span, ctx := opentracing.StartSpanFromContext(ctx, string(c.Method())+" "+c.FullPath())
		defer span.Finish()
		ext.SpanKindRPCServer.Set(span)
		ext.HTTPMethod.Set(span, string(c.Method()))
		ext.HTTPUrl.Set(span, string(c.Request.URI().Path()))
		c.Next(ctx)
		status := c.Response.StatusCode()
		ext.HTTPStatusCode.Set(span, uint16(status))
		if status >= 500 {
			ext.Error.Set(span, true)
		}
	}
}
