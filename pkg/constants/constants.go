package constants

import "time"

const (
	ApiPrefix = "/api/v1"

	// 视图缓存命名空间
	VideoLongCache   = "video:long"
	VideoShortCache  = "video:short"
	VideoEntityCache = "video:entity"
	VideoSearchCache = "video:search"

	AnonymousPrincipal = "anonymous"

	// 时长不超过该值的视频自动标记为短视频
	ShortVideoMaxDuration = 60 * time.Second

	// 并发切换时的最大重试次数
	ToggleMaxAttempts = 32

	DefaultPageSize = 10
	MaxPageSize     = 50

	// 评论与动态正文的最大字符数
	MaxContentLength = 500
)

const (
	EventLikeAdded           = "like.added"
	EventLikeRemoved         = "like.removed"
	EventSubscriptionAdded   = "subscription.added"
	EventSubscriptionRemoved = "subscription.removed"
	EventVideoPublished      = "video.published"
	EventCommentCreated      = "comment.created"
)
