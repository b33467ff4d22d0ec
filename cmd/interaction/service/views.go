package service

import "time"

// UserView 频道/用户的对外视图, 计数字段只在频道页填充
type UserView struct {
	UserId                    int64  `json:"user_id,string"`
	UserName                  string `json:"user_name"`
	FullName                  string `json:"full_name"`
	AvatarUrl                 string `json:"avatar_url"`
	CoverUrl                  string `json:"cover_url"`
	SubscribersCount          int64  `json:"subscribers_count"`
	ChannelsSubscribedToCount int64  `json:"channels_subscribed_to_count"`
	IsSubscribed              bool   `json:"is_subscribed"`
}

type VideoView struct {
	VideoId          int64     `json:"video_id,string"`
	VideoUrl         string    `json:"video_url"`
	CoverUrl         string    `json:"cover_url"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Duration         float64   `json:"duration"`
	VisitCount       int64     `json:"visit_count"`
	IsPublished      bool      `json:"is_published"`
	IsShort          bool      `json:"is_short"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Owner            *UserView `json:"owner"`
	LikesCount       int64     `json:"likes_count"`
	SubscribersCount int64     `json:"subscribers_count"`
	IsLiked          bool      `json:"is_liked"`
	IsSubscribed     bool      `json:"is_subscribed"`
}

type CommentView struct {
	CommentId    int64     `json:"comment_id,string"`
	VideoId      int64     `json:"video_id,string"`
	ParentId     *int64    `json:"parent_id,string,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Owner        *UserView `json:"owner"`
	LikesCount   int64     `json:"likes_count"`
	RepliesCount int64     `json:"replies_count"`
	IsLiked      bool      `json:"is_liked"`
}

type TweetView struct {
	TweetId    int64     `json:"tweet_id,string"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Owner      *UserView `json:"owner"`
	LikesCount int64     `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
}

type PlaylistView struct {
	PlaylistId  int64        `json:"playlist_id,string"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IsPublic    bool         `json:"is_public"`
	Owner       *UserView    `json:"owner"`
	Videos      []*VideoView `json:"videos"`
	TotalVideos int          `json:"total_videos"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PageView 偏移分页结果, Page 从 0 开始
type PageView[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

type DashboardStats struct {
	TotalViews       int64 `json:"total_views"`
	TotalVideos      int64 `json:"total_videos"`
	TotalLikes       int64 `json:"total_likes"`
	TotalSubscribers int64 `json:"total_subscribers"`
}
