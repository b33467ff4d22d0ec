package model

import "time"

// Comment ParentId 为空表示顶层评论
type Comment struct {
	CommentId int64     `gorm:"primaryKey;autoIncrement:false" json:"comment_id"`
	UserId    int64     `gorm:"index;not null" json:"user_id"`
	VideoId   int64     `gorm:"index:idx_comment_video_created,priority:1;not null" json:"video_id"`
	ParentId  *int64    `gorm:"index" json:"parent_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_comment_video_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Like 三个目标字段有且只有一个非空, 每种目标各有一个 (user, target) 唯一索引
type Like struct {
	LikeId    int64     `gorm:"primaryKey;autoIncrement:false" json:"like_id"`
	UserId    int64     `gorm:"not null;uniqueIndex:uk_like_video,priority:1;uniqueIndex:uk_like_comment,priority:1;uniqueIndex:uk_like_tweet,priority:1" json:"user_id"`
	VideoId   *int64    `gorm:"uniqueIndex:uk_like_video,priority:2;index" json:"video_id"`
	CommentId *int64    `gorm:"uniqueIndex:uk_like_comment,priority:2;index" json:"comment_id"`
	TweetId   *int64    `gorm:"uniqueIndex:uk_like_tweet,priority:2;index" json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Tweet struct {
	TweetId   int64     `gorm:"primaryKey;autoIncrement:false" json:"tweet_id"`
	UserId    int64     `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
