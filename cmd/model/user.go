package model

import "time"

// User 频道与用户共用一张表, 频道即被订阅的用户
type User struct {
	UserId       int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	UserName     string    `gorm:"size:64;uniqueIndex" json:"user_name"`
	Email        string    `gorm:"size:128;uniqueIndex" json:"email"`
	Password     string    `gorm:"size:128" json:"-"`
	FullName     string    `gorm:"size:128" json:"full_name"`
	AvatarUrl    string    `gorm:"size:512" json:"avatar_url"`
	CoverUrl     string    `gorm:"size:512" json:"cover_url"`
	RefreshToken string    `gorm:"size:512" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WatchHistory 每个 (用户, 视频) 只保留一条, 重复观看刷新 WatchedAt
type WatchHistory struct {
	WatchHistoryId int64     `gorm:"primaryKey;autoIncrement:false" json:"watch_history_id"`
	UserId         int64     `gorm:"uniqueIndex:uk_watch_user_video,priority:1;not null" json:"user_id"`
	VideoId        int64     `gorm:"uniqueIndex:uk_watch_user_video,priority:2;not null" json:"video_id"`
	WatchedAt      time.Time `gorm:"index" json:"watched_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
