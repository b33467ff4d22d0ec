package model

import "time"

type Video struct {
	VideoId     int64     `gorm:"primaryKey;autoIncrement:false" json:"video_id"`
	UserId      int64     `gorm:"index;not null" json:"user_id"`
	VideoUrl    string    `gorm:"size:512" json:"video_url"`
	CoverUrl    string    `gorm:"size:512" json:"cover_url"`
	Title       string    `gorm:"size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Duration    float64   `json:"duration"` // 秒
	VisitCount  int64     `gorm:"not null;default:0" json:"visit_count"`
	IsPublished bool      `gorm:"index" json:"is_published"`
	IsShort     bool      `gorm:"index" json:"is_short"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Playlist 对应原先的收藏夹
type Playlist struct {
	PlaylistId  int64     `gorm:"primaryKey;autoIncrement:false" json:"playlist_id"`
	UserId      int64     `gorm:"index;not null" json:"user_id"`
	Name        string    `gorm:"size:128" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaylistVideo 收藏夹中的视频, Position 决定顺序
type PlaylistVideo struct {
	PlaylistVideoId int64     `gorm:"primaryKey;autoIncrement:false" json:"playlist_video_id"`
	PlaylistId      int64     `gorm:"uniqueIndex:uk_playlist_video,priority:1;not null" json:"playlist_id"`
	VideoId         int64     `gorm:"uniqueIndex:uk_playlist_video,priority:2;not null" json:"video_id"`
	Position        int64     `json:"position"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
