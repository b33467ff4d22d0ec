package mq

import (
	"time"

	"github.com/google/uuid"
)

// EngagementEvent 点赞, 订阅, 评论等互动事件, RoutingKey 即 Type
type EngagementEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`        // like.added, subscription.removed ...
	TargetKind string `json:"target_kind"` // video, comment, tweet, channel
	TargetID   int64  `json:"target_id"`
	UserID     int64  `json:"user_id"` // 操作用户ID
	Timestamp  int64  `json:"timestamp"`
}

func NewEngagementEvent(eventType, targetKind string, targetId, userId int64) *EngagementEvent {
	return &EngagementEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		TargetKind: targetKind,
		TargetID:   targetId,
		UserID:     userId,
		Timestamp:  time.Now().Unix(),
	}
}
