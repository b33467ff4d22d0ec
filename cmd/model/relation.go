package model

import "time"

// Subscription 订阅关系, SubscriberId 订阅了 ChannelId
type Subscription struct {
	SubscriptionId int64     `gorm:"primaryKey;autoIncrement:false" json:"subscription_id"`
	SubscriberId   int64     `gorm:"uniqueIndex:uk_subscription,priority:1;not null" json:"subscriber_id"`
	ChannelId      int64     `gorm:"uniqueIndex:uk_subscription,priority:2;index;not null" json:"channel_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
