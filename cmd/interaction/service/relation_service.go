package service

import (
	"context"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/principal"
)

// RelationService 点赞与订阅关系的查询
type RelationService struct {
	ctx  context.Context
	core *Core
}

func NewRelationService(ctx context.Context, core *Core) *RelationService {
	return &RelationService{ctx: ctx, core: core}
}

// LikedVideos 当前用户点过赞的视频, 最近点赞的在前
func (s *RelationService) LikedVideos(ctx context.Context) ([]*VideoView, error) {
	uid, err := principal.Require(ctx)
	if err != nil {
		return nil, err
	}
	videos, err := s.core.Store.LikedVideos(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.core.projector().Videos(ctx, videos)
}

// SubscribedChannels subscriberId 订阅的频道
func (s *RelationService) SubscribedChannels(ctx context.Context, subscriberId int64) ([]*UserView, error) {
	if _, err := s.core.Store.Users.Get(ctx, subscriberId); err != nil {
		return nil, err
	}
	return s.channels(ctx, db.Filter{"subscriber_id": subscriberId}, func(sub *model.Subscription) int64 {
		return sub.ChannelId
	})
}

// ChannelSubscribers 订阅了 channelId 的用户
func (s *RelationService) ChannelSubscribers(ctx context.Context, channelId int64) ([]*UserView, error) {
	if _, err := s.core.Store.Users.Get(ctx, channelId); err != nil {
		return nil, err
	}
	return s.channels(ctx, db.Filter{"channel_id": channelId}, func(sub *model.Subscription) int64 {
		return sub.SubscriberId
	})
}

func (s *RelationService) channels(ctx context.Context, filter db.Filter, pick func(*model.Subscription) int64) ([]*UserView, error) {
	subs, err := s.core.Store.Subscriptions.FindPage(ctx, filter,
		[]db.Sort{{Column: "created_at", Desc: true}, {Column: "subscription_id", Desc: true}}, 0, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(subs.Items))
	for _, sub := range subs.Items {
		ids = append(ids, pick(sub))
	}
	users, err := s.core.Store.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byId := make(map[int64]*model.User, len(users))
	for _, u := range users {
		byId[u.UserId] = u
	}
	ordered := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byId[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return decorateAll(ctx, ordered, s.core.projector().Channel)
}
