package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/metrics"
	"VideoHub.com/pkg/mq"
	"VideoHub.com/pkg/utils"
)

type ToggleKind string

const (
	KindVideoLike    ToggleKind = "video-like"
	KindCommentLike  ToggleKind = "comment-like"
	KindTweetLike    ToggleKind = "tweet-like"
	KindSubscription ToggleKind = "subscription"
)

const (
	StateAdded   = "added"
	StateRemoved = "removed"
)

type ToggleResult struct {
	Kind     ToggleKind `json:"kind"`
	TargetId int64      `json:"target_id,string"`
	State    string     `json:"state"`
}

// ToggleService 点赞与订阅的切换: 存在则删除, 不存在则插入
type ToggleService struct {
	ctx  context.Context
	core *Core
}

func NewToggleService(ctx context.Context, core *Core) *ToggleService {
	return &ToggleService{ctx: ctx, core: core}
}

// relation 描述一种关系: 查找条件, 目标校验与新文档的构造
type relation[T any] struct {
	coll        *db.Collection[T]
	filter      db.Filter
	id          func(*T) int64
	build       func() *T
	checkTarget func(ctx context.Context) error
}

// toggleRelation 每次成功调用恰好翻转一次状态.
// 删除影响 0 行或插入撞上唯一索引说明被并发请求抢先, 重新读取后再试.
func toggleRelation[T any](ctx context.Context, kind ToggleKind, r relation[T]) (string, error) {
	for attempt := 0; attempt < constants.ToggleMaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.ToggleRetries.WithLabelValues(string(kind)).Inc()
		}
		existing, ok, err := r.coll.FindOne(ctx, r.filter)
		if err != nil {
			return "", err
		}
		if ok {
			n, err := r.coll.DeleteByID(ctx, r.id(existing))
			if err != nil {
				return "", err
			}
			if n == 1 {
				return StateRemoved, nil
			}
			continue
		}

		if err := r.checkTarget(ctx); err != nil {
			return "", err
		}
		_, inserted, err := r.coll.FindOrInsert(ctx, r.filter, r.build())
		if err != nil {
			return "", err
		}
		if inserted {
			return StateAdded, nil
		}
	}
	return "", errors.WithMessagef(errno.StoreUnavailableErr.WithMessage("too many concurrent toggles"), "toggle %s", kind)
}

// Toggle 切换 userId 对 targetId 的关系, 写入成功后同步清理受影响的视图缓存
func (s *ToggleService) Toggle(ctx context.Context, kind ToggleKind, targetId, userId int64) (*ToggleResult, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}

	var (
		state string
		err   error
	)
	switch kind {
	case KindVideoLike:
		state, err = s.toggleLike(ctx, kind, "video_id", targetId, userId, func(ctx context.Context) error {
			_, err := s.core.Store.Videos.Get(ctx, targetId)
			return err
		})
	case KindCommentLike:
		state, err = s.toggleLike(ctx, kind, "comment_id", targetId, userId, func(ctx context.Context) error {
			_, err := s.core.Store.Comments.Get(ctx, targetId)
			return err
		})
	case KindTweetLike:
		state, err = s.toggleLike(ctx, kind, "tweet_id", targetId, userId, func(ctx context.Context) error {
			_, err := s.core.Store.Tweets.Get(ctx, targetId)
			return err
		})
	case KindSubscription:
		state, err = s.toggleSubscription(ctx, targetId, userId)
	default:
		return nil, errno.RequestErr.WithMessage("Unknown toggle kind: " + string(kind))
	}
	if err != nil {
		hlog.CtxWarnf(ctx, "toggle %s target=%d user=%d failed: %v", kind, targetId, userId, err)
		return nil, err
	}
	metrics.RecordToggle(string(kind), state)

	s.core.publish(ctx, toggleEvent(kind, state, targetId, userId))

	switch kind {
	case KindVideoLike:
		err = s.core.evictVideoViews(ctx, targetId)
	case KindSubscription:
		// 所有视频视图都带有作者的订阅数
		err = s.core.evictAllVideoViews(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Kind: kind, TargetId: targetId, State: state}, nil
}

func (s *ToggleService) toggleLike(ctx context.Context, kind ToggleKind, column string, targetId, userId int64, checkTarget func(context.Context) error) (string, error) {
	return toggleRelation(ctx, kind, relation[model.Like]{
		coll:   s.core.Store.Likes,
		filter: db.Filter{"user_id": userId, column: targetId},
		id:     func(l *model.Like) int64 { return l.LikeId },
		build: func() *model.Like {
			like := &model.Like{LikeId: utils.NextID(), UserId: userId}
			id := targetId
			switch column {
			case "video_id":
				like.VideoId = &id
			case "comment_id":
				like.CommentId = &id
			case "tweet_id":
				like.TweetId = &id
			}
			return like
		},
		checkTarget: checkTarget,
	})
}

func (s *ToggleService) toggleSubscription(ctx context.Context, channelId, userId int64) (string, error) {
	if channelId == userId {
		return "", errno.RequestErr.WithMessage("Cannot subscribe to yourself")
	}
	return toggleRelation(ctx, KindSubscription, relation[model.Subscription]{
		coll:   s.core.Store.Subscriptions,
		filter: db.Filter{"subscriber_id": userId, "channel_id": channelId},
		id:     func(sub *model.Subscription) int64 { return sub.SubscriptionId },
		build: func() *model.Subscription {
			return &model.Subscription{SubscriptionId: utils.NextID(), SubscriberId: userId, ChannelId: channelId}
		},
		checkTarget: func(ctx context.Context) error {
			_, err := s.core.Store.Users.Get(ctx, channelId)
			return err
		},
	})
}

func toggleEvent(kind ToggleKind, state string, targetId, userId int64) *mq.EngagementEvent {
	if kind == KindSubscription {
		typ := constants.EventSubscriptionAdded
		if state == StateRemoved {
			typ = constants.EventSubscriptionRemoved
		}
		return mq.NewEngagementEvent(typ, "channel", targetId, userId)
	}
	typ := constants.EventLikeAdded
	if state == StateRemoved {
		typ = constants.EventLikeRemoved
	}
	targetKind := map[ToggleKind]string{
		KindVideoLike:   "video",
		KindCommentLike: "comment",
		KindTweetLike:   "tweet",
	}[kind]
	return mq.NewEngagementEvent(typ, targetKind, targetId, userId)
}
