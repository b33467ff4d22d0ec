package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/principal"
)

// 列表装饰时的并发上限
const decorateParallelism = 8

// Projector 读时计算点赞数, 订阅数, 回复数以及当前调用者的 isLiked/isSubscribed.
// 派生字段不落库, 每次都从关系表现算.
type Projector struct {
	store *db.Store
}

func NewProjector(store *db.Store) *Projector {
	return &Projector{store: store}
}

// viewer 身份解析失败只当作匿名, 这是唯一吞掉 Unauthenticated 的地方
func (p *Projector) viewer(ctx context.Context) (int64, bool) {
	return principal.FromContext(ctx)
}

func (p *Projector) likesCount(ctx context.Context, column string, id int64) (int64, error) {
	return p.store.Likes.Count(ctx, db.Filter{column: id})
}

func (p *Projector) isLiked(ctx context.Context, column string, id int64) (bool, error) {
	uid, ok := p.viewer(ctx)
	if !ok {
		return false, nil
	}
	return p.store.Likes.Exists(ctx, db.Filter{"user_id": uid, column: id})
}

func (p *Projector) subscribersCount(ctx context.Context, channelId int64) (int64, error) {
	return p.store.Subscriptions.Count(ctx, db.Filter{"channel_id": channelId})
}

func (p *Projector) isSubscribed(ctx context.Context, channelId int64) (bool, error) {
	uid, ok := p.viewer(ctx)
	if !ok {
		return false, nil
	}
	return p.store.Subscriptions.Exists(ctx, db.Filter{"subscriber_id": uid, "channel_id": channelId})
}

// Owner 基础用户信息, 用户已不存在时只保留 id
func (p *Projector) Owner(ctx context.Context, userId int64) (*UserView, error) {
	u, ok, err := p.store.Users.FindOne(ctx, db.Filter{"user_id": userId})
	if err != nil {
		return nil, err
	}
	if !ok {
		return &UserView{UserId: userId}, nil
	}
	return toUserView(u), nil
}

func toUserView(u *model.User) *UserView {
	return &UserView{
		UserId:    u.UserId,
		UserName:  u.UserName,
		FullName:  u.FullName,
		AvatarUrl: u.AvatarUrl,
		CoverUrl:  u.CoverUrl,
	}
}

// Channel 频道页: 订阅数, 关注的频道数与当前调用者是否已订阅
func (p *Projector) Channel(ctx context.Context, u *model.User) (*UserView, error) {
	view := toUserView(u)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.SubscribersCount, err = p.subscribersCount(gctx, u.UserId)
		return
	})
	g.Go(func() (err error) {
		view.ChannelsSubscribedToCount, err = p.store.Subscriptions.Count(gctx, db.Filter{"subscriber_id": u.UserId})
		return
	})
	g.Go(func() (err error) {
		view.IsSubscribed, err = p.isSubscribed(gctx, u.UserId)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (p *Projector) Video(ctx context.Context, v *model.Video) (*VideoView, error) {
	view := &VideoView{
		VideoId:     v.VideoId,
		VideoUrl:    v.VideoUrl,
		CoverUrl:    v.CoverUrl,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		VisitCount:  v.VisitCount,
		IsPublished: v.IsPublished,
		IsShort:     v.IsShort,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Owner, err = p.Owner(gctx, v.UserId)
		return
	})
	g.Go(func() (err error) {
		view.LikesCount, err = p.likesCount(gctx, "video_id", v.VideoId)
		return
	})
	g.Go(func() (err error) {
		view.IsLiked, err = p.isLiked(gctx, "video_id", v.VideoId)
		return
	})
	g.Go(func() (err error) {
		view.SubscribersCount, err = p.subscribersCount(gctx, v.UserId)
		return
	})
	g.Go(func() (err error) {
		view.IsSubscribed, err = p.isSubscribed(gctx, v.UserId)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (p *Projector) Comment(ctx context.Context, c *model.Comment) (*CommentView, error) {
	view := &CommentView{
		CommentId: c.CommentId,
		VideoId:   c.VideoId,
		ParentId:  c.ParentId,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Owner, err = p.Owner(gctx, c.UserId)
		return
	})
	g.Go(func() (err error) {
		view.LikesCount, err = p.likesCount(gctx, "comment_id", c.CommentId)
		return
	})
	g.Go(func() (err error) {
		view.IsLiked, err = p.isLiked(gctx, "comment_id", c.CommentId)
		return
	})
	g.Go(func() (err error) {
		// 只统计直接回复
		view.RepliesCount, err = p.store.Comments.Count(gctx, db.Filter{"parent_id": c.CommentId})
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (p *Projector) Tweet(ctx context.Context, t *model.Tweet) (*TweetView, error) {
	view := &TweetView{
		TweetId:   t.TweetId,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Owner, err = p.Owner(gctx, t.UserId)
		return
	})
	g.Go(func() (err error) {
		view.LikesCount, err = p.likesCount(gctx, "tweet_id", t.TweetId)
		return
	})
	g.Go(func() (err error) {
		view.IsLiked, err = p.isLiked(gctx, "tweet_id", t.TweetId)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (p *Projector) Videos(ctx context.Context, videos []*model.Video) ([]*VideoView, error) {
	return decorateAll(ctx, videos, p.Video)
}

func (p *Projector) Comments(ctx context.Context, comments []*model.Comment) ([]*CommentView, error) {
	return decorateAll(ctx, comments, p.Comment)
}

func (p *Projector) Tweets(ctx context.Context, tweets []*model.Tweet) ([]*TweetView, error) {
	return decorateAll(ctx, tweets, p.Tweet)
}

// decorateAll 并发装饰, 保持输入顺序
func decorateAll[M any, V any](ctx context.Context, items []*M, one func(context.Context, *M) (*V, error)) ([]*V, error) {
	out := make([]*V, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(decorateParallelism)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			v, err := one(gctx, item)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
