package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/principal"
	"VideoHub.com/pkg/utils"
)

type TweetService struct {
	ctx  context.Context
	core *Core
}

func NewTweetService(ctx context.Context, core *Core) *TweetService {
	return &TweetService{ctx: ctx, core: core}
}

func (s *TweetService) CreateTweet(ctx context.Context, content string, userId int64) (*TweetView, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	t := &model.Tweet{TweetId: utils.NextID(), UserId: userId, Content: content}
	if err := s.core.Store.Tweets.Insert(ctx, t); err != nil {
		return nil, err
	}
	return s.core.projector().Tweet(principal.WithUser(ctx, userId), t)
}

func (s *TweetService) UserTweets(ctx context.Context, userId int64, page, size int) (*PageView[*TweetView], error) {
	if _, err := s.core.Store.Users.Get(ctx, userId); err != nil {
		return nil, err
	}
	page, size = normalizePage(page, size)
	res, err := s.core.Store.Tweets.FindPage(ctx, db.Filter{"user_id": userId},
		[]db.Sort{{Column: "created_at", Desc: true}, {Column: "tweet_id", Desc: true}}, page*size, size)
	if err != nil {
		return nil, err
	}
	items, err := s.core.projector().Tweets(ctx, res.Items)
	if err != nil {
		return nil, err
	}
	return &PageView[*TweetView]{Items: items, Total: res.Total, Page: page, Size: size}, nil
}

func (s *TweetService) owned(ctx context.Context, tweetId, userId int64) (*model.Tweet, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	t, err := s.core.Store.Tweets.Get(ctx, tweetId)
	if err != nil {
		return nil, err
	}
	if t.UserId != userId {
		return nil, errno.ForbiddenErr.WithMessage("You can only modify your own tweets")
	}
	return t, nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, tweetId int64, content string, userId int64) (*TweetView, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	t, err := s.owned(ctx, tweetId, userId)
	if err != nil {
		return nil, err
	}
	t.Content = content
	if err := s.core.Store.Tweets.Update(ctx, t.TweetId, t); err != nil {
		return nil, err
	}
	return s.core.projector().Tweet(principal.WithUser(ctx, userId), t)
}

// DeleteTweet 连同该动态收到的点赞一起删除
func (s *TweetService) DeleteTweet(ctx context.Context, tweetId, userId int64) error {
	t, err := s.owned(ctx, tweetId, userId)
	if err != nil {
		return err
	}
	if _, err := s.core.Store.Tweets.DeleteByID(ctx, t.TweetId); err != nil {
		return err
	}
	if _, err := s.core.Store.Likes.DeleteWhere(ctx, db.Filter{"tweet_id": t.TweetId}); err != nil {
		hlog.CtxWarnf(ctx, "clean likes of tweet %d failed: %v", t.TweetId, err)
	}
	return nil
}
