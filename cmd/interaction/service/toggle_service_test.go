package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/utils"
)

type toggleCase struct {
	kind   ToggleKind
	target int64
	count  func() (int64, error)
}

func toggleCases(t *testing.T, f *fixture, actor *model.User) []toggleCase {
	ctx := context.Background()
	owner := f.user(t, "owner")
	video := f.video(t, owner, "v", true)
	comment := f.comment(t, owner, video, "hello")
	tweet := &model.Tweet{TweetId: utils.NextID(), UserId: owner.UserId, Content: "t"}
	require.NoError(t, f.store.Tweets.Insert(ctx, tweet))

	likes := func(column string, id int64) func() (int64, error) {
		return func() (int64, error) {
			return f.store.Likes.Count(ctx, db.Filter{"user_id": actor.UserId, column: id})
		}
	}
	return []toggleCase{
		{KindVideoLike, video.VideoId, likes("video_id", video.VideoId)},
		{KindCommentLike, comment.CommentId, likes("comment_id", comment.CommentId)},
		{KindTweetLike, tweet.TweetId, likes("tweet_id", tweet.TweetId)},
		{KindSubscription, owner.UserId, func() (int64, error) {
			return f.store.Subscriptions.Count(ctx, db.Filter{"subscriber_id": actor.UserId, "channel_id": owner.UserId})
		}},
	}
}

func TestToggleCyclesWithPeriodTwo(t *testing.T) {
	f := newFixture(t)
	actor := f.user(t, "actor")
	svc := NewToggleService(context.Background(), f.core)

	for _, tc := range toggleCases(t, f, actor) {
		t.Run(string(tc.kind), func(t *testing.T) {
			ctx := as(actor)
			for i, want := range []string{StateAdded, StateRemoved, StateAdded} {
				res, err := svc.Toggle(ctx, tc.kind, tc.target, actor.UserId)
				require.NoError(t, err, "toggle #%d", i+1)
				assert.Equal(t, want, res.State, "toggle #%d", i+1)
				assert.Equal(t, tc.target, res.TargetId)
			}
			n, err := tc.count()
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestToggleConcurrentParity(t *testing.T) {
	for _, workers := range []int{7, 8, 15} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			f := newFixture(t)
			actor := f.user(t, "actor")
			svc := NewToggleService(context.Background(), f.core)

			for _, tc := range toggleCases(t, f, actor) {
				var wg sync.WaitGroup
				for i := 0; i < workers; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := svc.Toggle(as(actor), tc.kind, tc.target, actor.UserId)
						assert.NoError(t, err)
					}()
				}
				wg.Wait()

				n, err := tc.count()
				require.NoError(t, err)
				assert.Equal(t, int64(workers%2), n, "kind %s", tc.kind)
			}
		})
	}
}

func TestToggleRejectsSelfSubscription(t *testing.T) {
	f := newFixture(t)
	svc := NewToggleService(context.Background(), f.core)

	for _, name := range []string{"alice", "bob"} {
		u := f.user(t, name)
		_, err := svc.Toggle(as(u), KindSubscription, u.UserId, u.UserId)
		assert.ErrorIs(t, err, errno.RequestErr)

		n, err := f.store.Subscriptions.Count(context.Background(), db.Filter{"subscriber_id": u.UserId})
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}

func TestToggleValidation(t *testing.T) {
	f := newFixture(t)
	actor := f.user(t, "actor")
	svc := NewToggleService(context.Background(), f.core)

	tests := []struct {
		name string
		kind ToggleKind
		user int64
		want error
	}{
		{"missing video", KindVideoLike, actor.UserId, errno.NotFoundErr},
		{"missing comment", KindCommentLike, actor.UserId, errno.NotFoundErr},
		{"missing tweet", KindTweetLike, actor.UserId, errno.NotFoundErr},
		{"missing channel", KindSubscription, actor.UserId, errno.NotFoundErr},
		{"unknown kind", ToggleKind("bookmark"), actor.UserId, errno.RequestErr},
		{"anonymous", KindVideoLike, 0, errno.UnauthenticatedErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Toggle(context.Background(), tt.kind, 404, tt.user)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestToggleEvictsVideoViews(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	fan := f.user(t, "fan")
	video := f.video(t, owner, "clip", true)
	videos := NewVideoService(context.Background(), f.core)
	toggles := NewToggleService(context.Background(), f.core)

	// 预热匿名与登录用户的详情缓存
	_, err := videos.GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)
	_, err = videos.GetVideo(as(fan), video.VideoId)
	require.NoError(t, err)
	_, err = videos.ListVideos(context.Background(), 0, 10)
	require.NoError(t, err)
	anonKey := f.core.Cache.Key(constants.VideoEntityCache, constants.AnonymousPrincipal, video.VideoId)
	listKey := f.core.Cache.Key(constants.VideoLongCache, constants.AnonymousPrincipal, 0, 10)
	require.True(t, f.cached(t, anonKey))
	require.True(t, f.cached(t, listKey))

	_, err = toggles.Toggle(as(fan), KindVideoLike, video.VideoId, fan.UserId)
	require.NoError(t, err)
	assert.False(t, f.cached(t, anonKey))
	assert.False(t, f.cached(t, listKey))

	view, err := videos.GetVideo(as(fan), video.VideoId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.LikesCount)
	assert.True(t, view.IsLiked)

	_, err = toggles.Toggle(as(fan), KindSubscription, owner.UserId, fan.UserId)
	require.NoError(t, err)
	view, err = videos.GetVideo(as(fan), video.VideoId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.SubscribersCount)
	assert.True(t, view.IsSubscribed)
}

func TestLikeCountAccuracy(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	video := f.video(t, owner, "popular", true)
	videos := NewVideoService(context.Background(), f.core)
	toggles := NewToggleService(context.Background(), f.core)

	const m = 5
	fans := make([]*model.User, m)
	for i := range fans {
		fans[i] = f.user(t, fmt.Sprintf("fan%d", i))
		_, err := toggles.Toggle(as(fans[i]), KindVideoLike, video.VideoId, fans[i].UserId)
		require.NoError(t, err)
	}
	_, err := videos.GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)

	res, err := toggles.Toggle(as(fans[2]), KindVideoLike, video.VideoId, fans[2].UserId)
	require.NoError(t, err)
	require.Equal(t, StateRemoved, res.State)

	view, err := videos.GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)
	assert.Equal(t, int64(m-1), view.LikesCount)
}

func TestTogglePublishesEvents(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	fan := f.user(t, "fan")
	svc := NewToggleService(context.Background(), f.core)

	_, err := svc.Toggle(as(fan), KindSubscription, owner.UserId, fan.UserId)
	require.NoError(t, err)
	_, err = svc.Toggle(as(fan), KindSubscription, owner.UserId, fan.UserId)
	require.NoError(t, err)

	events := f.events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, constants.EventSubscriptionAdded, events[0].Type)
	assert.Equal(t, constants.EventSubscriptionRemoved, events[1].Type)
	assert.Equal(t, owner.UserId, events[0].TargetID)
	assert.Equal(t, fan.UserId, events[0].UserID)
	assert.NotEqual(t, events[0].EventID, events[1].EventID)
}
