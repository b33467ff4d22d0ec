package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/pkg/errno"
)

func TestChannelProfile(t *testing.T) {
	f := newFixture(t)
	channel := f.user(t, "channel")
	fan := f.user(t, "fan")
	other := f.user(t, "other")
	toggles := NewToggleService(context.Background(), f.core)
	_, err := toggles.Toggle(as(fan), KindSubscription, channel.UserId, fan.UserId)
	require.NoError(t, err)
	_, err = toggles.Toggle(as(channel), KindSubscription, other.UserId, channel.UserId)
	require.NoError(t, err)
	svc := NewUserService(context.Background(), f.core)

	view, err := svc.ChannelProfile(as(fan), "Channel")
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.SubscribersCount)
	assert.Equal(t, int64(1), view.ChannelsSubscribedToCount)
	assert.True(t, view.IsSubscribed)

	view, err = svc.ChannelProfile(context.Background(), "channel")
	require.NoError(t, err)
	assert.False(t, view.IsSubscribed)

	_, err = svc.ChannelProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, errno.NotFoundErr)
}

func TestSubscriptionListings(t *testing.T) {
	f := newFixture(t)
	fan := f.user(t, "fan")
	first := f.user(t, "first")
	second := f.user(t, "second")
	toggles := NewToggleService(context.Background(), f.core)
	for _, ch := range []int64{first.UserId, second.UserId} {
		_, err := toggles.Toggle(as(fan), KindSubscription, ch, fan.UserId)
		require.NoError(t, err)
	}
	svc := NewRelationService(context.Background(), f.core)

	channels, err := svc.SubscribedChannels(as(fan), fan.UserId)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, second.UserId, channels[0].UserId)
	assert.True(t, channels[0].IsSubscribed)

	subscribers, err := svc.ChannelSubscribers(context.Background(), first.UserId)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
	assert.Equal(t, fan.UserId, subscribers[0].UserId)
	assert.Equal(t, int64(2), subscribers[0].ChannelsSubscribedToCount)

	_, err = svc.SubscribedChannels(context.Background(), 404)
	assert.ErrorIs(t, err, errno.NotFoundErr)
}

func TestLikedVideos(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	fan := f.user(t, "fan")
	a := f.video(t, owner, "a", true)
	b := f.video(t, owner, "b", true)
	toggles := NewToggleService(context.Background(), f.core)
	svc := NewRelationService(context.Background(), f.core)

	_, err := svc.LikedVideos(context.Background())
	assert.ErrorIs(t, err, errno.UnauthenticatedErr)

	for _, v := range []int64{a.VideoId, b.VideoId} {
		_, err := toggles.Toggle(as(fan), KindVideoLike, v, fan.UserId)
		require.NoError(t, err)
	}
	liked, err := svc.LikedVideos(as(fan))
	require.NoError(t, err)
	assert.Equal(t, []int64{b.VideoId, a.VideoId}, videoIds(liked))
	assert.True(t, liked[0].IsLiked)
}

func TestTweets(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	fan := f.user(t, "fan")
	svc := NewTweetService(context.Background(), f.core)

	tw, err := svc.CreateTweet(as(author), "first post", author.UserId)
	require.NoError(t, err)
	_, err = svc.CreateTweet(as(author), "", author.UserId)
	assert.ErrorIs(t, err, errno.RequestErr)

	_, err = NewToggleService(context.Background(), f.core).Toggle(as(fan), KindTweetLike, tw.TweetId, fan.UserId)
	require.NoError(t, err)

	page, err := svc.UserTweets(as(fan), author.UserId, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].LikesCount)
	assert.True(t, page.Items[0].IsLiked)

	_, err = svc.UpdateTweet(as(fan), tw.TweetId, "mine now", fan.UserId)
	assert.ErrorIs(t, err, errno.ForbiddenErr)
	updated, err := svc.UpdateTweet(as(author), tw.TweetId, "edited", author.UserId)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assert.ErrorIs(t, svc.DeleteTweet(as(fan), tw.TweetId, fan.UserId), errno.ForbiddenErr)
	require.NoError(t, svc.DeleteTweet(as(author), tw.TweetId, author.UserId))
	n, err := f.store.Likes.Count(context.Background(), db.Filter{"tweet_id": tw.TweetId})
	require.NoError(t, err)
	assert.Zero(t, n, "likes go with the tweet")
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	fan := f.user(t, "fan")
	a := f.video(t, owner, "a", true)
	draft := f.video(t, owner, "draft", false)
	videos := NewVideoService(context.Background(), f.core)
	toggles := NewToggleService(context.Background(), f.core)
	svc := NewDashboardService(context.Background(), f.core)

	_, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, errno.UnauthenticatedErr)

	require.NoError(t, videos.IncrementViews(context.Background(), a.VideoId))
	require.NoError(t, videos.IncrementViews(context.Background(), draft.VideoId))
	_, err = toggles.Toggle(as(fan), KindVideoLike, a.VideoId, fan.UserId)
	require.NoError(t, err)
	_, err = toggles.Toggle(as(fan), KindSubscription, owner.UserId, fan.UserId)
	require.NoError(t, err)

	stats, err := svc.Stats(as(owner))
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{TotalViews: 2, TotalVideos: 2, TotalLikes: 1, TotalSubscribers: 1}, stats)

	page, err := svc.ChannelVideos(as(owner), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{draft.VideoId, a.VideoId}, videoIds(page.Items), "drafts are listed for their owner")
}
