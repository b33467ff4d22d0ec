package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/errno"
)

func videoIds(items []*VideoView) []int64 {
	ids := make([]int64, len(items))
	for i, v := range items {
		ids[i] = v.VideoId
	}
	return ids
}

func TestGetVideoAnonymousDecoration(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	fan := f.user(t, "fan")
	video := f.video(t, owner, "v", true)
	toggles := NewToggleService(context.Background(), f.core)
	_, err := toggles.Toggle(as(fan), KindVideoLike, video.VideoId, fan.UserId)
	require.NoError(t, err)
	_, err = toggles.Toggle(as(fan), KindSubscription, owner.UserId, fan.UserId)
	require.NoError(t, err)

	view, err := NewVideoService(context.Background(), f.core).GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)
	assert.False(t, view.IsLiked)
	assert.False(t, view.IsSubscribed)
	assert.Equal(t, int64(1), view.LikesCount)
	assert.Equal(t, int64(1), view.SubscribersCount)
	assert.Equal(t, owner.UserId, view.Owner.UserId)
}

func TestGetVideoIsPrincipalScoped(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	fan := f.user(t, "fan")
	video := f.video(t, owner, "v", true)
	svc := NewVideoService(context.Background(), f.core)
	_, err := NewToggleService(context.Background(), f.core).Toggle(as(fan), KindVideoLike, video.VideoId, fan.UserId)
	require.NoError(t, err)

	mine, err := svc.GetVideo(as(fan), video.VideoId)
	require.NoError(t, err)
	theirs, err := svc.GetVideo(as(owner), video.VideoId)
	require.NoError(t, err)
	assert.True(t, mine.IsLiked)
	assert.False(t, theirs.IsLiked)

	// 第二次命中缓存, 结果不变
	mine, err = svc.GetVideo(as(fan), video.VideoId)
	require.NoError(t, err)
	assert.True(t, mine.IsLiked)
}

func TestGetVideoMissing(t *testing.T) {
	f := newFixture(t)
	_, err := NewVideoService(context.Background(), f.core).GetVideo(context.Background(), 404)
	assert.ErrorIs(t, err, errno.NotFoundErr)
	assert.Zero(t, f.cache.Len(), "failed loads are not cached")
}

func TestTogglePublishStatusFreshness(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	video := f.video(t, owner, "v", true)
	svc := NewVideoService(context.Background(), f.core)

	before, err := svc.GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)
	require.True(t, before.IsPublished)
	list, err := svc.ListVideos(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Equal(t, []int64{video.VideoId}, videoIds(list.Items))

	toggled, err := svc.TogglePublishStatus(as(owner), video.VideoId, owner.UserId)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	after, err := svc.GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)
	assert.False(t, after.IsPublished, "detail view must not be stale")
	list, err = svc.ListVideos(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list.Items, "unpublished videos leave the listing")

	_, err = svc.TogglePublishStatus(as(owner), video.VideoId, owner.UserId)
	require.NoError(t, err)
	after, err = svc.GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)
	assert.True(t, after.IsPublished)
}

func TestTogglePublishStatusOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	other := f.user(t, "other")
	video := f.video(t, owner, "v", true)
	svc := NewVideoService(context.Background(), f.core)

	_, err := svc.TogglePublishStatus(as(other), video.VideoId, other.UserId)
	assert.ErrorIs(t, err, errno.ForbiddenErr)
	_, err = svc.TogglePublishStatus(as(other), 404, other.UserId)
	assert.ErrorIs(t, err, errno.NotFoundErr)

	got, err := f.store.Videos.Get(context.Background(), video.VideoId)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
}

func TestIncrementViewsEvictsOnlyDetail(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	video := f.video(t, owner, "v", true)
	svc := NewVideoService(context.Background(), f.core)

	_, err := svc.GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)
	_, err = svc.ListVideos(context.Background(), 0, 10)
	require.NoError(t, err)

	require.NoError(t, svc.IncrementViews(context.Background(), video.VideoId))
	require.NoError(t, svc.IncrementViews(context.Background(), video.VideoId))

	detail, err := svc.GetVideo(context.Background(), video.VideoId)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.VisitCount)

	list, err := svc.ListVideos(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Items[0].VisitCount, "listing stays cached until its ttl")

	assert.ErrorIs(t, svc.IncrementViews(context.Background(), 404), errno.NotFoundErr)
}

func TestListVideosSplitsShorts(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	svc := NewVideoService(context.Background(), f.core)

	long1 := f.video(t, owner, "long1", true)
	f.video(t, owner, "draft", false)
	long2 := f.video(t, owner, "long2", true)
	f.media.duration = 30 * time.Second
	short, err := svc.UploadVideo(as(owner), &UploadVideoInput{
		Title: "short",
		Video: &MediaFile{Reader: strings.NewReader("bytes"), Size: 5},
	}, owner.UserId)
	require.NoError(t, err)

	list, err := svc.ListVideos(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{long2.VideoId, long1.VideoId}, videoIds(list.Items))
	assert.Equal(t, int64(2), list.Total)

	shorts, err := svc.ListShorts(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{short.VideoId}, videoIds(shorts.Items))

	list, err = svc.ListVideos(context.Background(), 0, 500)
	require.NoError(t, err)
	assert.Equal(t, constants.MaxPageSize, list.Size)
}

func TestUploadVideo(t *testing.T) {
	tests := []struct {
		name      string
		duration  time.Duration
		requested *bool
		wantShort bool
	}{
		{"under a minute", 30 * time.Second, nil, true},
		{"exactly a minute", time.Minute, nil, true},
		{"over a minute", 61 * time.Second, nil, false},
		{"unknown duration", 0, nil, false},
		{"under a minute ignores opt out", 30 * time.Second, boolPtr(false), true},
		{"over a minute opted in", 5 * time.Minute, boolPtr(true), true},
		{"over a minute opted out", 5 * time.Minute, boolPtr(false), false},
		{"unknown duration opted in", 0, boolPtr(true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			owner := f.user(t, "owner")
			svc := NewVideoService(context.Background(), f.core)
			f.media.duration = tt.duration

			_, err := svc.ListShorts(context.Background(), 0, 10)
			require.NoError(t, err)

			view, err := svc.UploadVideo(as(owner), &UploadVideoInput{
				Title:       " title ",
				Description: "desc",
				Video:       &MediaFile{Reader: strings.NewReader("video"), Size: 5, ContentType: "video/mp4"},
				Thumbnail:   &MediaFile{Reader: strings.NewReader("img"), Size: 3, ContentType: "image/png"},
				IsShort:     tt.requested,
			}, owner.UserId)
			require.NoError(t, err)
			assert.Equal(t, "title", view.Title)
			assert.Equal(t, tt.wantShort, view.IsShort)
			assert.True(t, view.IsPublished)
			assert.Equal(t, tt.duration.Seconds(), view.Duration)
			assert.True(t, strings.HasSuffix(view.CoverUrl, "cover.png"))
			assert.Equal(t, owner.UserName, view.Owner.UserName)

			shorts, err := svc.ListShorts(context.Background(), 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.wantShort, len(shorts.Items) == 1, "upload evicts listing caches")

			events := f.events.Events()
			require.Len(t, events, 1)
			assert.Equal(t, constants.EventVideoPublished, events[0].Type)
		})
	}
}

func TestUploadVideoValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	svc := NewVideoService(context.Background(), f.core)

	_, err := svc.UploadVideo(as(owner), &UploadVideoInput{Video: &MediaFile{Reader: strings.NewReader("x")}}, owner.UserId)
	assert.ErrorIs(t, err, errno.RequestErr)
	_, err = svc.UploadVideo(as(owner), &UploadVideoInput{Title: "t"}, owner.UserId)
	assert.ErrorIs(t, err, errno.RequestErr)
	_, err = svc.UploadVideo(context.Background(), &UploadVideoInput{Title: "t"}, 0)
	assert.ErrorIs(t, err, errno.UnauthenticatedErr)

	f.media.err = errno.OssErr.WithMessage("bucket gone")
	_, err = svc.UploadVideo(as(owner), &UploadVideoInput{Title: "t", Video: &MediaFile{Reader: strings.NewReader("x")}}, owner.UserId)
	assert.ErrorIs(t, err, errno.OssErr)

	n, err := f.store.Videos.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	draft := false
	f.media.err = nil
	view, err := svc.UploadVideo(as(owner), &UploadVideoInput{
		Title: "draft", IsPublished: &draft, Video: &MediaFile{Reader: strings.NewReader("x")},
	}, owner.UserId)
	require.NoError(t, err)
	assert.False(t, view.IsPublished)
	assert.Empty(t, f.events.Events(), "drafts are not announced")
}

func TestSearchVideos(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	svc := NewVideoService(context.Background(), f.core)
	match := f.video(t, owner, "Learning Go", true)
	f.video(t, owner, "Go draft", false)
	f.video(t, owner, "Cooking", true)

	page, err := svc.SearchVideos(context.Background(), "go", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{match.VideoId}, videoIds(page.Items))
	assert.True(t, f.cached(t, f.core.Cache.Key(constants.VideoSearchCache, constants.AnonymousPrincipal, "go", 0, 10)))

	_, err = svc.SearchVideos(context.Background(), "  ", 0, 10)
	assert.ErrorIs(t, err, errno.RequestErr)
}

func TestWatchHistory(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	viewer := f.user(t, "viewer")
	a := f.video(t, owner, "a", true)
	b := f.video(t, owner, "b", true)
	svc := NewVideoService(context.Background(), f.core)

	_, err := svc.WatchHistory(context.Background())
	assert.ErrorIs(t, err, errno.UnauthenticatedErr)

	for _, id := range []int64{a.VideoId, b.VideoId} {
		_, err := svc.GetVideo(as(viewer), id)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}
	// 命中缓存时同样刷新观看时间
	_, err = svc.GetVideo(as(viewer), a.VideoId)
	require.NoError(t, err)

	history, err := svc.WatchHistory(as(viewer))
	require.NoError(t, err)
	assert.Equal(t, []int64{a.VideoId, b.VideoId}, videoIds(history))

	_, err = svc.GetVideo(context.Background(), b.VideoId)
	require.NoError(t, err)
	n, err := f.store.WatchHistory.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "anonymous views are not recorded")
}
