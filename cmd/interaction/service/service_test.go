package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/interaction/dal/db/dbtest"
	"VideoHub.com/cmd/interaction/infras/redis"
	"VideoHub.com/cmd/interaction/infras/search"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/cache"
	"VideoHub.com/pkg/mq"
	"VideoHub.com/pkg/oss"
	"VideoHub.com/pkg/principal"
	"VideoHub.com/pkg/utils"
)

type fakeMedia struct {
	mu       sync.Mutex
	duration time.Duration
	err      error
	uploads  int
}

func (m *fakeMedia) PutVideo(_ context.Context, ownerId, videoId int64, r io.Reader, _ int64, _ string) (*oss.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	m.uploads++
	return &oss.Asset{URL: "http://media.test/" + oss.VideoObjectName(ownerId, videoId), Duration: m.duration}, nil
}

func (m *fakeMedia) PutThumbnail(_ context.Context, ownerId, videoId int64, _ io.Reader, _ int64, contentType string) (string, error) {
	return "http://media.test/" + oss.ThumbnailObjectName(ownerId, videoId, contentType), nil
}

type fixture struct {
	core   *Core
	store  *db.Store
	cache  *cache.MemoryStore
	events *mq.MemoryPublisher
	media  *fakeMedia
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := dbtest.NewTestStore(t)
	mem := cache.NewMemoryStore()
	f := &fixture{
		store:  store,
		cache:  mem,
		events: &mq.MemoryPublisher{},
		media:  &fakeMedia{duration: 5 * time.Minute},
	}
	f.core = &Core{
		Store:     store,
		Cache:     redis.NewViewCache(mem, "test:", time.Minute),
		Publisher: f.events,
		Media:     f.media,
		Searcher:  search.NewDBSearcher(store),
	}
	return f
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{UserId: utils.NextID(), UserName: name, Email: name + "@example.com", FullName: name}
	require.NoError(t, f.store.Users.Insert(context.Background(), u))
	return u
}

func (f *fixture) video(t *testing.T, owner *model.User, title string, published bool) *model.Video {
	t.Helper()
	v := &model.Video{
		VideoId:     utils.NextID(),
		UserId:      owner.UserId,
		Title:       title,
		Duration:    120,
		IsPublished: published,
	}
	require.NoError(t, f.store.Videos.Insert(context.Background(), v))
	return v
}

func (f *fixture) comment(t *testing.T, owner *model.User, video *model.Video, content string) *CommentView {
	t.Helper()
	c, err := NewCommentService(context.Background(), f.core).AddComment(context.Background(), video.VideoId, content, owner.UserId)
	require.NoError(t, err)
	return c
}

// as 以某个用户的身份发起请求
func as(u *model.User) context.Context {
	return principal.WithUser(context.Background(), u.UserId)
}

func (f *fixture) cached(t *testing.T, key string) bool {
	t.Helper()
	_, ok, err := f.cache.Get(context.Background(), key)
	require.NoError(t, err)
	return ok
}
