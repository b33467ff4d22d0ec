package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/pkg/errno"
)

func boolPtr(v bool) *bool { return &v }

func TestPlaylistLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	a := f.video(t, owner, "a", true)
	b := f.video(t, owner, "b", true)
	svc := NewPlaylistService(context.Background(), f.core)

	_, err := svc.CreatePlaylist(as(owner), &PlaylistInput{Name: " "}, owner.UserId)
	assert.ErrorIs(t, err, errno.RequestErr)

	p, err := svc.CreatePlaylist(as(owner), &PlaylistInput{Name: "favourites", Description: "best"}, owner.UserId)
	require.NoError(t, err)
	assert.True(t, p.IsPublic)
	assert.Empty(t, p.Videos)

	_, err = svc.AddVideo(as(owner), b.VideoId, p.PlaylistId, owner.UserId)
	require.NoError(t, err)
	got, err := svc.AddVideo(as(owner), a.VideoId, p.PlaylistId, owner.UserId)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.VideoId, a.VideoId}, videoIds(got.Videos), "insertion order is kept")
	assert.Equal(t, 2, got.TotalVideos)

	_, err = svc.AddVideo(as(owner), a.VideoId, p.PlaylistId, owner.UserId)
	assert.ErrorIs(t, err, errno.ConflictErr)
	_, err = svc.AddVideo(as(owner), 404, p.PlaylistId, owner.UserId)
	assert.ErrorIs(t, err, errno.NotFoundErr)

	got, err = svc.RemoveVideo(as(owner), b.VideoId, p.PlaylistId, owner.UserId)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.VideoId}, videoIds(got.Videos))
	_, err = svc.RemoveVideo(as(owner), b.VideoId, p.PlaylistId, owner.UserId)
	assert.ErrorIs(t, err, errno.NotFoundErr)

	updated, err := svc.UpdatePlaylist(as(owner), p.PlaylistId, &PlaylistInput{Name: "renamed"}, owner.UserId)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "best", updated.Description, "empty fields keep their value")

	require.NoError(t, svc.DeletePlaylist(as(owner), p.PlaylistId, owner.UserId))
	_, err = svc.GetPlaylist(as(owner), p.PlaylistId)
	assert.ErrorIs(t, err, errno.NotFoundErr)
	n, err := f.store.PlaylistVideos.Count(context.Background(), db.Filter{"playlist_id": p.PlaylistId})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlaylistOwnershipGating(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	other := f.user(t, "other")
	v := f.video(t, owner, "v", true)
	svc := NewPlaylistService(context.Background(), f.core)
	p, err := svc.CreatePlaylist(as(owner), &PlaylistInput{Name: "mine"}, owner.UserId)
	require.NoError(t, err)

	tests := []struct {
		name string
		call func(userId int64) error
	}{
		{"update", func(uid int64) error {
			_, err := svc.UpdatePlaylist(context.Background(), p.PlaylistId, &PlaylistInput{Name: "x"}, uid)
			return err
		}},
		{"add video", func(uid int64) error {
			_, err := svc.AddVideo(context.Background(), v.VideoId, p.PlaylistId, uid)
			return err
		}},
		{"remove video", func(uid int64) error {
			_, err := svc.RemoveVideo(context.Background(), v.VideoId, p.PlaylistId, uid)
			return err
		}},
		{"delete", func(uid int64) error {
			return svc.DeletePlaylist(context.Background(), p.PlaylistId, uid)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(other.UserId), errno.ForbiddenErr)
			assert.NoError(t, tt.call(owner.UserId))
		})
	}
}

func TestPlaylistVisibility(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	other := f.user(t, "other")
	svc := NewPlaylistService(context.Background(), f.core)

	public, err := svc.CreatePlaylist(as(owner), &PlaylistInput{Name: "public"}, owner.UserId)
	require.NoError(t, err)
	private, err := svc.CreatePlaylist(as(owner), &PlaylistInput{Name: "private", IsPublic: boolPtr(false)}, owner.UserId)
	require.NoError(t, err)

	_, err = svc.GetPlaylist(as(other), private.PlaylistId)
	assert.ErrorIs(t, err, errno.NotFoundErr)
	_, err = svc.GetPlaylist(context.Background(), private.PlaylistId)
	assert.ErrorIs(t, err, errno.NotFoundErr)
	_, err = svc.GetPlaylist(as(owner), private.PlaylistId)
	assert.NoError(t, err)
	_, err = svc.GetPlaylist(context.Background(), public.PlaylistId)
	assert.NoError(t, err)

	mine, err := svc.UserPlaylists(as(owner), owner.UserId, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)

	theirs, err := svc.UserPlaylists(as(other), owner.UserId, 0, 10)
	require.NoError(t, err)
	require.Len(t, theirs.Items, 1)
	assert.Equal(t, public.PlaylistId, theirs.Items[0].PlaylistId)
	assert.Equal(t, 0, theirs.Items[0].TotalVideos)
}
