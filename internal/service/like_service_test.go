package service

import (
	"context"
	"errors"
	"testing"

	"blog/internal/models"
	"blog/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_ToggleIsAnInvolution(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	likes := newLikeRepoStub()
	events := &recordingPublisher{}
	svc := NewLikeService(noopPostRepo(), likes, events)

	res, err := svc.ToggleLike(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.ToggleResult{Liked: true, Message: "Post liked"}, res)

	summary, err := svc.ListLikes(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)

	res, err = svc.ToggleLike(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.ToggleResult{Liked: false, Message: "Post unliked"}, res)

	summary, err = svc.ListLikes(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.NotNil(t, summary.Users)

	assert.Equal(t, []string{notifications.EventLikeToggled, notifications.EventLikeToggled}, events.types())
}

func TestLikeService_CountsDistinctUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewLikeService(noopPostRepo(), newLikeRepoStub(), nil)

	for _, u := range []string{"alice", "bob", "carol"} {
		_, err := svc.ToggleLike(ctx, "p1", u)
		require.NoError(t, err)
	}
	_, err := svc.ToggleLike(ctx, "p2", "alice")
	require.NoError(t, err)

	summary, err := svc.ListLikes(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Len(t, summary.Users, 3)
}

func TestLikeService_ToggleUnknownPost(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post")
	}
	likes := newLikeRepoStub()
	svc := NewLikeService(posts, likes, nil)

	_, err := svc.ToggleLike(context.Background(), "nope", "alice")
	assertNotFoundError(t, err)
	assert.Empty(t, likes.pairs)
}

func TestLikeService_StoreError(t *testing.T) {
	t.Parallel()

	likes := newLikeRepoStub()
	likes.err = errors.New("db down")
	svc := NewLikeService(noopPostRepo(), likes, nil)

	_, err := svc.ToggleLike(context.Background(), "p1", "alice")
	assert.EqualError(t, err, "db down")

	_, err = svc.ListLikes(context.Background(), "p1")
	assert.Error(t, err)
}
