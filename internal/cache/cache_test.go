package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(c)
	t.Cleanup(func() {
		SetClient(nil)
		_ = c.Close()
	})
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			calls++
			*dest = cachedPost{ID: "p1", Title: "Hi"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey("p1"), &first, PostTTL, fetch(&first)))
	assert.Equal(t, "Hi", first.Title)
	assert.True(t, mr.Exists("post:p1"))
	assert.Equal(t, PostTTL, mr.TTL("post:p1"))

	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey("p1"), &second, PostTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second lookup must be served from redis")
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupRedis(t)

	var dest cachedPost
	err := Aside(context.Background(), PostKey("missing"), &dest, PostTTL, func() error {
		return errors.New("not found")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("post:missing"))
}

func TestAside_DegradesWhenRedisFails(t *testing.T) {
	mr := setupRedis(t)
	mr.SetError("LOADING")

	var dest cachedPost
	err := Aside(context.Background(), PostKey("p1"), &dest, PostTTL, func() error {
		dest = cachedPost{ID: "p1"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", dest.ID)
}

func TestAside_WithoutClientAlwaysFetches(t *testing.T) {
	SetClient(nil)

	calls := 0
	var dest cachedPost
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), PostKey("p1"), &dest, PostTTL, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestPostsListGenerations(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	before := PostsListKey(ctx, 10, 0)
	require.NoError(t, SetJSON(ctx, before, []cachedPost{{ID: "p1"}}, ListTTL))
	require.NoError(t, SetJSON(ctx, PostKey("p1"), cachedPost{ID: "p1"}, PostTTL))

	InvalidatePost(ctx, "p1")

	after := PostsListKey(ctx, 10, 0)
	assert.NotEqual(t, before, after)
	assert.False(t, mr.Exists("post:p1"))

	var page []cachedPost
	found, err := GetJSON(ctx, after, &page)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInitRedis(t *testing.T) {
	t.Cleanup(func() { SetClient(nil) })

	mr := miniredis.RunT(t)
	c := InitRedis("redis://" + mr.Addr() + "/0")
	require.NotNil(t, c)
	assert.Same(t, c, GetClient())

	assert.Nil(t, InitRedis("redis://%zz"))
	assert.Nil(t, GetClient())

	mr.Close()
	assert.Nil(t, InitRedis(mr.Addr()))
}

func TestKeyFamily(t *testing.T) {
	assert.Equal(t, "post", keyFamily("post:abc"))
	assert.Equal(t, "posts_list", keyFamily("posts:list:0:10:0"))
	assert.Equal(t, "plain", keyFamily("plain"))
}

func TestSetJSONHonoursTTL(t *testing.T) {
	mr := setupRedis(t)
	require.NoError(t, SetJSON(context.Background(), "k", 1, time.Minute))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("k"))
}
