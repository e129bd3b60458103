package client

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/repository"
	"blog/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNew(t *testing.T) {
	c, err := New("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL.String())

	_, err = New("ftp://example.com")
	assert.Error(t, err)
	_, err = New("://bad")
	assert.Error(t, err)
}

func TestAuthenticatedCallsNeedToken(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.CreatePost(ctx, "", "t", "c", "")
	assert.ErrorIs(t, err, ErrNoToken)
	assert.ErrorIs(t, c.DeletePost(ctx, "", "p1"), ErrNoToken)
	_, err = c.ToggleLike(ctx, "", "p1")
	assert.ErrorIs(t, err, ErrNoToken)
	assert.ErrorIs(t, c.DeleteComment(ctx, "", "c1"), ErrNoToken)
	assert.Zero(t, hits)
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{"api error body", http.StatusForbidden, `{"message":"Not authorized","code":"FORBIDDEN"}`, "Not authorized", "FORBIDDEN"},
		{"plain text body", http.StatusBadGateway, "upstream down\n", "upstream down", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c, err := New(ts.URL)
			require.NoError(t, err)

			err = c.DeletePost(context.Background(), "tok", "p1")
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestRequestShape(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.ListPosts(ctx, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "/api/posts", gotPath)
	assert.Equal(t, "limit=10&offset=20", gotQuery)
	assert.Empty(t, gotAuth)

	_, _ = c.UpdatePost(ctx, "tok", "p1", PostUpdate{ImageURL: strPtr("")})
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "/api/posts/p1", gotPath)
	assert.Equal(t, map[string]any{"imageUrl": ""}, gotBody)
}

func startServer(t *testing.T) *Client {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	srv, err := server.NewServerWithDeps(&config.Config{
		Env:       "test",
		JWTSecret: "client-test-secret-with-enough-bytes",
		JWTTTL:    time.Hour,
	}, repository.NewGormStore(db), nil)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	c, err := New("http://" + ln.Addr().String())
	require.NoError(t, err)
	return c
}

func TestAgainstServer(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	alice, err := c.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	bob, err := c.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	login, err := c.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, login.User.ID)

	post, err := c.CreatePost(ctx, alice.Token, "Hi", "Hello world", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", post.Author.Username)

	err = c.DeletePost(ctx, bob.Token, post.ID)
	assert.True(t, IsStatus(err, http.StatusForbidden), "got %v", err)

	updated, err := c.UpdatePost(ctx, alice.Token, post.ID, PostUpdate{Title: strPtr("Hello")})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Title)

	comment, err := c.AddComment(ctx, bob.Token, post.ID, "Nice")
	require.NoError(t, err)
	comments, err := c.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob", comments[0].Author.Username)
	require.NoError(t, c.DeleteComment(ctx, bob.Token, comment.ID))

	res, err := c.ToggleLike(ctx, bob.Token, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	likes, err := c.ListLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes.Count)

	posts, err := c.ListPosts(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	require.NoError(t, c.DeletePost(ctx, alice.Token, post.ID))
	_, err = c.GetPost(ctx, post.ID)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	me, err := c.Me(ctx, alice.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestWatch(t *testing.T) {
	c := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice, err := c.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	events := make(chan FeedEvent, 8)
	watchCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(watchCtx, alice.Token, func(e FeedEvent) { events <- e })
	}()

	// Keep posting until the watcher is subscribed and sees one.
	var got FeedEvent
	require.Eventually(t, func() bool {
		if _, err := c.CreatePost(ctx, alice.Token, "Live", "Fresh off the press", ""); err != nil {
			return false
		}
		select {
		case got = <-events:
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "post.created", got.Type)
	assert.Contains(t, string(got.Payload), "Fresh off the press")

	stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
