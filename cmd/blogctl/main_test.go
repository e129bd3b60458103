package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func stubAPI(t *testing.T, status int, reply string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantMethod string
		wantPath   string
		wantAuth   string
		wantBody   map[string]any
		reply      string
	}{
		{
			name:       "list posts",
			args:       []string{"posts", "-limit", "5"},
			reply:      `[]`,
			wantMethod: http.MethodGet,
			wantPath:   "/api/posts",
		},
		{
			name:       "create post",
			args:       []string{"-token", "tok", "create", "-title", "Hi", "-content", "Body"},
			wantMethod: http.MethodPost,
			wantPath:   "/api/posts",
			wantAuth:   "Bearer tok",
			wantBody:   map[string]any{"title": "Hi", "content": "Body"},
		},
		{
			name:       "update sends only given flags",
			args:       []string{"-token", "tok", "update", "p1", "-image", ""},
			wantMethod: http.MethodPut,
			wantPath:   "/api/posts/p1",
			wantAuth:   "Bearer tok",
			wantBody:   map[string]any{"imageUrl": ""},
		},
		{
			name:       "delete with confirmation",
			args:       []string{"-token", "tok", "delete", "p1", "-yes"},
			wantMethod: http.MethodDelete,
			wantPath:   "/api/posts/p1",
			wantAuth:   "Bearer tok",
		},
		{
			name:       "comment joins words",
			args:       []string{"-token", "tok", "comment", "p1", "great", "post"},
			wantMethod: http.MethodPost,
			wantPath:   "/api/comments/p1",
			wantAuth:   "Bearer tok",
			wantBody:   map[string]any{"content": "great post"},
		},
		{
			name:       "toggle like",
			args:       []string{"-token", "tok", "like", "p1"},
			wantMethod: http.MethodPost,
			wantPath:   "/api/likes/p1",
			wantAuth:   "Bearer tok",
		},
	}

	t.Setenv("BLOG_TOKEN", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := tt.reply
			if reply == "" {
				reply = `{}`
			}
			ts, calls := stubAPI(t, http.StatusOK, reply)
			var out bytes.Buffer

			args := append([]string{"-api", ts.URL}, tt.args...)
			require.NoError(t, run(context.Background(), args, &out))

			require.Len(t, *calls, 1)
			got := (*calls)[0]
			assert.Equal(t, tt.wantMethod, got.method)
			assert.Equal(t, tt.wantPath, got.path)
			assert.Equal(t, tt.wantAuth, got.auth)
			if tt.wantBody != nil {
				assert.Equal(t, tt.wantBody, got.body)
			}
		})
	}
}

func TestRunTokenFromEnv(t *testing.T) {
	ts, calls := stubAPI(t, http.StatusOK, `{"liked":true,"message":"Post liked"}`)
	t.Setenv("BLOG_TOKEN", "env-token")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-api", ts.URL, "like", "p1"}, &out))
	assert.Equal(t, "Bearer env-token", (*calls)[0].auth)
	assert.Contains(t, out.String(), `"liked": true`)
}

func TestRunErrors(t *testing.T) {
	ts, calls := stubAPI(t, http.StatusForbidden, `{"message":"Not authorized","code":"FORBIDDEN"}`)
	t.Setenv("BLOG_TOKEN", "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no command", nil, "usage"},
		{"unknown command", []string{"explode"}, `unknown command "explode"`},
		{"delete needs yes", []string{"-token", "t", "delete", "p1"}, "without -yes"},
		{"missing token", []string{"like", "p1"}, "token is required"},
		{"api error surfaces", []string{"-token", "t", "delete", "p1", "-yes"}, "Not authorized"},
		{"bad arity", []string{"post"}, "usage: blogctl post <id>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-api", ts.URL}, tt.args...)
			err := run(context.Background(), args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.Len(t, *calls, 1, "only the confirmed delete reaches the API")
}
