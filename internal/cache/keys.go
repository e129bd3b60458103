package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	PostKeyPrefix      = "post:%s"
	PostsListKeyPrefix = "posts:list:%d:%d:%d"
	postsListGenKey    = "posts:list:gen"
)

const (
	PostTTL = 30 * time.Minute
	ListTTL = 2 * time.Minute
)

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// PostsListKey names one page of the post list under the current list
// generation. Bumping the generation invalidates every page at once.
func PostsListKey(ctx context.Context, limit, offset int) string {
	var gen int64
	if client != nil {
		gen, _ = client.Get(ctx, postsListGenKey).Int64()
	}
	return fmt.Sprintf(PostsListKeyPrefix, gen, limit, offset)
}

// InvalidatePostsList moves the list cache to a new generation.
func InvalidatePostsList(ctx context.Context) {
	if client == nil {
		return
	}
	client.Incr(ctx, postsListGenKey)
}

// InvalidatePost drops a post and every cached list page.
func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
	InvalidatePostsList(ctx)
}

func keyFamily(key string) string {
	if strings.HasPrefix(key, "posts:list:") {
		return "posts_list"
	}
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
