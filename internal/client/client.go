// Package client is a typed HTTP client for the blog API.
//
// The client keeps no credential state: every authenticated call takes the
// bearer token as an argument.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blog/internal/models"
	"blog/internal/service"
)

// ErrNoToken is returned before any request is sent when an authenticated
// call gets an empty token.
var ErrNoToken = errors.New("client: token is required")

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client talks to one API base URL such as http://localhost:8080.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New parses baseURL and returns a client for it.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme %q", u.Scheme)
	}
	c := &Client{baseURL: u, http: &http.Client{Timeout: 15 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PostUpdate carries the fields of an update. Nil fields are sent as
// omitted; an empty ImageURL clears the image.
type PostUpdate struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

type message struct {
	Message string `json:"message"`
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*service.AuthResult, error) {
	var out service.AuthResult
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	var out service.AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes token.
func (c *Client) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, &message{})
}

// Me returns the account that owns token.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPosts returns posts newest first. A zero limit asks for every post.
func (c *Client) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []models.Post
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePost publishes a post as the owner of token.
func (c *Client) CreatePost(ctx context.Context, token, title, content, imageURL string) (*models.Post, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	body := map[string]string{"title": title, "content": content}
	if imageURL != "" {
		body["imageUrl"] = imageURL
	}
	var out models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost edits a post owned by the token holder.
func (c *Client) UpdatePost(ctx context.Context, token, id string, fields PostUpdate) (*models.Post, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out models.Post
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), token, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePost removes a post owned by the token holder.
func (c *Client) DeletePost(ctx context.Context, token, id string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), token, nil, &message{})
}

// ListComments returns the comments on a post, newest first.
func (c *Client) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.do(ctx, http.MethodGet, "/api/comments/"+url.PathEscape(postID), "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddComment comments on a post.
func (c *Client) AddComment(ctx context.Context, token, postID, content string) (*models.Comment, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out models.Comment
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/comments/"+url.PathEscape(postID), token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComment removes a comment written by the token holder.
func (c *Client) DeleteComment(ctx context.Context, token, commentID string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, http.MethodDelete, "/api/comments/delete/"+url.PathEscape(commentID), token, nil, &message{})
}

// ListLikes returns the like count and likers of a post.
func (c *Client) ListLikes(ctx context.Context, postID string) (*models.LikeSummary, error) {
	var out models.LikeSummary
	if err := c.do(ctx, http.MethodGet, "/api/likes/"+url.PathEscape(postID), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleLike likes the post, or unlikes it when already liked.
func (c *Client) ToggleLike(ctx context.Context, token, postID string) (*models.ToggleResult, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out models.ToggleResult
	if err := c.do(ctx, http.MethodPost, "/api/likes/"+url.PathEscape(postID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er models.ErrorResponse
		if json.Unmarshal(raw, &er) == nil && er.Message != "" {
			apiErr.Message = er.Message
			apiErr.Code = er.Code
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}
