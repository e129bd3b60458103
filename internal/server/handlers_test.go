package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog/internal/models"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostAPI is a mock of the PostAPI interface
type MockPostAPI struct {
	mock.Mock
}

func (m *MockPostAPI) CreatePost(ctx context.Context, in service.CreatePostInput) (*models.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostAPI) ListPosts(ctx context.Context, in service.ListPostsInput) ([]models.Post, error) {
	args := m.Called(ctx, in)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostAPI) GetPost(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostAPI) UpdatePost(ctx context.Context, in service.UpdatePostInput) (*models.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostAPI) DeletePost(ctx context.Context, in service.DeletePostInput) error {
	return m.Called(ctx, in).Error(0)
}

// MockLikeAPI is a mock of the LikeAPI interface
type MockLikeAPI struct {
	mock.Mock
}

func (m *MockLikeAPI) ToggleLike(ctx context.Context, postID, userID string) (*models.ToggleResult, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToggleResult), args.Error(1)
}

func (m *MockLikeAPI) ListLikes(ctx context.Context, postID string) (*models.LikeSummary, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeSummary), args.Error(1)
}

// asUser stands in for the auth middleware.
func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func TestPostHandler_Create(t *testing.T) {
	mockSvc := new(MockPostAPI)
	h := &postHandler{svc: mockSvc}
	app := fiber.New()
	app.Post("/posts", asUser("alice"), h.Create)

	mockSvc.On("CreatePost", mock.Anything, service.CreatePostInput{
		AuthorID: "alice", Title: "Hi", Content: "Hello world",
	}).Return(&models.Post{ID: "p1", Title: "Hi", Content: "Hello world", Author: models.User{ID: "alice"}}, nil)
	mockSvc.On("CreatePost", mock.Anything, service.CreatePostInput{AuthorID: "alice"}).
		Return(nil, models.NewValidationError("Title is required"))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"success", `{"title":"Hi","content":"Hello world"}`, http.StatusCreated, `"id":"p1"`},
		{"missing fields", `{}`, http.StatusBadRequest, `"code":"VALIDATION_ERROR"`},
		{"malformed json", `{"title":`, http.StatusBadRequest, `"Invalid request body"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/posts", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, body, tt.wantBody)
		})
	}
}

func TestPostHandler_UpdateFieldPresence(t *testing.T) {
	mockSvc := new(MockPostAPI)
	h := &postHandler{svc: mockSvc}
	app := fiber.New()
	app.Put("/posts/:id", asUser("alice"), h.Update)

	var got service.UpdatePostInput
	mockSvc.On("UpdatePost", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(service.UpdatePostInput) }).
		Return(&models.Post{ID: "p1"}, nil)

	status, _ := doJSON(t, app, http.MethodPut, "/posts/p1", `{"title":"New","content":null,"imageUrl":""}`)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, "p1", got.PostID)
	require.NotNil(t, got.Fields.Title)
	assert.Equal(t, "New", *got.Fields.Title)
	assert.Nil(t, got.Fields.Content, "null counts as omitted")
	require.NotNil(t, got.Fields.ImageURL, "empty image url is supplied")
	assert.Equal(t, "", *got.Fields.ImageURL)
}

func TestPostHandler_ErrorMapping(t *testing.T) {
	mockSvc := new(MockPostAPI)
	h := &postHandler{svc: mockSvc}
	app := fiber.New()
	app.Get("/posts/:id", h.Get)
	app.Delete("/posts/:id", asUser("bob"), h.Delete)

	mockSvc.On("GetPost", mock.Anything, "missing").Return(nil, models.NewNotFoundError("Post"))
	mockSvc.On("DeletePost", mock.Anything, service.DeletePostInput{UserID: "bob", PostID: "p1"}).
		Return(models.NewForbiddenError("Not authorized"))
	mockSvc.On("DeletePost", mock.Anything, service.DeletePostInput{UserID: "bob", PostID: "p2"}).
		Return(nil)

	status, body := doJSON(t, app, http.MethodGet, "/posts/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"message":"Post not found","code":"NOT_FOUND"}`, body)

	status, body = doJSON(t, app, http.MethodDelete, "/posts/p1", "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body, "Not authorized")

	status, body = doJSON(t, app, http.MethodDelete, "/posts/p2", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Post deleted"}`, body)

	mockSvc.AssertExpectations(t)
}

func TestPostHandler_ListPagination(t *testing.T) {
	mockSvc := new(MockPostAPI)
	h := &postHandler{svc: mockSvc}
	app := fiber.New()
	app.Get("/posts", h.List)

	mockSvc.On("ListPosts", mock.Anything, service.ListPostsInput{}).Return([]models.Post{}, nil)
	mockSvc.On("ListPosts", mock.Anything, service.ListPostsInput{Limit: 100, Offset: 5}).Return([]models.Post{{ID: "p1"}}, nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{"no paging returns everything", "", http.StatusOK, `[]`},
		{"limit is capped", "?limit=1000&offset=5", http.StatusOK, `"id":"p1"`},
		{"bad limit", "?limit=abc", http.StatusBadRequest, `"code":"VALIDATION_ERROR"`},
		{"negative offset", "?offset=-1", http.StatusBadRequest, `"code":"VALIDATION_ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodGet, "/posts"+tt.query, "")
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, body, tt.wantBody)
		})
	}
}

func TestLikeHandler(t *testing.T) {
	mockSvc := new(MockLikeAPI)
	h := &likeHandler{svc: mockSvc}
	app := fiber.New()
	app.Get("/likes/:postId", h.List)
	app.Post("/likes/:postId", asUser("alice"), h.Toggle)

	mockSvc.On("ToggleLike", mock.Anything, "p1", "alice").Return(&models.ToggleResult{Liked: true, Message: "Post liked"}, nil)
	mockSvc.On("ToggleLike", mock.Anything, "nope", "alice").Return(nil, models.NewNotFoundError("Post"))
	mockSvc.On("ListLikes", mock.Anything, "p1").Return(&models.LikeSummary{Count: 1, Users: []models.User{{ID: "alice", Username: "alice"}}}, nil)

	status, body := doJSON(t, app, http.MethodPost, "/likes/p1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"liked":true,"message":"Post liked"}`, body)

	status, _ = doJSON(t, app, http.MethodPost, "/likes/nope", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = doJSON(t, app, http.MethodGet, "/likes/p1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"count":1,"users":[{"id":"alice","username":"alice","email":""}]}`, body)
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var limit, offset int
	var perr error
	app.Get("/", func(c *fiber.Ctx) error {
		limit, offset, perr = parsePagination(c)
		return nil
	})

	_, _ = doJSON(t, app, http.MethodGet, "/?limit=10&offset=20", "")
	require.NoError(t, perr)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	_, _ = doJSON(t, app, http.MethodGet, "/?offset=x", "")
	assert.True(t, models.IsCode(perr, models.CodeValidation))
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return io.ErrUnexpectedEOF })

	status, body := doJSON(t, app, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"message":"Server error","code":"INTERNAL_ERROR","error":"unexpected EOF"}`, body)

	status, body = doJSON(t, app, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, `"message":"Cannot GET /nowhere"`)
}

