package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blog/internal/auth"
	"blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, string) (*models.Post, error)
	listFn    func(context.Context, int, int) ([]models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, p *models.Post) error { p.ID = "p1"; return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context, _, _ int) ([]models.Post, error) { return nil, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ string) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, string) (*models.Comment, error)
	listByPostFn   func(context.Context, string) ([]models.Comment, error)
	deleteFn       func(context.Context, string) error
	deleteByPostFn func(context.Context, string) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	return s.deleteByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:       func(_ context.Context, c *models.Comment) error { c.ID = "c1"; return nil },
		getByIDFn:      func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:   func(_ context.Context, _ string) ([]models.Comment, error) { return nil, nil },
		deleteFn:       func(_ context.Context, _ string) error { return nil },
		deleteByPostFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

// likeRepoStub is an in-memory repository.LikeRepository.
type likeRepoStub struct {
	mu             sync.Mutex
	pairs          map[[2]string]bool
	deleteByPostFn func(context.Context, string) (int64, error)
	err            error
}

func newLikeRepoStub() *likeRepoStub {
	return &likeRepoStub{
		pairs:          map[[2]string]bool{},
		deleteByPostFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

func (s *likeRepoStub) Add(_ context.Context, userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	k := [2]string{userID, postID}
	if s.pairs[k] {
		return false, nil
	}
	s.pairs[k] = true
	return true, nil
}

func (s *likeRepoStub) Remove(_ context.Context, userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	k := [2]string{userID, postID}
	if !s.pairs[k] {
		return false, nil
	}
	delete(s.pairs, k)
	return true, nil
}

func (s *likeRepoStub) Likers(_ context.Context, postID string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for k := range s.pairs {
		if k[1] == postID {
			out = append(out, models.User{ID: k[0]})
		}
	}
	return out, s.err
}

func (s *likeRepoStub) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	return s.deleteByPostFn(ctx, postID)
}

// userRepoStub is an in-memory repository.UserRepository.
type userRepoStub struct {
	byID     map[string]*models.User
	createFn func(context.Context, *models.User) error
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{byID: map[string]*models.User{}}
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, u)
	}
	u.ID = models.NewID()
	s.byID[u.ID] = u
	return nil
}

func (s *userRepoStub) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, models.NewNotFoundError("User")
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User")
}

func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User")
}

// tokenStub records issued and revoked tokens.
type tokenStub struct {
	issueErr  error
	revokeErr error
	revoked   []*auth.Claims
}

func (s *tokenStub) Issue(user *models.User) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}
	return "token-for-" + user.ID, nil
}

func (s *tokenStub) Revoke(_ context.Context, claims *auth.Claims) error {
	s.revoked = append(s.revoked, claims)
	return s.revokeErr
}

// recordingPublisher captures published event types.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeForbidden)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeNotFound)
}
