// Package service holds the blog's business rules: validation, existence and
// ownership gates, caching and event publication.
package service

import (
	"context"
	"log/slog"

	"blog/internal/cache"
	"blog/internal/featureflags"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/notifications"
	"blog/internal/repository"
	"blog/internal/validation"
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	flags       *featureflags.Manager
	events      EventPublisher
}

type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
	ImageURL string
}

// ListPostsInput pages the post list. A non-positive Limit returns every post.
type ListPostsInput struct {
	Limit  int
	Offset int
}

type UpdatePostInput struct {
	UserID string
	PostID string
	Fields models.PostUpdate
}

type DeletePostInput struct {
	UserID string
	PostID string
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	flags *featureflags.Manager,
	events EventPublisher,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		flags:       flags,
		events:      publisherOrNoop(events),
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.RequireText("Title", in.Title, validation.MaxTitleLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.RequireText("Content", in.Content, validation.MaxContentLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		AuthorID: in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePostsList(ctx)

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, notifications.EventPostCreated, created)
	return created, nil
}

// ListPosts returns posts newest first, served from the list cache when warm.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.Post, error) {
	if in.Limit < 0 || in.Offset < 0 {
		return nil, models.NewValidationError("limit and offset must not be negative")
	}

	var posts []models.Post
	key := cache.PostsListKey(ctx, in.Limit, in.Offset)
	err := cache.Aside(ctx, key, &posts, cache.ListTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.postRepo.List(ctx, in.Limit, in.Offset)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	for i := range posts {
		posts[i].AuthorID = posts[i].Author.ID
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post *models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		var fetchErr error
		post, fetchErr = s.postRepo.GetByID(ctx, id)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post")
	}
	post.AuthorID = post.Author.ID
	return post, nil
}

// UpdatePost applies the supplied fields. Only the author may update a post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(in.UserID) {
		return nil, models.NewForbiddenError("Not authorized")
	}

	in.Fields.Apply(post)
	if err := validation.OptionalText("Title", post.Title, validation.MaxTitleLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.OptionalText("Content", post.Content, validation.MaxContentLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, post.ID)
	s.events.Publish(ctx, notifications.EventPostUpdated, post)
	return post, nil
}

// DeletePost removes a post owned by the requester. With the cascade_deletes
// flag on, its comments and likes go too. The flag is a global switch, so a
// percentage rollout below 100% never cascades.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !post.OwnedBy(in.UserID) {
		return models.NewForbiddenError("Not authorized")
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)

	if s.flags.Enabled(featureflags.CascadeDeletes, "") {
		s.cascade(ctx, post.ID)
	}

	s.events.Publish(ctx, notifications.EventPostDeleted, map[string]string{"id": post.ID})
	return nil
}

func (s *PostService) cascade(ctx context.Context, postID string) {
	comments, err := s.commentRepo.DeleteByPost(ctx, postID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to delete comments of deleted post",
			slog.String("post_id", postID), slog.String("error", err.Error()))
	}
	likes, err := s.likeRepo.DeleteByPost(ctx, postID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to delete likes of deleted post",
			slog.String("post_id", postID), slog.String("error", err.Error()))
	}
	middleware.Logger.InfoContext(ctx, "cascade delete",
		slog.String("post_id", postID),
		slog.Int64("comments", comments),
		slog.Int64("likes", likes),
	)
}
