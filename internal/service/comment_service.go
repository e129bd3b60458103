package service

import (
	"context"

	"blog/internal/models"
	"blog/internal/notifications"
	"blog/internal/repository"
	"blog/internal/validation"
)

type CommentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	events      EventPublisher
}

type AddCommentInput struct {
	PostID   string
	AuthorID string
	Content  string
}

type DeleteCommentInput struct {
	UserID    string
	CommentID string
}

func NewCommentService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	events EventPublisher,
) *CommentService {
	return &CommentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		events:      publisherOrNoop(events),
	}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if err := validation.RequireText("Content", in.Content, validation.MaxCommentLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  in.Content,
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, notifications.EventCommentCreated, created)
	return created, nil
}

// ListComments returns the post's comments newest first. An unknown post has
// no comments.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if !comment.OwnedBy(in.UserID) {
		return models.NewForbiddenError("Not authorized")
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return err
	}
	s.events.Publish(ctx, notifications.EventCommentDeleted, map[string]string{
		"id":     comment.ID,
		"postId": comment.PostID,
	})
	return nil
}
