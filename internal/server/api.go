package server

import (
	"context"

	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/service"
)

// The handlers depend on these instead of the concrete services so they can
// be tested against mocks.

type PostAPI interface {
	CreatePost(ctx context.Context, in service.CreatePostInput) (*models.Post, error)
	ListPosts(ctx context.Context, in service.ListPostsInput) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, in service.UpdatePostInput) (*models.Post, error)
	DeletePost(ctx context.Context, in service.DeletePostInput) error
}

type CommentAPI interface {
	AddComment(ctx context.Context, in service.AddCommentInput) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, in service.DeleteCommentInput) error
}

type LikeAPI interface {
	ToggleLike(ctx context.Context, postID, userID string) (*models.ToggleResult, error)
	ListLikes(ctx context.Context, postID string) (*models.LikeSummary, error)
}

type UserAPI interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID string) (*models.User, error)
}

var (
	_ PostAPI    = (*service.PostService)(nil)
	_ CommentAPI = (*service.CommentService)(nil)
	_ LikeAPI    = (*service.LikeService)(nil)
	_ UserAPI    = (*service.UserService)(nil)
)
