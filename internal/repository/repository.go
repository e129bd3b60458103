// Package repository defines the persistence contracts and their GORM implementation.
package repository

import (
	"context"

	"blog/internal/models"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// PostRepository defines persistence operations for posts. Reads resolve the author.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List returns posts newest first. A non-positive limit returns every post.
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines persistence operations for comments. Reads resolve the author.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByPost returns the post's comments newest first.
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

// LikeRepository stores (user, post) like pairs. Add and Remove are idempotent
// and report whether they changed anything.
type LikeRepository interface {
	Add(ctx context.Context, userID, postID string) (bool, error)
	Remove(ctx context.Context, userID, postID string) (bool, error)
	// Likers returns the users who liked the post, oldest like first.
	Likers(ctx context.Context, postID string) ([]models.User, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

// Store groups the repositories of one backend.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	Likes() LikeRepository
	Ping(ctx context.Context) error
	Close() error
}
