package repository

import (
	"context"
	"errors"
	"fmt"

	"blog/internal/database"
	"blog/internal/models"
	"blog/internal/observability"

	"gorm.io/gorm"
)

var _ Store = (*GormStore)(nil)

// GormStore is the relational Store (postgres in production, sqlite in tests).
type GormStore struct {
	db       *gorm.DB
	users    UserRepository
	posts    PostRepository
	comments CommentRepository
	likes    LikeRepository
}

// NewGormStore wires every GORM repository around db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		users:    NewUserRepository(db),
		posts:    NewPostRepository(db),
		comments: NewCommentRepository(db),
		likes:    NewLikeRepository(db),
	}
}

func (s *GormStore) Users() UserRepository       { return s.users }
func (s *GormStore) Posts() PostRepository       { return s.posts }
func (s *GormStore) Comments() CommentRepository { return s.comments }
func (s *GormStore) Likes() LikeRepository       { return s.likes }

// DB exposes the connection for migrations and seeding.
func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}

func (s *GormStore) Close() error {
	return database.Close(s.db)
}

// translate maps driver errors onto AppErrors for resource.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource)
	case database.IsUniqueViolation(err):
		return models.NewConflictError(fmt.Sprintf("%s already exists", resource))
	default:
		return fmt.Errorf("%s store: %w", resource, err)
	}
}

func observe(operation, table string) func() {
	return observability.TrackQuery(operation, table)
}
