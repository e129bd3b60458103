// Package docstore implements the repository contracts on MongoDB.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/observability"
	"blog/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"
	likesCollection    = "likes"
)

var _ repository.Store = (*Store)(nil)

// Store is the MongoDB-backed repository.Store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users    *userRepository
	posts    *postRepository
	comments *commentRepository
	likes    *likeRepository
}

// Connect dials uri, verifies the connection and makes sure the indexes exist.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := New(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	middleware.Logger.Info("MongoDB connected successfully", slog.String("database", database))
	return s, nil
}

// New wraps an existing client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	users := &userRepository{coll: db.Collection(usersCollection)}
	return &Store{
		client:   client,
		db:       db,
		users:    users,
		posts:    &postRepository{coll: db.Collection(postsCollection), users: users},
		comments: &commentRepository{coll: db.Collection(commentsCollection), users: users},
		likes:    &likeRepository{coll: db.Collection(likesCollection), users: users},
	}
}

// EnsureIndexes creates the unique and lookup indexes. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "author", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		likesCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "post", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Users() repository.UserRepository       { return s.users }
func (s *Store) Posts() repository.PostRepository       { return s.posts }
func (s *Store) Comments() repository.CommentRepository { return s.comments }
func (s *Store) Likes() repository.LikeRepository       { return s.likes }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Integration tests use it for cleanup.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// translate maps driver errors onto AppErrors for resource.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.NewNotFoundError(resource)
	case mongo.IsDuplicateKeyError(err):
		return models.NewConflictError(fmt.Sprintf("%s already exists", resource))
	default:
		return fmt.Errorf("%s collection: %w", resource, err)
	}
}

func observe(operation, collection string) func() {
	return observability.TrackQuery(operation, collection)
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}
