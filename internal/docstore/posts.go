package docstore

import (
	"context"
	"time"

	"blog/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type postRepository struct {
	coll  *mongo.Collection
	users *userRepository
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observe("create", postsCollection)()
	now := time.Now().UTC()
	if post.ID == "" {
		post.ID = models.NewID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, post)
	return translate(err, "Post")
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer observe("get", postsCollection)()
	var post models.Post
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&post); err != nil {
		return nil, translate(err, "Post")
	}
	posts := []models.Post{post}
	if err := r.resolveAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	defer observe("list", postsCollection)()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, translate(err, "Post")
	}
	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, translate(err, "Post")
	}
	if err := r.resolveAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observe("update", postsCollection)()
	post.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, byID(post.ID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: post.Title},
		{Key: "content", Value: post.Content},
		{Key: "imageUrl", Value: post.ImageURL},
		{Key: "updatedAt", Value: post.UpdatedAt},
	}}})
	if err != nil {
		return translate(err, "Post")
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	defer observe("delete", postsCollection)()
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return translate(err, "Post")
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

func (r *postRepository) resolveAuthors(ctx context.Context, posts []models.Post) error {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	authors, err := r.users.byIDs(ctx, uniq(ids))
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].Author = authors[posts[i].AuthorID]
	}
	return nil
}
