package docstore

import (
	"context"
	"time"

	"blog/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type commentRepository struct {
	coll  *mongo.Collection
	users *userRepository
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observe("create", commentsCollection)()
	if comment.ID == "" {
		comment.ID = models.NewID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, comment)
	return translate(err, "Comment")
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	defer observe("get", commentsCollection)()
	var comment models.Comment
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&comment); err != nil {
		return nil, translate(err, "Comment")
	}
	comments := []models.Comment{comment}
	if err := r.resolveAuthors(ctx, comments); err != nil {
		return nil, err
	}
	return &comments[0], nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	defer observe("list_by_post", commentsCollection)()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "post", Value: postID}}, opts)
	if err != nil {
		return nil, translate(err, "Comment")
	}
	comments := []models.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, translate(err, "Comment")
	}
	if err := r.resolveAuthors(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	defer observe("delete", commentsCollection)()
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return translate(err, "Comment")
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Comment")
	}
	return nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	defer observe("delete_by_post", commentsCollection)()
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "post", Value: postID}})
	if err != nil {
		return 0, translate(err, "Comment")
	}
	return res.DeletedCount, nil
}

func (r *commentRepository) resolveAuthors(ctx context.Context, comments []models.Comment) error {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors, err := r.users.byIDs(ctx, uniq(ids))
	if err != nil {
		return err
	}
	for i := range comments {
		comments[i].Author = authors[comments[i].AuthorID]
	}
	return nil
}
