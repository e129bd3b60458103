package docstore

import (
	"context"
	"time"

	"blog/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type likeRepository struct {
	coll  *mongo.Collection
	users *userRepository
}

// Add relies on the unique (user, post) index; a duplicate key means the like
// already exists.
func (r *likeRepository) Add(ctx context.Context, userID, postID string) (bool, error) {
	defer observe("add", likesCollection)()
	_, err := r.coll.InsertOne(ctx, models.Like{
		ID:        models.NewID(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "Like")
	}
	return true, nil
}

func (r *likeRepository) Remove(ctx context.Context, userID, postID string) (bool, error) {
	defer observe("remove", likesCollection)()
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "user", Value: userID}, {Key: "post", Value: postID}})
	if err != nil {
		return false, translate(err, "Like")
	}
	return res.DeletedCount > 0, nil
}

func (r *likeRepository) Likers(ctx context.Context, postID string) ([]models.User, error) {
	defer observe("likers", likesCollection)()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "post", Value: postID}}, opts)
	if err != nil {
		return nil, translate(err, "Like")
	}
	var likes []models.Like
	if err := cur.All(ctx, &likes); err != nil {
		return nil, translate(err, "Like")
	}

	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.UserID)
	}
	found, err := r.users.byIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(likes))
	for _, l := range likes {
		if u, ok := found[l.UserID]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *likeRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	defer observe("delete_by_post", likesCollection)()
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "post", Value: postID}})
	if err != nil {
		return 0, translate(err, "Like")
	}
	return res.DeletedCount, nil
}
