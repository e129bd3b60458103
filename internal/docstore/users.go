package docstore

import (
	"context"
	"time"

	"blog/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observe("create", usersCollection)()
	if user.ID == "" {
		user.ID = models.NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, user)
	return translate(err, "User")
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "get", byID(id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "get_by_email", bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "get_by_username", bson.D{{Key: "username", Value: username}})
}

func (r *userRepository) findOne(ctx context.Context, op string, filter bson.D) (*models.User, error) {
	defer observe(op, usersCollection)()
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err, "User")
	}
	return &user, nil
}

// byIDs loads users keyed by ID. Unknown IDs are simply absent.
func (r *userRepository) byIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observe("get_many", usersCollection)()

	cur, err := r.coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, translate(err, "User")
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, translate(err, "User")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
