package repository

import (
	"context"

	"blog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Add inserts the pair unless it already exists; the unique index on
// (user_id, post_id) settles concurrent inserts.
func (r *likeRepository) Add(ctx context.Context, userID, postID string) (bool, error) {
	defer observe("add", "likes")()
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: userID, PostID: postID})
	if res.Error != nil {
		return false, translate(res.Error, "Like")
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Remove(ctx context.Context, userID, postID string) (bool, error) {
	defer observe("remove", "likes")()
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, translate(res.Error, "Like")
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Likers(ctx context.Context, postID string) ([]models.User, error) {
	defer observe("likers", "likes")()
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "Like")
	}
	return users, nil
}

func (r *likeRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	defer observe("delete_by_post", "likes")()
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Like{})
	return res.RowsAffected, translate(res.Error, "Like")
}
