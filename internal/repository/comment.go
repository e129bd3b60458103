package repository

import (
	"context"

	"blog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observe("create", "comments")()
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error, "Comment")
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	defer observe("get", "comments")()
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Comment")
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	defer observe("list_by_post", "comments")()
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "Comment")
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	defer observe("delete", "comments")()
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "Comment")
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment")
	}
	return nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	defer observe("delete_by_post", "comments")()
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{})
	return res.RowsAffected, translate(res.Error, "Comment")
}
