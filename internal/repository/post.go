package repository

import (
	"context"
	"time"

	"blog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observe("create", "posts")()
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error, "Post")
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer observe("get", "posts")()
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "Post")
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	defer observe("list", "posts")()
	posts := []models.Post{}
	q := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, translate(err, "Post")
	}
	return posts, nil
}

// Update writes title, content and image URL. The image URL is written even
// when empty so it can be cleared.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observe("update", "posts")()
	post.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"title":      post.Title,
			"content":    post.Content,
			"image_url":  post.ImageURL,
			"updated_at": post.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error, "Post")
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	defer observe("delete", "posts")()
	res := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "Post")
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}
