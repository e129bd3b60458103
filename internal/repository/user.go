package repository

import (
	"context"

	"blog/internal/models"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observe("create", "users")()
	return translate(r.db.WithContext(ctx).Create(user).Error, "User")
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "get", "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "get_by_email", "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "get_by_username", "username = ?", username)
}

func (r *userRepository) first(ctx context.Context, op, query string, arg string) (*models.User, error) {
	defer observe(op, "users")()
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &user, nil
}
