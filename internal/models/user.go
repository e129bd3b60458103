// Package models contains the blog's domain types.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewID returns a fresh identifier for any entity. IDs are UUIDv7, so within
// one process they sort in creation order and break created_at ties.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// User is an account. Only id, username and email are ever serialized.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Username  string    `gorm:"uniqueIndex;size:30;not null" json:"username" bson:"username"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email" bson:"email"`
	Password  string    `gorm:"not null" json:"-" bson:"password"`
	CreatedAt time.Time `json:"-" bson:"createdAt"`
}

// BeforeCreate assigns an ID when the caller did not.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}
