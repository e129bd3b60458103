package models

import (
	"time"

	"gorm.io/gorm"
)

// Like records that a user liked a post. At most one per (user, post).
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_user_post" json:"user" bson:"user"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_user_post;index" json:"post" bson:"post"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	return nil
}

// LikeSummary is the public view of a post's likes.
type LikeSummary struct {
	Count int    `json:"count"`
	Users []User `json:"users"`
}

// ToggleResult reports the state a like toggle ended in.
type ToggleResult struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}
