package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to one post and one author.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Content   string    `gorm:"type:text;not null" json:"content" bson:"content"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"-" bson:"author"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author" bson:"-"`
	PostID    string    `gorm:"size:36;not null;index" json:"post" bson:"post"`
	CreatedAt time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

func (c *Comment) OwnedBy(userID string) bool {
	return c.AuthorID == userID
}
