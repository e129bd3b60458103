package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a blog entry. Author is resolved on read.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Title     string    `gorm:"size:300;not null" json:"title" bson:"title"`
	Content   string    `gorm:"type:text;not null" json:"content" bson:"content"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"-" bson:"author"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author" bson:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// OwnedBy is the ownership gate for updates and deletes.
func (p *Post) OwnedBy(userID string) bool {
	return p.AuthorID == userID
}

// PostUpdate carries a partial update. Nil fields are left untouched.
type PostUpdate struct {
	Title    *string
	Content  *string
	ImageURL *string
}

// Apply copies the supplied fields onto p. Empty title or content is ignored;
// an empty image URL clears the image.
func (u PostUpdate) Apply(p *Post) {
	if u.Title != nil && *u.Title != "" {
		p.Title = *u.Title
	}
	if u.Content != nil && *u.Content != "" {
		p.Content = *u.Content
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
}
