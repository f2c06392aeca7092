package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply to a post or to another comment of the same post.
type Comment struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID      string    `gorm:"type:uuid;not null;index:idx_comments_post_created,priority:1" json:"postId"`
	Post        *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	ParentID    *string   `gorm:"type:uuid;index" json:"parentId"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedByID *string   `gorm:"type:uuid;index" json:"createdById"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"createdBy,omitempty"`
	CreatedAt   time.Time `gorm:"index:idx_comments_post_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
