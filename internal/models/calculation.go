package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Calculation is either a starting number (root) or an operation applied
// to a parent calculation's result.
type Calculation struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	RootID       string    `gorm:"type:uuid;not null;index" json:"rootId"`
	ParentID     *string   `gorm:"type:uuid;index" json:"parentId"`
	Operation    *string   `gorm:"size:16" json:"operation"`
	RightOperand *float64  `json:"rightOperand"`
	Result       float64   `gorm:"not null" json:"result"`
	CreatedByID  *string   `gorm:"type:uuid;index" json:"createdById"`
	CreatedBy    *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"createdBy,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the id and, for roots, points RootID at the row itself.
func (c *Calculation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.RootID == "" && c.ParentID == nil {
		c.RootID = c.ID
	}
	return nil
}

// IsRoot reports whether the calculation starts a chain.
func (c *Calculation) IsRoot() bool {
	return c.ParentID == nil
}
