package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category defines the struct for the 'categories' table
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Slug        string    `json:"slug" gorm:"size:120;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Not in the table, filled by the detail query.
	ProductCount int64 `json:"product_count,omitempty" gorm:"-"`
}

// BeforeCreate derives the slug from the name when none was given.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
