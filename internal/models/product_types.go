package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
// Price uses decimal.Decimal so totals are exact; SKU is a pointer because it is optional and unique.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:200;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;check:price >= 0"`
	SKU         *string         `json:"sku,omitempty" gorm:"size:100;uniqueIndex"`
	CategoryID  *uint           `json:"category_id,omitempty" gorm:"index"`
	IsActive    bool            `json:"is_active" gorm:"not null"`

	// --- Rating aggregate, recomputed on every review write ---
	AverageRating float64 `json:"average_rating" gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount   int     `json:"review_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Category  *Category  `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Inventory *Inventory `json:"inventory,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
