package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	StockAvailable  = "available"
	StockLow        = "low_stock"
	StockOutOfStock = "out_of_stock"

	DefaultMinStock = 10
	DefaultMaxStock = 1000
)

// Inventory is the model for the 'inventories' table (one row per product).
type Inventory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity >= 0"`
	MinStock  int       `json:"min_stock" gorm:"not null;check:min_stock >= 0"`
	MaxStock  int       `json:"max_stock" gorm:"not null;check:max_stock > min_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived on every read, never stored.
	StockStatus string `json:"stock_status" gorm:"-"`

	// Filled by list queries that join products.
	ProductName string `json:"product_name,omitempty" gorm:"->;-:migration"`
}

// Classify returns the stock state for the current quantity.
func (i *Inventory) Classify() string {
	switch {
	case i.Quantity == 0:
		return StockOutOfStock
	case i.Quantity <= i.MinStock:
		return StockLow
	default:
		return StockAvailable
	}
}

func (i *Inventory) IsOutOfStock() bool { return i.Quantity == 0 }

func (i *Inventory) IsLowStock() bool { return i.Quantity <= i.MinStock }

// Validate enforces the row invariants before a write.
func (i *Inventory) Validate() error {
	if i.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if i.MinStock < 0 {
		return fmt.Errorf("min_stock cannot be negative")
	}
	if i.MaxStock <= i.MinStock {
		return fmt.Errorf("max_stock (%d) must be greater than min_stock (%d)", i.MaxStock, i.MinStock)
	}
	return nil
}

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	return i.Validate()
}

func (i *Inventory) AfterFind(tx *gorm.DB) error {
	i.StockStatus = i.Classify()
	return nil
}
