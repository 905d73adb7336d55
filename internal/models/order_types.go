package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus is tracked independently of the fulfilment state.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentPaid:    {PaymentRefunded},
	PaymentFailed:  {PaymentPaid},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable is true for the states that still hold reserved stock.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderConfirmed
}

// CountsAsPurchase reports whether an order in this state proves the user bought its items.
func (s OrderStatus) CountsAsPurchase() bool {
	return s == OrderConfirmed || s == OrderShipped || s == OrderDelivered
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PurchaseStatuses lists the order states counted as a completed purchase.
func PurchaseStatuses() []OrderStatus {
	return []OrderStatus{OrderConfirmed, OrderShipped, OrderDelivered}
}

// Order is the model for the 'orders' table
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"order_number" gorm:"size:50;not null;uniqueIndex"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	Status          OrderStatus     `json:"status" gorm:"size:20;not null;index;check:status IN ('pending','confirmed','shipped','delivered','cancelled')"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"size:20;not null;check:payment_status IN ('pending','paid','failed','refunded')"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null;check:total_amount >= 0"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:text;not null"`
	BillingAddress  string          `json:"billing_address" gorm:"type:text"`
	Notes           string          `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time       `json:"updated_at"`

	User  *User       `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Items []OrderItem `json:"items,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// OrderItem is the model for the 'order_items' table.
// UnitPrice is the product price at the time of purchase.
type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	ProductID  uint            `json:"product_id" gorm:"not null;index"`
	Quantity   int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null;check:unit_price >= 0"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null;check:total_price >= 0"`
	CreatedAt  time.Time       `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

// BeforeCreate validates the line and derives its total.
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.Quantity <= 0 {
		return fmt.Errorf("order item quantity must be positive, got %d", oi.Quantity)
	}
	if oi.UnitPrice.IsNegative() {
		return fmt.Errorf("order item unit price cannot be negative")
	}
	oi.TotalPrice = oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
	return nil
}
