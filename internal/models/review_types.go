package models

import "time"

// Review is the model for the 'reviews' table. One per (product, user).
type Review struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	ProductID          uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_reviews_product_user"`
	UserID             uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_product_user;index"`
	Rating             int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment            string    `json:"comment" gorm:"type:text"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase" gorm:"not null"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User    *User    `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// RatingSummary aggregates the reviews of one product.
type RatingSummary struct {
	AverageRating float64     `json:"average_rating"`
	ReviewCount   int64       `json:"review_count"`
	Distribution  map[int]int `json:"distribution"`
}
