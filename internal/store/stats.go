package store

import (
	"context"

	"github.com/01moynul/storefront-api/internal/models"
)

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Product{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (s *Store) CountReviews(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Review{}).Count(&n).Error
	return n, err
}
