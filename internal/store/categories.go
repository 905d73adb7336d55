package store

import (
	"context"

	"github.com/01moynul/storefront-api/internal/models"
)

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.conn(ctx).Create(c).Error, "category")
}

func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.conn(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	categories := []models.Category{}
	q := s.conn(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&categories).Error; err != nil {
		return nil, translate(err, "category")
	}
	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Model(c).Updates(fields).Error, "category")
}

func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "category")
	}
	return nil
}

// DetachCategory clears category_id on the category's products.
func (s *Store) DetachCategory(ctx context.Context, id uint) error {
	return s.conn(ctx).Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error
}

func (s *Store) CountProductsInCategory(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}
