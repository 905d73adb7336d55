package store

import (
	"context"
	"math"

	"github.com/01moynul/storefront-api/internal/models"
)

// ReviewFilter narrows review listings. Zero values mean no filter.
type ReviewFilter struct {
	ProductID uint
	UserID    uint
	Rating    int
}

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	return translate(s.conn(ctx).Omit("Product", "User").Create(r).Error, "review")
}

func (s *Store) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var r models.Review
	if err := s.conn(ctx).Preload("User").First(&r, id).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &r, nil
}

// ReviewExists reports whether the user already reviewed the product.
func (s *Store) ReviewExists(ctx context.Context, productID, userID uint) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) ListReviews(ctx context.Context, f ReviewFilter, p Pagination) (*Page[models.Review], error) {
	q := s.conn(ctx).Model(&models.Review{})
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Rating != 0 {
		q = q.Where("rating = ?", f.Rating)
	}
	page, err := paginate[models.Review](q, p, "created_at DESC, id DESC", "User")
	return page, translate(err, "review")
}

func (s *Store) UpdateReview(ctx context.Context, r *models.Review, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Model(r).Omit("Product", "User").Updates(fields).Error, "review")
}

func (s *Store) DeleteReview(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return translate(res.Error, "review")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "review")
	}
	return nil
}

// RatingAggregate rescans the product's reviews. The average is rounded to two places.
func (s *Store) RatingAggregate(ctx context.Context, productID uint) (float64, int, error) {
	var (
		avg   float64
		count int64
	)
	err := s.conn(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0), COUNT(*)").
		Where("product_id = ?", productID).
		Row().Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return math.Round(avg*100) / 100, int(count), nil
}

// RatingDistribution counts reviews per star value, every star from 1 to 5 present.
func (s *Store) RatingDistribution(ctx context.Context, productID uint) (map[int]int, error) {
	var rows []struct {
		Rating int
		Count  int
	}
	err := s.conn(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range rows {
		dist[r.Rating] = r.Count
	}
	return dist, nil
}
