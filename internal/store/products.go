package store

import (
	"context"

	"github.com/01moynul/storefront-api/internal/models"
	"github.com/shopspring/decimal"
)

// ProductFilter narrows the catalog listing.
type ProductFilter struct {
	CategoryID      *uint
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	InStock         *bool
	IncludeInactive bool
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.conn(ctx).Omit("Category", "Inventory").Create(p).Error, "product")
}

// GetProduct loads a product with its category and inventory.
func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.conn(ctx).Preload("Category").Preload("Inventory").First(&p, id).Error
	if err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

// GetProductsByIDs returns the products that exist, keyed by id.
func (s *Store) GetProductsByIDs(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	var products []models.Product
	if err := s.conn(ctx).Preload("Inventory").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, translate(err, "product")
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (s *Store) ListProducts(ctx context.Context, f ProductFilter, p Pagination) (*Page[models.Product], error) {
	q := s.conn(ctx).Model(&models.Product{})
	if !f.IncludeInactive {
		q = q.Where("products.is_active = ?", true)
	}
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("products.name LIKE ? OR products.description LIKE ? OR products.sku LIKE ?", like, like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", *f.MaxPrice)
	}
	if f.InStock != nil {
		q = q.Joins("LEFT JOIN inventories ON inventories.product_id = products.id")
		if *f.InStock {
			q = q.Where("inventories.quantity > 0")
		} else {
			q = q.Where("inventories.quantity IS NULL OR inventories.quantity = 0")
		}
	}
	page, err := paginate[models.Product](q, p, "products.id ASC", "Category", "Inventory")
	return page, translate(err, "product")
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Model(p).Omit("Category", "Inventory").Updates(fields).Error, "product")
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "product")
	}
	return nil
}

// CountOrderItemsForProduct counts order lines that reference the product.
func (s *Store) CountOrderItemsForProduct(ctx context.Context, productID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

// SetProductRating stores the recomputed review aggregate.
func (s *Store) SetProductRating(ctx context.Context, productID uint, average float64, count int) error {
	err := s.conn(ctx).Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{"average_rating": average, "review_count": count}).Error
	return translate(err, "product")
}
