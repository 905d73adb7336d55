package store

import (
	"context"

	"github.com/01moynul/storefront-api/internal/models"
	"gorm.io/gorm"
)

const inventoryColumns = "inventories.*, products.name AS product_name"

func (s *Store) CreateInventory(ctx context.Context, inv *models.Inventory) error {
	return translate(s.conn(ctx).Create(inv).Error, "inventory")
}

func (s *Store) GetInventory(ctx context.Context, productID uint) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.conn(ctx).Table("inventories").Select(inventoryColumns).
		Joins("JOIN products ON products.id = inventories.product_id").
		Where("inventories.product_id = ?", productID).
		Take(&inv).Error
	if err != nil {
		return nil, translate(err, "inventory")
	}
	return &inv, nil
}

// ListInventory pages over all inventory rows, optionally filtered by stock status.
func (s *Store) ListInventory(ctx context.Context, status string, p Pagination) (*Page[models.Inventory], error) {
	q := s.inventoryQuery(ctx)
	switch status {
	case models.StockOutOfStock:
		q = q.Where("inventories.quantity = 0")
	case models.StockLow:
		q = q.Where("inventories.quantity > 0 AND inventories.quantity <= inventories.min_stock")
	case models.StockAvailable:
		q = q.Where("inventories.quantity > inventories.min_stock")
	}
	page, err := paginate[models.Inventory](q, p, "inventories.product_id ASC")
	return page, translate(err, "inventory")
}

// LowStock returns every row at or below its reorder threshold, out of stock rows included.
func (s *Store) LowStock(ctx context.Context) ([]models.Inventory, error) {
	items := []models.Inventory{}
	err := s.inventoryQuery(ctx).
		Where("inventories.quantity <= inventories.min_stock").
		Order("inventories.quantity ASC").
		Find(&items).Error
	return items, translate(err, "inventory")
}

func (s *Store) OutOfStock(ctx context.Context) ([]models.Inventory, error) {
	items := []models.Inventory{}
	err := s.inventoryQuery(ctx).
		Where("inventories.quantity = 0").
		Order("inventories.product_id ASC").
		Find(&items).Error
	return items, translate(err, "inventory")
}

func (s *Store) inventoryQuery(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Model(&models.Inventory{}).Select(inventoryColumns).
		Joins("JOIN products ON products.id = inventories.product_id")
}

// UpdateInventory writes the given columns of one product's inventory row.
func (s *Store) UpdateInventory(ctx context.Context, productID uint, fields map[string]interface{}) error {
	res := s.conn(ctx).Model(&models.Inventory{}).Where("product_id = ?", productID).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "inventory")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "inventory")
	}
	return nil
}

// DecrementStock removes qty units only when that many are on hand.
// It reports false, without error, when the row holds fewer units.
func (s *Store) DecrementStock(ctx context.Context, productID uint, qty int) (bool, error) {
	res := s.conn(ctx).Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, translate(res.Error, "inventory")
	}
	return res.RowsAffected == 1, nil
}

// IncrementStock adds qty units back.
func (s *Store) IncrementStock(ctx context.Context, productID uint, qty int) error {
	res := s.conn(ctx).Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return translate(res.Error, "inventory")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "inventory")
	}
	return nil
}

// CountStockLevels returns the number of low stock and out of stock rows.
func (s *Store) CountStockLevels(ctx context.Context) (low, out int64, err error) {
	if err = s.conn(ctx).Model(&models.Inventory{}).Where("quantity > 0 AND quantity <= min_stock").Count(&low).Error; err != nil {
		return 0, 0, err
	}
	if err = s.conn(ctx).Model(&models.Inventory{}).Where("quantity = 0").Count(&out).Error; err != nil {
		return 0, 0, err
	}
	return low, out, nil
}
