package store

import (
	"context"
	"time"

	"github.com/01moynul/storefront-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings. UserID zero means every user.
type OrderFilter struct {
	UserID uint
	Status models.OrderStatus
}

// CreateOrder inserts the order and its line items together.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(s.conn(ctx).Omit("User", "Items.Product").Create(o).Error, "order")
}

// GetOrder loads an order with its items and their products.
func (s *Store) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.conn(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		First(&o, id).Error
	if err != nil {
		return nil, translate(err, "order")
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, f OrderFilter, p Pagination) (*Page[models.Order], error) {
	q := s.conn(ctx).Model(&models.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	page, err := paginate[models.Order](q, p, "created_at DESC, id DESC", "Items")
	return page, translate(err, "order")
}

// TransitionOrder moves the order from one status to another only if it is still in the
// expected status. It reports false when another writer got there first.
func (s *Store) TransitionOrder(ctx context.Context, id uint, from, to models.OrderStatus, extra map[string]interface{}) (bool, error) {
	fields := map[string]interface{}{"status": to}
	for k, v := range extra {
		fields[k] = v
	}
	res := s.conn(ctx).Model(&models.Order{}).Where("id = ? AND status = ?", id, from).Updates(fields)
	if res.Error != nil {
		return false, translate(res.Error, "order")
	}
	return res.RowsAffected == 1, nil
}

// TransitionPayment is the payment_status counterpart of TransitionOrder.
func (s *Store) TransitionPayment(ctx context.Context, id uint, from, to models.PaymentStatus) (bool, error) {
	res := s.conn(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	if res.Error != nil {
		return false, translate(res.Error, "order")
	}
	return res.RowsAffected == 1, nil
}

// StalePendingOrderIDs returns pending orders created before the cutoff.
func (s *Store) StalePendingOrderIDs(ctx context.Context, before time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderPending, before).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// HasPurchased reports whether the user has an order past pending that contains the product.
func (s *Store) HasPurchased(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status IN ?",
			userID, productID, models.PurchaseStatuses()).
		Count(&n).Error
	return n > 0, err
}

// OrderCounts groups orders by status.
func (s *Store) OrderCounts(ctx context.Context) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := s.conn(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// Revenue sums paid orders that were not cancelled.
func (s *Store) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.conn(ctx).Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("payment_status = ? AND status <> ?", models.PaymentPaid, models.OrderCancelled).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
