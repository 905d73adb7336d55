package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"go.uber.org/zap"
)

// Adjustment modes accepted by AdjustStock.
const (
	AdjustAdd      = "add"
	AdjustSubtract = "subtract"
	AdjustSet      = "set"
)

// MaxQuantity caps a single stock movement and the merged quantity of one batch line.
const MaxQuantity = 1_000_000

// StockItem is one (product, quantity) pair of a batch stock operation.
type StockItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Availability is the stock check result for one product.
type Availability struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	InStock     bool   `json:"in_stock"`
	Message     string `json:"message"`

	found  bool
	active bool
}

// AvailabilityReport is the answer to a batch stock check.
type AvailabilityReport struct {
	AllAvailable bool           `json:"all_available"`
	Items        []Availability `json:"items"`
}

func (r *AvailabilityReport) unavailable() []Availability {
	var short []Availability
	for _, item := range r.Items {
		if !item.InStock {
			short = append(short, item)
		}
	}
	return short
}

// StockMovement reports the stock left after a reserve or release.
type StockMovement struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
	Remaining int  `json:"remaining"`
}

// InventoryUpdate holds the writable inventory columns. Nil fields are left alone.
type InventoryUpdate struct {
	Quantity *int
	MinStock *int
	MaxStock *int
}

type InventoryService struct {
	store *store.Store
	log   *zap.Logger
}

// mergeItems validates a batch and sums repeated product ids, keeping first-seen order.
func mergeItems(items []StockItem) ([]StockItem, error) {
	if len(items) == 0 {
		return nil, apperror.Validation("at least one item is required")
	}
	errs := fieldErrors{}
	index := make(map[uint]int, len(items))
	merged := make([]StockItem, 0, len(items))
	for i, item := range items {
		if item.ProductID == 0 {
			errs.add(fmt.Sprintf("items[%d].product_id", i), "product_id is required")
			continue
		}
		if item.Quantity <= 0 {
			errs.add(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than 0")
			continue
		}
		if item.Quantity > MaxQuantity {
			errs.add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("quantity cannot exceed %d", MaxQuantity))
			continue
		}
		if at, seen := index[item.ProductID]; seen {
			if merged[at].Quantity > MaxQuantity-item.Quantity {
				errs.add(fmt.Sprintf("items[%d].quantity", i),
					fmt.Sprintf("total quantity for product %d cannot exceed %d", item.ProductID, MaxQuantity))
				continue
			}
			merged[at].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	if len(errs) > 0 {
		return nil, apperror.Validation("invalid items").WithDetails(errs)
	}
	return merged, nil
}

func productIDs(items []StockItem) []uint {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}

// checkAvailability reads stock for already merged items through st, which may be a transaction.
// The loaded products are returned alongside the report.
func checkAvailability(ctx context.Context, st *store.Store, items []StockItem) (*AvailabilityReport, map[uint]*models.Product, error) {
	products, err := st.GetProductsByIDs(ctx, productIDs(items))
	if err != nil {
		return nil, nil, err
	}

	report := &AvailabilityReport{AllAvailable: true, Items: make([]Availability, 0, len(items))}
	for _, item := range items {
		a := Availability{ProductID: item.ProductID, Requested: item.Quantity}
		p, ok := products[item.ProductID]
		switch {
		case !ok:
			a.Message = "Product not found"
		case p.Inventory == nil:
			a.found, a.active = true, p.IsActive
			a.ProductName = p.Name
			a.Message = "No inventory record"
		default:
			a.found, a.active = true, p.IsActive
			a.ProductName = p.Name
			a.Available = p.Inventory.Quantity
			a.InStock = p.Inventory.Quantity >= item.Quantity
			if a.InStock {
				a.Message = "Available"
			} else {
				a.Message = fmt.Sprintf("Only %d available", p.Inventory.Quantity)
			}
		}
		if !a.InStock {
			report.AllAvailable = false
		}
		report.Items = append(report.Items, a)
	}
	return report, products, nil
}

// insufficientStock builds the error naming every product that cannot be served.
func insufficientStock(report *AvailabilityReport) error {
	short := report.unavailable()
	names := make([]string, 0, len(short))
	for _, a := range short {
		if a.ProductName != "" {
			names = append(names, a.ProductName)
		} else {
			names = append(names, fmt.Sprintf("product %d", a.ProductID))
		}
	}
	return apperror.BusinessLogic("insufficient stock for: %s", strings.Join(names, ", ")).WithDetails(short)
}

// CheckAvailability answers whether every item could be served right now. It writes nothing.
func (s *InventoryService) CheckAvailability(ctx context.Context, items []StockItem) (*AvailabilityReport, error) {
	merged, err := mergeItems(items)
	if err != nil {
		return nil, err
	}
	report, _, err := checkAvailability(ctx, s.store, merged)
	return report, err
}

// ReserveStock decrements every item or none of them.
func (s *InventoryService) ReserveStock(ctx context.Context, items []StockItem) ([]StockMovement, error) {
	merged, err := mergeItems(items)
	if err != nil {
		return nil, err
	}

	var moved []StockMovement
	err = s.store.Tx(ctx, func(tx *store.Store) error {
		// 1. --- Check the whole batch first ---
		report, _, err := checkAvailability(ctx, tx, merged)
		if err != nil {
			return err
		}
		for _, a := range report.Items {
			if !a.found {
				return apperror.NotFound("product %d not found", a.ProductID)
			}
		}
		if !report.AllAvailable {
			return insufficientStock(report)
		}

		// 2. --- Conditional decrements, any miss rolls back the batch ---
		moved, err = reserve(ctx, tx, merged)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock reserved", zap.Int("items", len(moved)))
	return moved, nil
}

// reserve applies conditional decrements for items already checked inside tx.
func reserve(ctx context.Context, tx *store.Store, items []StockItem) ([]StockMovement, error) {
	moved := make([]StockMovement, 0, len(items))
	for _, item := range items {
		ok, err := tx.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.BusinessLogic("insufficient stock for product %d", item.ProductID)
		}
		inv, err := tx.GetInventory(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		moved = append(moved, StockMovement{ProductID: item.ProductID, Quantity: item.Quantity, Remaining: inv.Quantity})
	}
	return moved, nil
}

// ReleaseStock puts quantities back, all in one transaction.
func (s *InventoryService) ReleaseStock(ctx context.Context, items []StockItem) ([]StockMovement, error) {
	merged, err := mergeItems(items)
	if err != nil {
		return nil, err
	}

	var moved []StockMovement
	err = s.store.Tx(ctx, func(tx *store.Store) error {
		moved, err = release(ctx, tx, merged)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock released", zap.Int("items", len(moved)))
	return moved, nil
}

func release(ctx context.Context, tx *store.Store, items []StockItem) ([]StockMovement, error) {
	moved := make([]StockMovement, 0, len(items))
	for _, item := range items {
		if err := tx.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
		inv, err := tx.GetInventory(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		moved = append(moved, StockMovement{ProductID: item.ProductID, Quantity: item.Quantity, Remaining: inv.Quantity})
	}
	return moved, nil
}

// AdjustStock applies an add, subtract or set to one product's quantity.
func (s *InventoryService) AdjustStock(ctx context.Context, productID uint, amount int, mode string) (*models.Inventory, error) {
	switch mode {
	case AdjustAdd, AdjustSubtract:
		if amount <= 0 {
			return nil, apperror.Validation("quantity must be greater than 0")
		}
	case AdjustSet:
		if amount < 0 {
			return nil, apperror.Validation("quantity cannot be negative")
		}
	default:
		return nil, apperror.Validation("invalid adjustment type %q, expected add, subtract or set", mode)
	}
	if amount > MaxQuantity {
		return nil, apperror.Validation("quantity cannot exceed %d", MaxQuantity)
	}

	var inv *models.Inventory
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		current, err := tx.GetInventory(ctx, productID)
		if err != nil {
			return err
		}

		switch mode {
		case AdjustAdd:
			if current.Quantity > MaxQuantity-amount {
				return apperror.BusinessLogic("adding %d would exceed the quantity limit of %d (current %d)", amount, MaxQuantity, current.Quantity)
			}
			err = tx.IncrementStock(ctx, productID, amount)
		case AdjustSubtract:
			if current.Quantity-amount < 0 {
				return apperror.BusinessLogic("insufficient stock: %d available, %d requested", current.Quantity, amount)
			}
			var ok bool
			ok, err = tx.DecrementStock(ctx, productID, amount)
			if err == nil && !ok {
				return apperror.BusinessLogic("insufficient stock for product %d", productID)
			}
		case AdjustSet:
			err = tx.UpdateInventory(ctx, productID, map[string]interface{}{"quantity": amount})
		}
		if err != nil {
			return err
		}

		inv, err = tx.GetInventory(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock adjusted",
		zap.Uint("product_id", productID),
		zap.String("mode", mode),
		zap.Int("amount", amount),
		zap.Int("quantity", inv.Quantity))
	return inv, nil
}

// AddStock restocks a product without going past its max_stock.
func (s *InventoryService) AddStock(ctx context.Context, productID uint, amount int) (*models.Inventory, error) {
	if amount <= 0 {
		return nil, apperror.Validation("quantity must be greater than 0")
	}
	if amount > MaxQuantity {
		return nil, apperror.Validation("quantity cannot exceed %d", MaxQuantity)
	}

	var inv *models.Inventory
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		current, err := tx.GetInventory(ctx, productID)
		if err != nil {
			return err
		}
		if amount > current.MaxStock-current.Quantity {
			return apperror.BusinessLogic("adding %d would exceed max stock of %d (current %d)", amount, current.MaxStock, current.Quantity)
		}
		if err := tx.IncrementStock(ctx, productID, amount); err != nil {
			return err
		}
		inv, err = tx.GetInventory(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateInventory rewrites quantity and thresholds, keeping max_stock above min_stock.
func (s *InventoryService) UpdateInventory(ctx context.Context, productID uint, in InventoryUpdate) (*models.Inventory, error) {
	var inv *models.Inventory
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		current, err := tx.GetInventory(ctx, productID)
		if err != nil {
			return err
		}

		next := *current
		fields := map[string]interface{}{}
		if in.Quantity != nil {
			next.Quantity = *in.Quantity
			fields["quantity"] = *in.Quantity
		}
		if in.MinStock != nil {
			next.MinStock = *in.MinStock
			fields["min_stock"] = *in.MinStock
		}
		if in.MaxStock != nil {
			next.MaxStock = *in.MaxStock
			fields["max_stock"] = *in.MaxStock
		}
		if err := next.Validate(); err != nil {
			return apperror.Validation("%s", err.Error())
		}
		if len(fields) == 0 {
			inv = current
			return nil
		}

		if err := tx.UpdateInventory(ctx, productID, fields); err != nil {
			return err
		}
		inv, err = tx.GetInventory(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InventoryService) GetByProduct(ctx context.Context, productID uint) (*models.Inventory, error) {
	return s.store.GetInventory(ctx, productID)
}

func (s *InventoryService) List(ctx context.Context, status string, p store.Pagination) (*store.Page[models.Inventory], error) {
	switch status {
	case "", models.StockAvailable, models.StockLow, models.StockOutOfStock:
	default:
		return nil, apperror.Validation("invalid stock status %q", status)
	}
	return s.store.ListInventory(ctx, status, p)
}

func (s *InventoryService) LowStock(ctx context.Context) ([]models.Inventory, error) {
	return s.store.LowStock(ctx)
}

func (s *InventoryService) OutOfStock(ctx context.Context) ([]models.Inventory, error) {
	return s.store.OutOfStock(ctx)
}
