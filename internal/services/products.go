package services

import (
	"context"
	"strings"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput is shared by create and update. Nil fields are left alone on update.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	SKU         *string
	CategoryID  *uint
	IsActive    *bool

	// Create only: the initial inventory row.
	Quantity *int
	MinStock *int
	MaxStock *int
}

type ProductService struct {
	store *store.Store
	log   *zap.Logger
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Create inserts the product and its inventory row together.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	// 1. --- Validate ---
	errs := fieldErrors{}
	if in.Name == nil || blank(*in.Name) {
		errs.add("name", "name is required")
	}
	if in.Price == nil {
		errs.add("price", "price is required")
	} else if in.Price.IsNegative() {
		errs.add("price", "price cannot be negative")
	}
	if len(errs) > 0 {
		return nil, apperror.Validation("invalid product").WithDetails(errs)
	}

	inv := &models.Inventory{
		MinStock: models.DefaultMinStock,
		MaxStock: models.DefaultMaxStock,
	}
	if in.Quantity != nil {
		inv.Quantity = *in.Quantity
	}
	if in.MinStock != nil {
		inv.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		inv.MaxStock = *in.MaxStock
	}
	if err := inv.Validate(); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}

	product := &models.Product{
		Name:       strings.TrimSpace(*in.Name),
		Price:      in.Price.Round(2),
		SKU:        normalizeSKU(in.SKU),
		CategoryID: in.CategoryID,
		IsActive:   true,
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	// 2. --- Insert Product & Inventory ---
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		if product.CategoryID != nil {
			if _, err := tx.GetCategory(ctx, *product.CategoryID); err != nil {
				return err
			}
		}
		if err := tx.CreateProduct(ctx, product); err != nil {
			return err
		}
		inv.ProductID = product.ID
		return tx.CreateInventory(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", zap.Uint("product_id", product.ID), zap.Int("quantity", inv.Quantity))
	return s.store.GetProduct(ctx, product.ID)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f store.ProductFilter, p store.Pagination) (*store.Page[models.Product], error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, apperror.Validation("min_price cannot exceed max_price")
	}
	return s.store.ListProducts(ctx, f, p)
}

// Update edits catalog fields. Price changes never touch existing order items.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if blank(*in.Name) {
			return nil, apperror.Validation("name cannot be empty")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperror.Validation("price cannot be negative")
		}
		fields["price"] = in.Price.Round(2)
	}
	if in.SKU != nil {
		fields["sku"] = normalizeSKU(in.SKU)
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			fields["category_id"] = nil
		} else {
			if _, err := s.store.GetCategory(ctx, *in.CategoryID); err != nil {
				return nil, err
			}
			fields["category_id"] = *in.CategoryID
		}
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if err := s.store.UpdateProduct(ctx, product, fields); err != nil {
		return nil, err
	}
	return s.store.GetProduct(ctx, id)
}

// Delete removes a product and its inventory. Products that appear on orders are kept.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetProduct(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountOrderItemsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict("product is referenced by %d order items, deactivate it instead", n)
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Uint("product_id", id))
	return nil
}
