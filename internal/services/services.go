// Package services holds the business workflows: accounts, catalog, inventory, orders and reviews.
// Every workflow entry point that writes more than one row runs in a single transaction.
package services

import (
	"strings"

	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"go.uber.org/zap"
)

// Services bundles every workflow so the HTTP layer takes one dependency.
type Services struct {
	Users      *UserService
	Categories *CategoryService
	Products   *ProductService
	Inventory  *InventoryService
	Orders     *OrderService
	Reviews    *ReviewService
	Stats      *StatsService
}

func New(st *store.Store, log *zap.Logger) *Services {
	return &Services{
		Users:      &UserService{store: st, log: log.Named("users")},
		Categories: &CategoryService{store: st},
		Products:   &ProductService{store: st, log: log.Named("products")},
		Inventory:  &InventoryService{store: st, log: log.Named("inventory")},
		Orders:     &OrderService{store: st, log: log.Named("orders")},
		Reviews:    &ReviewService{store: st, log: log.Named("reviews")},
		Stats:      &StatsService{store: st},
	}
}

// Actor is the authenticated caller of a workflow.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// fieldErrors collects per-field validation messages.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
