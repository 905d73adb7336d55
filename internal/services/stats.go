package services

import (
	"context"

	"github.com/01moynul/storefront-api/internal/database"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers      int64                        `json:"total_users"`
	TotalProducts   int64                        `json:"total_products"`
	TotalReviews    int64                        `json:"total_reviews"`
	OrdersByStatus  map[models.OrderStatus]int64 `json:"orders_by_status"`
	Revenue         decimal.Decimal              `json:"revenue"`
	LowStockCount   int64                        `json:"low_stock_count"`
	OutOfStockCount int64                        `json:"out_of_stock_count"`
}

type StatsService struct {
	store *store.Store
}

// Dashboard runs the independent aggregate queries concurrently.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.store.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.store.CountProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalReviews, err = s.store.CountReviews(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.OrdersByStatus, err = s.store.OrderCounts(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Revenue, err = s.store.Revenue(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.LowStockCount, stats.OutOfStockCount, err = s.store.CountStockLevels(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Ping checks that the database answers.
func (s *StatsService) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.store.DB())
}
