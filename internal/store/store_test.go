package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/01moynul/storefront-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   store.Pagination
		want store.Pagination
	}{
		{"zero values", store.Pagination{}, store.Pagination{Page: 1, Limit: store.DefaultPageSize}},
		{"limit capped", store.Pagination{Page: 3, Limit: 500}, store.Pagination{Page: 3, Limit: store.MaxPageSize}},
		{"kept", store.Pagination{Page: 2, Limit: 10}, store.Pagination{Page: 2, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
	assert.Equal(t, 10, store.Pagination{Page: 2, Limit: 10}.Offset())
}

func TestDecrementStockIsConditional(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New(db)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Widget", "10.00", 5)

	ok, err := s.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, testutil.Stock(t, db, p.ID))

	ok, err = s.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, testutil.Stock(t, db, p.ID))

	require.NoError(t, s.IncrementStock(ctx, p.ID, 4))
	assert.Equal(t, 6, testutil.Stock(t, db, p.ID))
}

func TestInventoryStatusFilters(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New(db)
	ctx := context.Background()
	empty := testutil.CreateProduct(t, db, "Empty", "1.00", 0)
	low := testutil.CreateProduct(t, db, "Low", "1.00", 4)
	testutil.CreateProduct(t, db, "Plenty", "1.00", 400)

	out, err := s.OutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, empty.ID, out[0].ProductID)
	assert.Equal(t, "Empty", out[0].ProductName)
	assert.Equal(t, models.StockOutOfStock, out[0].StockStatus)

	lows, err := s.LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, lows, 2)

	page, err := s.ListInventory(ctx, models.StockLow, store.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, low.ID, page.Items[0].ProductID)
	assert.Equal(t, int64(1), page.Total)

	page, err = s.ListInventory(ctx, "", store.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestTransitionOrderCompareAndSwap(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "alice", models.RoleCustomer)
	o := &models.Order{
		OrderNumber:     "ORD-1",
		UserID:          u.ID,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		TotalAmount:     decimal.Zero,
		ShippingAddress: "1 Main St",
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	ok, err := s.TransitionOrder(ctx, o.ID, models.OrderPending, models.OrderCancelled, map[string]interface{}{"payment_status": models.PaymentRefunded})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.TransitionOrder(ctx, o.ID, models.OrderPending, models.OrderCancelled, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
	assert.Equal(t, models.PaymentRefunded, got.PaymentStatus)
}

func TestTranslateErrors(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "bob", models.RoleCustomer)

	_, err := s.GetUser(ctx, 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	dup := &models.User{Username: "bob", Email: "other@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	err = s.CreateUser(ctx, dup)
	assert.True(t, apperror.Is(err, apperror.KindConflict), "got %v", err)

	assert.False(t, store.IsDuplicate(errors.New("boom")))
}

func TestOrderItemTotalsAndPurchaseLookup(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "carol", models.RoleCustomer)
	p := testutil.CreateProduct(t, db, "Lamp", "12.50", 10)

	o := &models.Order{
		OrderNumber:     "ORD-2",
		UserID:          u.ID,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		TotalAmount:     decimal.RequireFromString("25.00"),
		ShippingAddress: "2 Side St",
		Items: []models.OrderItem{
			{ProductID: p.ID, Quantity: 2, UnitPrice: p.Price},
		},
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, decimal.RequireFromString("25").Equal(got.Items[0].TotalPrice))
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "Lamp", got.Items[0].Product.Name)

	bought, err := s.HasPurchased(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, bought, "pending orders do not count")

	_, err = s.TransitionOrder(ctx, o.ID, models.OrderPending, models.OrderConfirmed, nil)
	require.NoError(t, err)
	bought, err = s.HasPurchased(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, bought)
}

func TestRatingAggregate(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New(db)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Book", "5.00", 1)

	avg, count, err := s.RatingAggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, count)

	for i, rating := range []int{5, 4, 4} {
		u := testutil.CreateUser(t, db, []string{"u1", "u2", "u3"}[i], models.RoleCustomer)
		require.NoError(t, s.CreateReview(ctx, &models.Review{ProductID: p.ID, UserID: u.ID, Rating: rating}))
	}

	avg, count, err = s.RatingAggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.33, avg)
	assert.Equal(t, 3, count)

	dist, err := s.RatingDistribution(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 2, 5: 1}, dist)
}
