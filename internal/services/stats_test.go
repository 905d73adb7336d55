package services

import (
	"context"
	"testing"
	"time"

	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/01moynul/storefront-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboard(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "ann", models.RoleCustomer)
	testutil.CreateUser(t, db, "boss", models.RoleAdmin)
	p := testutil.CreateProduct(t, db, "Plant", "15.00", 12)
	testutil.CreateProduct(t, db, "Seed", "1.00", 0)

	paid, err := svc.Orders.CreateOrder(ctx, CreateOrderInput{UserID: u.ID, Items: []StockItem{{ProductID: p.ID, Quantity: 2}}, ShippingAddress: "a"})
	require.NoError(t, err)
	_, err = svc.Orders.UpdatePaymentStatus(ctx, paid.ID, models.PaymentPaid)
	require.NoError(t, err)
	_, err = svc.Orders.CreateOrder(ctx, CreateOrderInput{UserID: u.ID, Items: []StockItem{{ProductID: p.ID, Quantity: 1}}, ShippingAddress: "b"})
	require.NoError(t, err)

	stats, err := svc.Stats.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.OrdersByStatus[models.OrderPending])
	assert.True(t, decimal.RequireFromString("30").Equal(stats.Revenue), "revenue %s", stats.Revenue)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(1), stats.OutOfStockCount)
}

func TestSweeperCancelsStalePendingOrders(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "cleo", models.RoleCustomer)
	p := testutil.CreateProduct(t, db, "Ticket", "50.00", 4)

	stale, err := svc.Orders.CreateOrder(ctx, CreateOrderInput{UserID: u.ID, Items: []StockItem{{ProductID: p.ID, Quantity: 2}}, ShippingAddress: "c"})
	require.NoError(t, err)
	fresh, err := svc.Orders.CreateOrder(ctx, CreateOrderInput{UserID: u.ID, Items: []StockItem{{ProductID: p.ID, Quantity: 1}}, ShippingAddress: "d"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-3*time.Hour)).Error)
	assert.Equal(t, 1, testutil.Stock(t, db, p.ID))

	sweeper := &Sweeper{
		Orders:   svc.Orders,
		Store:    store.New(db),
		TTL:      time.Hour,
		Interval: time.Minute,
		Log:      zap.NewNop(),
	}
	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, testutil.Stock(t, db, p.ID))

	got, err := svc.Orders.GetOrder(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
	got, err = svc.Orders.GetOrder(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)

	n, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSweeperStopsOnCancel(t *testing.T) {
	svc, db := newTestServices(t)
	sweeper := &Sweeper{Orders: svc.Orders, Store: store.New(db), TTL: time.Hour, Interval: time.Millisecond, Log: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
