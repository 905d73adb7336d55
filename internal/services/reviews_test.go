package services

import (
	"context"
	"testing"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/01moynul/storefront-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRating(t *testing.T, svc *Services, id uint) (float64, int) {
	t.Helper()
	p, err := svc.Products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.AverageRating, p.ReviewCount
}

func TestRatingAggregateFollowsReviews(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Novel", "12.00", 5)

	var third *models.Review
	for i, rating := range []int{5, 4, 3} {
		u := testutil.CreateUser(t, db, []string{"r1", "r2", "r3"}[i], models.RoleCustomer)
		r, err := svc.Reviews.CreateReview(ctx, CreateReviewInput{ProductID: p.ID, UserID: u.ID, Rating: rating})
		require.NoError(t, err)
		third = r
	}

	avg, count := productRating(t, svc, p.ID)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 3, count)

	require.NoError(t, svc.Reviews.DeleteReview(ctx, Actor{UserID: third.UserID, Role: models.RoleCustomer}, third.ID))
	avg, count = productRating(t, svc, p.ID)
	assert.Equal(t, 4.5, avg)
	assert.Equal(t, 2, count)
}

func TestDuplicateReviewConflicts(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Kettle", "25.00", 5)
	u := testutil.CreateUser(t, db, "kim", models.RoleCustomer)

	first, err := svc.Reviews.CreateReview(ctx, CreateReviewInput{ProductID: p.ID, UserID: u.ID, Rating: 4, Comment: "good"})
	require.NoError(t, err)

	_, err = svc.Reviews.CreateReview(ctx, CreateReviewInput{ProductID: p.ID, UserID: u.ID, Rating: 1, Comment: "changed my mind"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	got, err := svc.Reviews.GetReview(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, "good", got.Comment)
	_, count := productRating(t, svc, p.ID)
	assert.Equal(t, 1, count)
}

func TestCreateReviewValidation(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Toaster", "30.00", 5)
	u := testutil.CreateUser(t, db, "lee", models.RoleCustomer)

	tests := []struct {
		name string
		in   CreateReviewInput
		kind apperror.Kind
	}{
		{"rating too low", CreateReviewInput{ProductID: p.ID, UserID: u.ID, Rating: 0}, apperror.KindValidation},
		{"rating too high", CreateReviewInput{ProductID: p.ID, UserID: u.ID, Rating: 6}, apperror.KindValidation},
		{"unknown product", CreateReviewInput{ProductID: 404, UserID: u.ID, Rating: 3}, apperror.KindNotFound},
		{"unknown user", CreateReviewInput{ProductID: p.ID, UserID: 404, Rating: 3}, apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Reviews.CreateReview(ctx, tt.in)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestVerifiedPurchase(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Blender", "60.00", 5)
	buyer := testutil.CreateUser(t, db, "mia", models.RoleCustomer)
	pendingBuyer := testutil.CreateUser(t, db, "ned", models.RoleCustomer)
	browser := testutil.CreateUser(t, db, "oli", models.RoleCustomer)

	order, err := svc.Orders.CreateOrder(ctx, CreateOrderInput{
		UserID: buyer.ID, Items: []StockItem{{ProductID: p.ID, Quantity: 1}}, ShippingAddress: "7 Way",
	})
	require.NoError(t, err)
	_, err = svc.Orders.UpdateOrderStatus(ctx, order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	_, err = svc.Orders.CreateOrder(ctx, CreateOrderInput{
		UserID: pendingBuyer.ID, Items: []StockItem{{ProductID: p.ID, Quantity: 1}}, ShippingAddress: "8 Way",
	})
	require.NoError(t, err)

	verified, err := svc.Reviews.CreateReview(ctx, CreateReviewInput{ProductID: p.ID, UserID: buyer.ID, Rating: 5})
	require.NoError(t, err)
	assert.True(t, verified.IsVerifiedPurchase)

	pending, err := svc.Reviews.CreateReview(ctx, CreateReviewInput{ProductID: p.ID, UserID: pendingBuyer.ID, Rating: 3})
	require.NoError(t, err)
	assert.False(t, pending.IsVerifiedPurchase)

	unverified, err := svc.Reviews.CreateReview(ctx, CreateReviewInput{ProductID: p.ID, UserID: browser.ID, Rating: 2})
	require.NoError(t, err)
	assert.False(t, unverified.IsVerifiedPurchase)

	_, err = svc.Orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	rating := 4
	updated, err := svc.Reviews.UpdateReview(ctx, Actor{UserID: buyer.ID, Role: models.RoleCustomer}, verified.ID, UpdateReviewInput{Rating: &rating})
	require.NoError(t, err)
	assert.True(t, updated.IsVerifiedPurchase, "flag is fixed at creation")
	assert.Equal(t, 4, updated.Rating)
}

func TestReviewOwnership(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Fan", "20.00", 5)
	author := testutil.CreateUser(t, db, "pat", models.RoleCustomer)
	other := testutil.CreateUser(t, db, "quin", models.RoleCustomer)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)

	r, err := svc.Reviews.CreateReview(ctx, CreateReviewInput{ProductID: p.ID, UserID: author.ID, Rating: 4})
	require.NoError(t, err)

	comment := "edited"
	_, err = svc.Reviews.UpdateReview(ctx, Actor{UserID: other.ID, Role: models.RoleCustomer}, r.ID, UpdateReviewInput{Comment: &comment})
	assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

	err = svc.Reviews.DeleteReview(ctx, Actor{UserID: other.ID, Role: models.RoleCustomer}, r.ID)
	assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

	bad := 9
	_, err = svc.Reviews.UpdateReview(ctx, Actor{UserID: author.ID, Role: models.RoleCustomer}, r.ID, UpdateReviewInput{Rating: &bad})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	require.NoError(t, svc.Reviews.DeleteReview(ctx, Actor{UserID: admin.ID, Role: models.RoleAdmin}, r.ID))
	avg, count := productRating(t, svc, p.ID)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, count)
}

func TestProductReviewsSummary(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Rug", "80.00", 5)
	for i, rating := range []int{5, 5, 2} {
		u := testutil.CreateUser(t, db, []string{"s1", "s2", "s3"}[i], models.RoleCustomer)
		_, err := svc.Reviews.CreateReview(ctx, CreateReviewInput{ProductID: p.ID, UserID: u.ID, Rating: rating})
		require.NoError(t, err)
	}

	res, err := svc.Reviews.ForProduct(ctx, p.ID, store.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Reviews.Total)
	assert.Len(t, res.Reviews.Items, 2)
	assert.Equal(t, 4.0, res.Summary.AverageRating)
	assert.Equal(t, map[int]int{1: 0, 2: 1, 3: 0, 4: 0, 5: 2}, res.Summary.Distribution)

	_, err = svc.Reviews.ForProduct(ctx, 404, store.Pagination{})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
