package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateOrderInput is a validated order request.
type CreateOrderInput struct {
	UserID          uint
	Items           []StockItem
	ShippingAddress string
	BillingAddress  string
	Notes           string
}

type OrderService struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

func (s *OrderService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// newOrderNumber returns ORD-YYYYMMDD-XXXXXXXX.
func newOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), suffix)
}

// CreateOrder validates the request, prices it from current product prices and
// reserves stock. Either the order, its items and every decrement are written, or nothing is.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	// 1. --- Validate Input ---
	if blank(in.ShippingAddress) {
		return nil, apperror.Validation("shipping_address is required").
			WithDetails(fieldErrors{"shipping_address": "shipping_address is required"})
	}
	items, err := mergeItems(in.Items)
	if err != nil {
		return nil, err
	}
	billing := in.BillingAddress
	if blank(billing) {
		billing = in.ShippingAddress
	}

	var orderID uint
	err = s.store.Tx(ctx, func(tx *store.Store) error {
		// 2. --- Check the Customer ---
		user, err := tx.GetUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return apperror.BusinessLogic("user account is inactive")
		}

		// 3. --- Check Products & Stock ---
		report, products, err := checkAvailability(ctx, tx, items)
		if err != nil {
			return err
		}
		for _, a := range report.Items {
			if !a.found {
				return apperror.NotFound("product %d not found", a.ProductID)
			}
			if !a.active {
				return apperror.BusinessLogic("product %q is not available for sale", a.ProductName)
			}
		}
		if !report.AllAvailable {
			return insufficientStock(report)
		}

		// 4. --- Price the Order from Live Prices ---
		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			price := products[item.ProductID].Price
			qty := decimal.NewFromInt(int64(item.Quantity))
			total = total.Add(price.Mul(qty))
			lines = append(lines, models.OrderItem{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitPrice:  price,
				TotalPrice: price.Mul(qty),
			})
		}

		// 5. --- Insert Order & Items ---
		order := &models.Order{
			OrderNumber:     newOrderNumber(s.clock()),
			UserID:          user.ID,
			Status:          models.OrderPending,
			PaymentStatus:   models.PaymentPending,
			TotalAmount:     total,
			ShippingAddress: strings.TrimSpace(in.ShippingAddress),
			BillingAddress:  strings.TrimSpace(billing),
			Notes:           in.Notes,
			Items:           lines,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		// 6. --- Reserve Stock ---
		if _, err := reserve(ctx, tx, items); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("user_id", order.UserID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)))
	return order, nil
}

// UpdateOrderStatus moves an order along pending, confirmed, shipped, delivered.
// Cancellation goes through CancelOrder so stock is released.
// Confirming re-checks that each product is still active and stocked as a row; quantities
// are not re-counted because they were reserved when the order was placed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, apperror.Validation("invalid order status %q", next)
	}
	if next == models.OrderCancelled {
		return s.CancelOrder(ctx, orderID)
	}

	err := s.store.Tx(ctx, func(tx *store.Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return apperror.BusinessLogic("cannot change order status from %s to %s", order.Status, next)
		}

		if order.Status == models.OrderPending && next == models.OrderConfirmed {
			if err := revalidateLines(ctx, tx, order); err != nil {
				return err
			}
		}

		ok, err := tx.TransitionOrder(ctx, orderID, order.Status, next, nil)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Conflict("order %d was changed by another request", orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order status changed", zap.Uint("order_id", orderID), zap.String("status", string(next)))
	return s.store.GetOrder(ctx, orderID)
}

// revalidateLines checks that every line of a pending order can still be fulfilled.
// Stock was already taken at creation, so only product and inventory presence are checked here.
func revalidateLines(ctx context.Context, tx *store.Store, order *models.Order) error {
	ids := make([]uint, len(order.Items))
	for i, item := range order.Items {
		ids[i] = item.ProductID
	}
	products, err := tx.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	var problems []string
	for _, item := range order.Items {
		p, ok := products[item.ProductID]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("product %d no longer exists", item.ProductID))
		case !p.IsActive:
			problems = append(problems, fmt.Sprintf("%s is no longer available", p.Name))
		case p.Inventory == nil:
			problems = append(problems, fmt.Sprintf("%s has no inventory record", p.Name))
		}
	}
	if len(problems) > 0 {
		return apperror.BusinessLogic("order cannot be confirmed: %s", strings.Join(problems, "; ")).WithDetails(problems)
	}
	return nil
}

// CancelOrder cancels a pending or confirmed order, returning every line's quantity to stock
// and marking the payment refunded.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var released int
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		// 1. --- Load & Check State ---
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == models.OrderCancelled {
			return apperror.Conflict("order %s is already cancelled", order.OrderNumber)
		}
		if !order.Status.Cancellable() {
			return apperror.BusinessLogic("cannot cancel an order that is %s", order.Status)
		}

		// 2. --- Swap the Status ---
		ok, err := tx.TransitionOrder(ctx, orderID, order.Status, models.OrderCancelled,
			map[string]interface{}{"payment_status": models.PaymentRefunded})
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Conflict("order %d was changed by another request", orderID)
		}

		// 3. --- Release Stock ---
		items := make([]StockItem, len(order.Items))
		for i, line := range order.Items {
			items[i] = StockItem{ProductID: line.ProductID, Quantity: line.Quantity}
		}
		moved, err := release(ctx, tx, items)
		if err != nil {
			return err
		}
		released = len(moved)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order cancelled", zap.Uint("order_id", orderID), zap.Int("lines_released", released))
	return s.store.GetOrder(ctx, orderID)
}

// UpdatePaymentStatus applies a payment transition.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint, next models.PaymentStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, apperror.Validation("invalid payment status %q", next)
	}

	err := s.store.Tx(ctx, func(tx *store.Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.PaymentStatus.CanTransitionTo(next) {
			return apperror.BusinessLogic("cannot change payment status from %s to %s", order.PaymentStatus, next)
		}
		ok, err := tx.TransitionPayment(ctx, orderID, order.PaymentStatus, next)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Conflict("order %d was changed by another request", orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment status changed", zap.Uint("order_id", orderID), zap.String("payment_status", string(next)))
	return s.store.GetOrder(ctx, orderID)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, f store.OrderFilter, p store.Pagination) (*store.Page[models.Order], error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperror.Validation("invalid order status %q", f.Status)
	}
	return s.store.ListOrders(ctx, f, p)
}
