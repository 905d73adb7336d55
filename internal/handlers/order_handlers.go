package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/response"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/gin-gonic/gin"
)

//
// --- Order Handlers ---
//

// CreateOrderRequest places an order. Only admins may place one for another user.
type CreateOrderRequest struct {
	UserID          uint               `json:"user_id"`
	Items           []StockItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	BillingAddress  string             `json:"billing_address"`
	Notes           string             `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,payment_status"`
}

type listOrdersQuery struct {
	pageQuery
	UserID uint   `form:"user_id"`
	Status string `form:"status" binding:"omitempty,order_status"`
}

// CreateOrder is the handler for POST /orders.
func (h *Handlers) CreateOrder(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateOrderRequest
	if !h.bind(c, &input) {
		return
	}

	// 2. --- Resolve the Customer ---
	who := actor(c)
	userID := who.UserID
	if input.UserID != 0 && input.UserID != who.UserID {
		if !who.IsAdmin() {
			h.fail(c, apperror.Authorization("only admins can place orders for other users"))
			return
		}
		userID = input.UserID
	}

	// 3. --- Place the Order ---
	order, err := h.Services.Orders.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		UserID:          userID,
		Items:           stockItems(input.Items),
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Notes:           input.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Order created successfully", order)
}

// ListOrders is the handler for GET /orders. Customers only see their own orders.
func (h *Handlers) ListOrders(c *gin.Context) {
	var q listOrdersQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := store.OrderFilter{UserID: q.UserID, Status: models.OrderStatus(q.Status)}
	if who := actor(c); !who.IsAdmin() {
		filter.UserID = who.UserID
	}
	h.listOrders(c, filter, q.pagination())
}

// ListUserOrders is the handler for GET /orders/user/:userId.
func (h *Handlers) ListUserOrders(c *gin.Context) {
	userID, err := idParam(c, "userId")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := requireOwner(actor(c), userID); err != nil {
		h.fail(c, err)
		return
	}
	var q listOrdersQuery
	if !h.bindQuery(c, &q) {
		return
	}
	h.listOrders(c, store.OrderFilter{UserID: userID, Status: models.OrderStatus(q.Status)}, q.pagination())
}

func (h *Handlers) listOrders(c *gin.Context, filter store.OrderFilter, p store.Pagination) {
	page, err := h.Services.Orders.ListOrders(c.Request.Context(), filter, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, page)
}

// loadOwnedOrder fetches the order in the path and checks the caller may see it.
func (h *Handlers) loadOwnedOrder(c *gin.Context) (*models.Order, bool) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	order, err := h.Services.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if err := requireOwner(actor(c), order.UserID); err != nil {
		h.fail(c, err)
		return nil, false
	}
	return order, true
}

// GetOrder is the handler for GET /orders/:id.
func (h *Handlers) GetOrder(c *gin.Context) {
	order, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}
	response.OK(c, http.StatusOK, order)
}

// UpdateOrderStatus is the handler for PUT /orders/:id/status (admin).
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input UpdateOrderStatusRequest
	if !h.bind(c, &input) {
		return
	}
	order, err := h.Services.Orders.UpdateOrderStatus(c.Request.Context(), id, models.OrderStatus(input.Status))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Order status updated successfully", order)
}

// UpdatePaymentStatus is the handler for PUT /orders/:id/payment-status (admin).
func (h *Handlers) UpdatePaymentStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input UpdatePaymentStatusRequest
	if !h.bind(c, &input) {
		return
	}
	order, err := h.Services.Orders.UpdatePaymentStatus(c.Request.Context(), id, models.PaymentStatus(input.PaymentStatus))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Payment status updated successfully", order)
}

// CancelOrder is the handler for DELETE /orders/:id. Stock is released.
func (h *Handlers) CancelOrder(c *gin.Context) {
	order, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}
	cancelled, err := h.Services.Orders.CancelOrder(c.Request.Context(), order.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Order cancelled successfully", cancelled)
}
