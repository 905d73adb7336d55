package handlers

import (
	"context"
	"net/http"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/response"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/gin-gonic/gin"
)

//
// --- Inventory Handlers ---
//

type StockItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=1000000"`
}

// StockBatchRequest is the body of reserve and release: either a batch of
// items or a bare quantity for the product in the path.
type StockBatchRequest struct {
	Items    []StockItemRequest `json:"items" binding:"omitempty,dive"`
	Quantity int                `json:"quantity" binding:"omitempty,min=1,max=1000000"`
}

type CheckAvailabilityRequest struct {
	Items []StockItemRequest `json:"items" binding:"required,min=1,dive"`
}

type AdjustStockRequest struct {
	Quantity int    `json:"quantity" binding:"min=0,max=1000000"`
	Type     string `json:"type" binding:"required,oneof=add subtract set"`
}

type AddStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=1000000"`
}

type UpdateInventoryRequest struct {
	Quantity *int `json:"quantity" binding:"omitempty,min=0"`
	MinStock *int `json:"min_stock" binding:"omitempty,min=0"`
	MaxStock *int `json:"max_stock" binding:"omitempty,min=1"`
}

type listInventoryQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,oneof=available low_stock out_of_stock"`
}

func stockItems(in []StockItemRequest) []services.StockItem {
	items := make([]services.StockItem, len(in))
	for i, item := range in {
		items[i] = services.StockItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return items
}

// batch resolves the stock items of a reserve or release request.
func (r StockBatchRequest) batch(productID uint) ([]services.StockItem, error) {
	if len(r.Items) > 0 {
		return stockItems(r.Items), nil
	}
	if r.Quantity > 0 {
		return []services.StockItem{{ProductID: productID, Quantity: r.Quantity}}, nil
	}
	return nil, apperror.Validation("items or quantity is required")
}

// ListInventory is the handler for GET /inventory?status=
func (h *Handlers) ListInventory(c *gin.Context) {
	var q listInventoryQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.Services.Inventory.List(c.Request.Context(), q.Status, q.pagination())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, page)
}

// LowStock is the handler for GET /inventory/low-stock.
func (h *Handlers) LowStock(c *gin.Context) {
	rows, err := h.Services.Inventory.LowStock(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, rows)
}

// OutOfStock is the handler for GET /inventory/out-of-stock.
func (h *Handlers) OutOfStock(c *gin.Context) {
	rows, err := h.Services.Inventory.OutOfStock(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, rows)
}

// GetInventory is the handler for GET /inventory/product/:id.
func (h *Handlers) GetInventory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	inv, err := h.Services.Inventory.GetByProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, inv)
}

// UpdateInventory is the handler for PUT /inventory/product/:id.
func (h *Handlers) UpdateInventory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input UpdateInventoryRequest
	if !h.bind(c, &input) {
		return
	}
	inv, err := h.Services.Inventory.UpdateInventory(c.Request.Context(), id, services.InventoryUpdate{
		Quantity: input.Quantity,
		MinStock: input.MinStock,
		MaxStock: input.MaxStock,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Inventory updated successfully", inv)
}

// AdjustStock is the handler for POST /inventory/product/:id/adjust.
func (h *Handlers) AdjustStock(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input AdjustStockRequest
	if !h.bind(c, &input) {
		return
	}
	inv, err := h.Services.Inventory.AdjustStock(c.Request.Context(), id, input.Quantity, input.Type)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Stock adjusted successfully", inv)
}

// AddStock is the handler for POST /inventory/product/:id/add.
func (h *Handlers) AddStock(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input AddStockRequest
	if !h.bind(c, &input) {
		return
	}
	inv, err := h.Services.Inventory.AddStock(c.Request.Context(), id, input.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Stock added successfully", inv)
}

// ReserveStock is the handler for POST /inventory/product/:id/reserve. All or nothing.
func (h *Handlers) ReserveStock(c *gin.Context) {
	h.moveStock(c, h.Services.Inventory.ReserveStock, "Stock reserved successfully")
}

// ReleaseStock is the handler for POST /inventory/product/:id/release.
func (h *Handlers) ReleaseStock(c *gin.Context) {
	h.moveStock(c, h.Services.Inventory.ReleaseStock, "Stock released successfully")
}

func (h *Handlers) moveStock(c *gin.Context, move func(ctx context.Context, items []services.StockItem) ([]services.StockMovement, error), message string) {
	// 1. --- Resolve Items ---
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input StockBatchRequest
	if !h.bind(c, &input) {
		return
	}
	items, err := input.batch(id)
	if err != nil {
		h.fail(c, err)
		return
	}

	// 2. --- Apply ---
	moved, err := move(c.Request.Context(), items)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, message, moved)
}

// CheckAvailability is the handler for POST /inventory/check-availability.
func (h *Handlers) CheckAvailability(c *gin.Context) {
	var input CheckAvailabilityRequest
	if !h.bind(c, &input) {
		return
	}
	report, err := h.Services.Inventory.CheckAvailability(c.Request.Context(), stockItems(input.Items))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, report)
}
