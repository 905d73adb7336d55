package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/response"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Product Handlers ---
//

// ProductRequest is shared by create and update. Price accepts a JSON number or string.
type ProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	SKU         *string          `json:"sku" binding:"omitempty,max=100"`
	CategoryID  *uint            `json:"category_id"`
	IsActive    *bool            `json:"is_active"`

	// Initial stock, create only.
	Quantity *int `json:"quantity" binding:"omitempty,min=0"`
	MinStock *int `json:"min_stock" binding:"omitempty,min=0"`
	MaxStock *int `json:"max_stock" binding:"omitempty,min=1"`
}

type listProductsQuery struct {
	pageQuery
	CategoryID      *uint  `form:"category_id"`
	Search          string `form:"search"`
	MinPrice        string `form:"min_price"`
	MaxPrice        string `form:"max_price"`
	InStock         *bool  `form:"in_stock"`
	IncludeInactive bool   `form:"include_inactive"`
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.Validation("%s must be a number", field).
			WithDetails(map[string]string{field: field + " must be a number"})
	}
	return &d, nil
}

// ListProducts is the handler for GET /products.
// Inactive products are only listed for admins who ask for them.
func (h *Handlers) ListProducts(c *gin.Context) {
	// 1. --- Parse Filters ---
	var q listProductsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	minPrice, err := parsePrice("min_price", q.MinPrice)
	if err != nil {
		h.fail(c, err)
		return
	}
	maxPrice, err := parsePrice("max_price", q.MaxPrice)
	if err != nil {
		h.fail(c, err)
		return
	}

	filter := store.ProductFilter{
		CategoryID: q.CategoryID,
		Search:     q.Search,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		InStock:    q.InStock,
	}
	filter.IncludeInactive = q.IncludeInactive && h.isAdmin(c)

	// 2. --- Query ---
	page, err := h.Services.Products.List(c.Request.Context(), filter, q.pagination())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, page)
}

// GetProduct is the handler for GET /products/:id (with category and inventory).
func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	product, err := h.Services.Products.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, product)
}

// CreateProduct is the handler for POST /products. It also creates the inventory row.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductRequest
	if !h.bind(c, &input) {
		return
	}
	product, err := h.Services.Products.Create(c.Request.Context(), services.ProductInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		SKU:         input.SKU,
		CategoryID:  input.CategoryID,
		IsActive:    input.IsActive,
		Quantity:    input.Quantity,
		MinStock:    input.MinStock,
		MaxStock:    input.MaxStock,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct is the handler for PUT /products/:id. Stock is changed through /inventory.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input ProductRequest
	if !h.bind(c, &input) {
		return
	}
	product, err := h.Services.Products.Update(c.Request.Context(), id, services.ProductInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		SKU:         input.SKU,
		CategoryID:  input.CategoryID,
		IsActive:    input.IsActive,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct is the handler for DELETE /products/:id.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Services.Products.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Product deleted successfully", nil)
}
