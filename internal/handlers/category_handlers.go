package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-api/internal/response"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/gin-gonic/gin"
)

//
// --- Category Handlers ---
//

type CategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{Name: r.Name, Description: r.Description, IsActive: r.IsActive}
}

// ListCategories is the handler for GET /categories?active_only=true
func (h *Handlers) ListCategories(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	categories, err := h.Services.Categories.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, categories)
}

// GetCategory is the handler for GET /categories/:id (includes the product count).
func (h *Handlers) GetCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	category, err := h.Services.Categories.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, category)
}

// CreateCategory is the handler for POST /categories.
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CategoryRequest
	if !h.bind(c, &input) {
		return
	}
	category, err := h.Services.Categories.Create(c.Request.Context(), input.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory is the handler for PUT /categories/:id.
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input CategoryRequest
	if !h.bind(c, &input) {
		return
	}
	category, err := h.Services.Categories.Update(c.Request.Context(), id, input.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory is the handler for DELETE /categories/:id. Its products become uncategorized.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Services.Categories.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Category deleted successfully", nil)
}
