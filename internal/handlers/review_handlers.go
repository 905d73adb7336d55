package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/response"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/gin-gonic/gin"
)

//
// --- Review Handlers ---
//

type CreateReviewRequest struct {
	UserID    uint   `json:"user_id"`
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

type listReviewsQuery struct {
	pageQuery
	ProductID uint `form:"product_id"`
	UserID    uint `form:"user_id"`
	Rating    int  `form:"rating" binding:"omitempty,min=1,max=5"`
}

// ListReviews is the handler for GET /reviews.
func (h *Handlers) ListReviews(c *gin.Context) {
	var q listReviewsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.Services.Reviews.ListReviews(c.Request.Context(),
		store.ReviewFilter{ProductID: q.ProductID, UserID: q.UserID, Rating: q.Rating}, q.pagination())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, page)
}

// ProductReviews is the handler for GET /reviews/product/:productId.
// It returns a page of reviews plus the rating summary.
func (h *Handlers) ProductReviews(c *gin.Context) {
	productID, err := idParam(c, "productId")
	if err != nil {
		h.fail(c, err)
		return
	}
	var q pageQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.Services.Reviews.ForProduct(c.Request.Context(), productID, q.pagination())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}

// GetReview is the handler for GET /reviews/:id.
func (h *Handlers) GetReview(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	review, err := h.Services.Reviews.GetReview(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, review)
}

// CreateReview is the handler for POST /reviews.
func (h *Handlers) CreateReview(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateReviewRequest
	if !h.bind(c, &input) {
		return
	}

	// 2. --- Resolve the Author ---
	who := actor(c)
	userID := who.UserID
	if input.UserID != 0 && input.UserID != who.UserID {
		if !who.IsAdmin() {
			h.fail(c, apperror.Authorization("only admins can post reviews for other users"))
			return
		}
		userID = input.UserID
	}

	// 3. --- Save ---
	review, err := h.Services.Reviews.CreateReview(c.Request.Context(), services.CreateReviewInput{
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Review created successfully", review)
}

// UpdateReview is the handler for PUT /reviews/:id (author or admin).
func (h *Handlers) UpdateReview(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input UpdateReviewRequest
	if !h.bind(c, &input) {
		return
	}
	review, err := h.Services.Reviews.UpdateReview(c.Request.Context(), actor(c), id, services.UpdateReviewInput{
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Review updated successfully", review)
}

// DeleteReview is the handler for DELETE /reviews/:id (author or admin).
func (h *Handlers) DeleteReview(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Services.Reviews.DeleteReview(c.Request.Context(), actor(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Review deleted successfully", nil)
}
