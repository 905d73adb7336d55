package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-api/internal/response"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/gin-gonic/gin"
)

//
// --- User Handlers (Admin-Only, except ChangePassword) ---
//

type listUsersQuery struct {
	pageQuery
	Role   string `form:"role" binding:"omitempty,oneof=customer admin"`
	Search string `form:"search"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Role      *string `json:"role" binding:"omitempty,oneof=customer admin"`
	IsActive  *bool   `json:"is_active"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ListUsers is the handler for GET /users.
func (h *Handlers) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.Services.Users.ListUsers(c.Request.Context(),
		store.UserFilter{Role: q.Role, Search: q.Search}, q.pagination())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, page)
}

// GetUser is the handler for GET /users/:id.
func (h *Handlers) GetUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.Services.Users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, user)
}

// UpdateUser is the handler for PUT /users/:id.
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var input UpdateUserRequest
	if !h.bind(c, &input) {
		return
	}

	user, err := h.Services.Users.UpdateUser(c.Request.Context(), id, services.UpdateUserInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
		IsActive:  input.IsActive,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser is the handler for DELETE /users/:id. Users with orders are kept.
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Services.Users.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User deleted successfully", nil)
}

// ChangePassword is the handler for PUT /users/me/password.
func (h *Handlers) ChangePassword(c *gin.Context) {
	var input ChangePasswordRequest
	if !h.bind(c, &input) {
		return
	}
	err := h.Services.Users.ChangePassword(c.Request.Context(), actor(c).UserID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Password changed successfully", nil)
}
