package handlers

import (
	"net/http"
	"time"

	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/response"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/gin-gonic/gin"
)

//
// --- Auth Handlers ---
//

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
}

// LoginRequest accepts either the username or the email as the login.
type LoginRequest struct {
	Username string `json:"username" binding:"required_without=Email"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
}

// issue signs a token for user and writes it with the account.
func (h *Handlers) issue(c *gin.Context, status int, message string, user *models.User) {
	token, expiresAt, err := h.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, status, message, authResponse{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

// Register is the handler for POST /auth/register. New accounts are customers.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterRequest
	if !h.bind(c, &input) {
		return
	}

	// 2. --- Create the Account ---
	user, err := h.Services.Users.Register(c.Request.Context(), services.RegisterInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	// 3. --- Send Token ---
	h.issue(c, http.StatusCreated, "User registered successfully", user)
}

// Login is the handler for POST /auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginRequest
	if !h.bind(c, &input) {
		return
	}

	login := input.Username
	if login == "" {
		login = input.Email
	}
	user, err := h.Services.Users.Authenticate(c.Request.Context(), login, input.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.issue(c, http.StatusOK, "Login successful", user)
}

// Me is the handler for GET /auth/me.
func (h *Handlers) Me(c *gin.Context) {
	user, err := h.Services.Users.GetUser(c.Request.Context(), actor(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, user)
}
