package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/response"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// TokenValidator turns a bearer token into a user id.
type TokenValidator interface {
	ValidateToken(token string) (uint, error)
}

// UserLoader fetches the account behind a token.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware is the "security guard" for protected routes: it checks the bearer
// token, loads the user and rejects deactivated accounts.
func AuthMiddleware(tokens TokenValidator, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.KindAuthentication, "Authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, http.StatusUnauthorized, apperror.KindAuthentication, "Invalid token format (must be Bearer)")
			return
		}

		// 2. --- Validate Token ---
		userID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, apperror.KindAuthentication, "Invalid or expired token")
			return
		}

		// 3. --- Load the Account ---
		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				response.Abort(c, http.StatusUnauthorized, apperror.KindAuthentication, "Invalid user")
				return
			}
			response.Abort(c, http.StatusInternalServerError, apperror.KindInternal, "Database error checking user")
			return
		}
		if !user.IsActive {
			response.Abort(c, http.StatusUnauthorized, apperror.KindAuthentication, "Account is deactivated")
			return
		}

		// 4. --- Success ---
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid bearer token is sent and
// lets anonymous requests through unchanged.
func OptionalAuth(tokens TokenValidator, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}
		userID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.Next()
			return
		}
		user, err := users.GetUser(c.Request.Context(), userID)
		if err == nil && user.IsActive {
			c.Set(ContextUserID, user.ID)
			c.Set(ContextUserRole, user.Role)
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.KindAuthentication, "User not found in context (AuthMiddleware must run first)")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, apperror.KindAuthorization, "Access denied: "+strings.Join(roles, " or ")+" role required")
	}
}

// AdminMiddleware lets only administrators through.
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// CurrentUser returns the id and role AuthMiddleware stored on the context.
func CurrentUser(c *gin.Context) (uint, string, bool) {
	raw, exists := c.Get(ContextUserID)
	if !exists {
		return 0, "", false
	}
	id, ok := raw.(uint)
	return id, c.GetString(ContextUserRole), ok
}
