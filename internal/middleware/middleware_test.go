package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTokens map[string]uint

func (f fakeTokens) ValidateToken(token string) (uint, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

type fakeUsers map[uint]*models.User

func (f fakeUsers) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user not found")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		id, role, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.GET("/", chain...)
	return r
}

func do(r http.Handler, header string) (*httptest.ResponseRecorder, response.Envelope) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env response.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestAuthMiddleware(t *testing.T) {
	tokens := fakeTokens{"good": 1, "gone": 2, "off": 3}
	users := fakeUsers{
		1: {ID: 1, Role: models.RoleCustomer, IsActive: true},
		3: {ID: 3, Role: models.RoleCustomer, IsActive: false},
	}
	r := newRouter(AuthMiddleware(tokens, users))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"deleted user", "Bearer gone", http.StatusUnauthorized},
		{"inactive user", "Bearer off", http.StatusUnauthorized},
		{"ok", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				assert.False(t, env.Success)
				assert.Equal(t, string(apperror.KindAuthentication), env.Error)
			}
		})
	}

	w, _ := do(r, "Bearer good")
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, models.RoleCustomer, body["role"])
}

func TestAdminMiddleware(t *testing.T) {
	tokens := fakeTokens{"customer": 1, "admin": 2}
	users := fakeUsers{
		1: {ID: 1, Role: models.RoleCustomer, IsActive: true},
		2: {ID: 2, Role: models.RoleAdmin, IsActive: true},
	}
	r := newRouter(AuthMiddleware(tokens, users), AdminMiddleware())

	w, env := do(r, "Bearer customer")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, string(apperror.KindAuthorization), env.Error)

	w, _ = do(r, "Bearer admin")
	assert.Equal(t, http.StatusOK, w.Code)

	bare := newRouter(AdminMiddleware())
	w, _ = do(bare, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimit(NewIPRateLimiter(3)))

	for i := 0; i < 3; i++ {
		w, _ := do(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w, env := do(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, string(apperror.KindRateLimited), env.Error)

	limiter := NewIPRateLimiter(1)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"), "buckets are per IP")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w, env := do(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, string(apperror.KindInternal), env.Error)
}

func TestOptionalAuth(t *testing.T) {
	tokens := fakeTokens{"admin": 2}
	users := fakeUsers{2: {ID: 2, Role: models.RoleAdmin, IsActive: true}}
	r := newRouter(OptionalAuth(tokens, users))

	for _, header := range []string{"", "Bearer nope", "Basic admin"} {
		w, _ := do(r, header)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(0), body["id"], header)
	}

	w, _ := do(r, "Bearer admin")
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["id"])
	assert.Equal(t, models.RoleAdmin, body["role"])
}
