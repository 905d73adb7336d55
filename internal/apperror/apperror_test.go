package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad quantity"), http.StatusBadRequest},
		{"authentication", Authentication("no token"), http.StatusUnauthorized},
		{"authorization", Authorization("admins only"), http.StatusForbidden},
		{"not found", NotFound("order %d not found", 7), http.StatusNotFound},
		{"conflict", Conflict("duplicate review"), http.StatusConflict},
		{"business logic", BusinessLogic("insufficient stock"), http.StatusUnprocessableEntity},
		{"wrapped", fmt.Errorf("create order: %w", BusinessLogic("insufficient stock")), http.StatusUnprocessableEntity},
		{"rate limited", &Error{Kind: KindRateLimited}, http.StatusTooManyRequests},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"internal", Internal(errors.New("boom"), "database error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestIsAndDetails(t *testing.T) {
	err := BusinessLogic("insufficient stock").WithDetails([]string{"Widget"})
	wrapped := fmt.Errorf("reserve: %w", err)

	assert.True(t, Is(wrapped, KindBusinessLogic))
	assert.False(t, Is(wrapped, KindConflict))
	assert.False(t, Is(nil, KindInternal))

	var appErr *Error
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, []string{"Widget"}, appErr.Details)
	assert.Equal(t, "insufficient stock", appErr.Error())
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "database error")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database error: connection refused", err.Error())
}
