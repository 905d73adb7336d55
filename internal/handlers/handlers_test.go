package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBindErrorReportsJSONFieldNames(t *testing.T) {
	require.NoError(t, RegisterValidators())

	tests := []struct {
		name  string
		body  string
		dst   interface{}
		field string
	}{
		{"missing status", `{}`, &UpdateOrderStatusRequest{}, "status"},
		{"unknown status", `{"status":"lost"}`, &UpdateOrderStatusRequest{}, "status"},
		{"unknown payment status", `{"payment_status":"maybe"}`, &UpdatePaymentStatusRequest{}, "payment_status"},
		{"rating too high", `{"product_id":1,"rating":9}`, &CreateReviewRequest{}, "rating"},
		{"quantity too large", `{"product_id":1,"quantity":1000001}`, &StockItemRequest{}, "quantity"},
		{"bad adjust type", `{"quantity":1,"type":"double"}`, &AdjustStockRequest{}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			err := c.ShouldBindJSON(tt.dst)
			require.Error(t, err)

			mapped := bindError(err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(mapped))
			var appErr *apperror.Error
			require.ErrorAs(t, mapped, &appErr)
			details, ok := appErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
		})
	}
}

func TestBindErrorOnMalformedJSON(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":`))
	c.Request.Header.Set("Content-Type", "application/json")

	err := c.ShouldBindJSON(&UpdateOrderStatusRequest{})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(bindError(err)))
}

func TestIDParam(t *testing.T) {
	for raw, ok := range map[string]bool{"7": true, "0": false, "-1": false, "abc": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		id, err := idParam(c, "id")
		if ok {
			require.NoError(t, err, raw)
			assert.EqualValues(t, 7, id)
		} else {
			assert.True(t, apperror.Is(err, apperror.KindValidation), raw)
		}
	}
}

func TestStockBatchRequest(t *testing.T) {
	items, err := StockBatchRequest{Quantity: 3}.batch(9)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 9, items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)

	items, err = StockBatchRequest{Items: []StockItemRequest{{ProductID: 4, Quantity: 1}}, Quantity: 3}.batch(9)
	require.NoError(t, err)
	assert.EqualValues(t, 4, items[0].ProductID)

	_, err = StockBatchRequest{}.batch(9)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
