package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-api/internal/response"
	"github.com/gin-gonic/gin"
)

// AdminStats is the handler for GET /admin/stats.
func (h *Handlers) AdminStats(c *gin.Context) {
	stats, err := h.Services.Stats.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, stats)
}
