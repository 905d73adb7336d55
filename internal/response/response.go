// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// OK sends a success envelope.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Message sends a success envelope with a human readable message.
func Message(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// Abort stops the chain with an error envelope.
func Abort(c *gin.Context, status int, kind apperror.Kind, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: string(kind), Message: message})
}

// Error maps err to its status and writes it. Unclassified errors are logged and
// their text is only shown when showDetail is set.
func Error(c *gin.Context, log *zap.Logger, showDetail bool, err error) {
	status := apperror.HTTPStatus(err)
	kind := apperror.KindOf(err)

	var appErr *apperror.Error
	if errors.As(err, &appErr) && kind != apperror.KindInternal {
		c.AbortWithStatusJSON(status, Envelope{
			Success: false,
			Error:   string(kind),
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}

	log.Error("unhandled error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Time("timestamp", time.Now()),
		zap.Error(err))

	body := Envelope{Success: false, Error: string(apperror.KindInternal), Message: "Internal server error"}
	if appErr != nil && appErr.Message != "" {
		body.Message = appErr.Message
	}
	if showDetail {
		body.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
