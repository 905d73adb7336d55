package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/auth"
	"github.com/01moynul/storefront-api/internal/middleware"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/response"
	"github.com/01moynul/storefront-api/internal/services"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Services *services.Services
	Tokens   *auth.Signer
	Log      *zap.Logger
	Dev      bool // exposes internal error text in responses
}

func New(svc *services.Services, tokens *auth.Signer, log *zap.Logger, dev bool) *Handlers {
	return &Handlers{Services: svc, Tokens: tokens, Log: log.Named("http"), Dev: dev}
}

// RegisterValidators adds the domain tags to gin's validator and makes field
// errors report JSON names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return models.OrderStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return models.PaymentStatus(fl.Field().String()).Valid()
	})
}

// fail writes err as an error envelope.
func (h *Handlers) fail(c *gin.Context, err error) {
	response.Error(c, h.Log, h.Dev, err)
}

// bind decodes the JSON body into dst. On failure it writes a 400 and returns false.
func (h *Handlers) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, bindError(err))
		return false
	}
	return true
}

// bindQuery decodes query parameters into dst. On failure it writes a 400 and returns false.
func (h *Handlers) bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.fail(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fieldMessage(fe)
		}
		return apperror.Validation("invalid request").WithDetails(details)
	}
	return apperror.Validation("invalid request: %s", err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "order_status":
		return fe.Field() + " must be one of: pending confirmed shipped delivered cancelled"
	case "payment_status":
		return fe.Field() + " must be one of: pending paid failed refunded"
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid %s", name)
	}
	return uint(id), nil
}

// pageQuery is embedded by every list query.
type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (q pageQuery) pagination() store.Pagination {
	return store.Pagination{Page: q.Page, Limit: q.Limit}
}

// actor returns the authenticated caller.
func actor(c *gin.Context) services.Actor {
	id, role, _ := middleware.CurrentUser(c)
	return services.Actor{UserID: id, Role: role}
}

// requireOwner rejects customers acting on another user's resources.
func requireOwner(a services.Actor, ownerID uint) error {
	if a.IsAdmin() || a.UserID == ownerID {
		return nil
	}
	return apperror.Authorization("access denied")
}

// Health pings the database.
func (h *Handlers) Health(c *gin.Context) {
	if err := h.Services.Stats.Ping(c.Request.Context()); err != nil {
		response.Abort(c, http.StatusServiceUnavailable, apperror.KindInternal, "database unavailable")
		return
	}
	response.OK(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) isAdmin(c *gin.Context) bool {
	return actor(c).IsAdmin()
}
