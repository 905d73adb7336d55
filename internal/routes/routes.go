package routes

import (
	"time"

	"github.com/01moynul/storefront-api/internal/config"
	"github.com/01moynul/storefront-api/internal/handlers"
	"github.com/01moynul/storefront-api/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires every /api/v1 route to its handler and middleware chain.
func SetupRouter(cfg *config.Config, h *handlers.Handlers) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Recovery(h.Log), middleware.RequestLogger(h.Log))

	// --- CORS Guard ---
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	users := h.Services.Users
	requireAuth := middleware.AuthMiddleware(h.Tokens, users)
	optionalAuth := middleware.OptionalAuth(h.Tokens, users)
	adminOnly := middleware.AdminMiddleware()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health)

		// --- Auth Routes (Public, rate limited) ---
		authRoutes := v1.Group("/auth")
		authRoutes.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.AuthRateLimit)))
		{
			authRoutes.POST("/register", h.Register)
			authRoutes.POST("/login", h.Login)
			authRoutes.GET("/me", requireAuth, h.Me)
		}

		// --- User Routes ---
		userRoutes := v1.Group("/users", requireAuth)
		{
			userRoutes.PUT("/me/password", h.ChangePassword)
			userRoutes.GET("", adminOnly, h.ListUsers)
			userRoutes.GET("/:id", adminOnly, h.GetUser)
			userRoutes.PUT("/:id", adminOnly, h.UpdateUser)
			userRoutes.DELETE("/:id", adminOnly, h.DeleteUser)
		}

		// --- Category Routes ---
		categoryRoutes := v1.Group("/categories")
		{
			categoryRoutes.GET("", h.ListCategories)
			categoryRoutes.GET("/:id", h.GetCategory)
			categoryRoutes.POST("", requireAuth, adminOnly, h.CreateCategory)
			categoryRoutes.PUT("/:id", requireAuth, adminOnly, h.UpdateCategory)
			categoryRoutes.DELETE("/:id", requireAuth, adminOnly, h.DeleteCategory)
		}

		// --- Product Routes ---
		productRoutes := v1.Group("/products")
		{
			productRoutes.GET("", optionalAuth, h.ListProducts)
			productRoutes.GET("/:id", h.GetProduct)
			productRoutes.POST("", requireAuth, adminOnly, h.CreateProduct)
			productRoutes.PUT("/:id", requireAuth, adminOnly, h.UpdateProduct)
			productRoutes.DELETE("/:id", requireAuth, adminOnly, h.DeleteProduct)
		}

		// --- Inventory Routes ---
		inventoryRoutes := v1.Group("/inventory", requireAuth)
		{
			inventoryRoutes.POST("/check-availability", h.CheckAvailability)

			admin := inventoryRoutes.Group("", adminOnly)
			admin.GET("", h.ListInventory)
			admin.GET("/low-stock", h.LowStock)
			admin.GET("/out-of-stock", h.OutOfStock)
			admin.GET("/product/:id", h.GetInventory)
			admin.PUT("/product/:id", h.UpdateInventory)
			admin.POST("/product/:id/adjust", h.AdjustStock)
			admin.POST("/product/:id/add", h.AddStock)
			admin.POST("/product/:id/reserve", h.ReserveStock)
			admin.POST("/product/:id/release", h.ReleaseStock)
		}

		// --- Order Routes ---
		orderRoutes := v1.Group("/orders", requireAuth)
		{
			orderRoutes.GET("", h.ListOrders)
			orderRoutes.POST("", h.CreateOrder)
			orderRoutes.GET("/user/:userId", h.ListUserOrders)
			orderRoutes.GET("/:id", h.GetOrder)
			orderRoutes.DELETE("/:id", h.CancelOrder)
			orderRoutes.PUT("/:id/status", adminOnly, h.UpdateOrderStatus)
			orderRoutes.PUT("/:id/payment-status", adminOnly, h.UpdatePaymentStatus)
		}

		// --- Review Routes ---
		reviewRoutes := v1.Group("/reviews")
		{
			reviewRoutes.GET("", h.ListReviews)
			reviewRoutes.GET("/product/:productId", h.ProductReviews)
			reviewRoutes.GET("/:id", h.GetReview)
			reviewRoutes.POST("", requireAuth, h.CreateReview)
			reviewRoutes.PUT("/:id", requireAuth, h.UpdateReview)
			reviewRoutes.DELETE("/:id", requireAuth, h.DeleteReview)
		}

		// --- Admin Routes ---
		v1.GET("/admin/stats", requireAuth, adminOnly, h.AdminStats)
	}

	return router, nil
}
