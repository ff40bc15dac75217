package routes

import (
	"net/http"
	"time"

	"storefront-cart/handlers"
	"storefront-cart/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	DB             *gorm.DB
	Cart           handlers.CartService
	RateLimiter    *middleware.RateLimiter
	RequestTimeout time.Duration
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	// Initialize handlers
	productHandler := &handlers.ProductHandler{DB: deps.DB}
	cartHandler := &handlers.CartHandler{Service: deps.Cart}

	api := r.Group("/api")
	api.Use(middleware.Timeout(deps.RequestTimeout))

	// Public catalog routes
	{
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
	}

	// Cart routes (require authentication); every operation is scoped to the token's user
	cart := api.Group("/cart")
	cart.Use(middleware.AuthMiddleware())
	if deps.RateLimiter != nil {
		cart.Use(deps.RateLimiter.Middleware())
	}
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("", cartHandler.AddToCart)
		cart.PUT("", cartHandler.UpdateCartItem)
		cart.DELETE("", cartHandler.ClearCart)
		cart.DELETE("/items/:itemId", cartHandler.RemoveFromCart)
		cart.POST("/validate", cartHandler.ValidateCart)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/variants/:id", productHandler.UpdateVariant)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
