package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/controllers"
	"github.com/kendall-kelly/bakery-admin-api/middleware"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/services"
)

// routerDeps are the request-scoped pieces the router needs besides the package singletons
type routerDeps struct {
	auth        gin.HandlerFunc
	idempotency services.IdempotencyStore
	corsOrigins []string
	log         *slog.Logger
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.IdempotencyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// newRouter mounts every /api/v1 route. Everything except health, database status and
// uploaded images needs a valid token with the admin or staff role.
func newRouter(d routerDeps) *gin.Engine {
	if d.log == nil {
		d.log = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(d.log), cors.New(corsConfig(d.corsOrigins)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		v1.GET("/uploads/*key", controllers.GetUploadedImage)
	}

	api := v1.Group("", d.auth, middleware.RequireRole(models.RoleAdmin, models.RoleStaff))
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	controllers.Categories.Register(api.Group("/categories"))
	api.POST("/categories/:id/image", controllers.Categories.UploadImage("categories"))
	controllers.Products.Register(api.Group("/products"))
	api.POST("/products/:id/image", controllers.Products.UploadImage("products"))
	controllers.Combos.Register(api.Group("/combos"))
	api.POST("/combos/:id/image", controllers.Combos.UploadImage("combos"))
	controllers.AddOns.Register(api.Group("/addons"))
	controllers.DeliveryPartners.Register(api.Group("/delivery-partners"))

	api.POST("/promo-codes/validate", controllers.ValidatePromoCode)
	controllers.PromoCodes.Register(api.Group("/promo-codes"), adminOnly)

	api.POST("/profiles/me", controllers.CreateMyProfile)
	api.GET("/profiles/me", controllers.GetMyProfile)
	api.PUT("/profiles/me", controllers.UpdateMyProfile)
	controllers.Profiles.Register(api.Group("/profiles"), adminOnly)
	api.GET("/profiles/:id/loyalty", controllers.GetLoyalty)
	api.POST("/profiles/:id/loyalty", controllers.AdjustLoyalty)

	api.POST("/uploads", controllers.UploadFile)

	orders := api.Group("/orders")
	{
		orders.GET("", controllers.ListOrders)
		orders.POST("", controllers.CreateOrder)
		orders.GET("/:id", controllers.GetOrder)
		orders.PATCH("/:id/status", controllers.UpdateOrderStatus)
		orders.POST("/:id/assign-partner", controllers.AssignDeliveryPartner)
		orders.GET("/:id/receipt", controllers.GetOrderReceipt)
	}

	pos := api.Group("/pos")
	{
		pos.GET("/cart", controllers.GetCart)
		pos.PUT("/cart", controllers.ReplaceCart)
		pos.DELETE("/cart", controllers.ClearCart)
		pos.POST("/cart/items", controllers.AddCartItem)
		pos.PATCH("/cart/items/:index", controllers.UpdateCartItem)
		pos.DELETE("/cart/items/:index", controllers.RemoveCartItem)
		pos.POST("/quote", controllers.QuoteCart)
		if d.idempotency != nil {
			pos.POST("/checkout", middleware.Idempotent(d.idempotency, d.log), controllers.Checkout)
		} else {
			pos.POST("/checkout", controllers.Checkout)
		}
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("/status", controllers.GetNotificationStatus)
		notifications.POST("/silence", controllers.SilenceAlert)
		notifications.POST("/resume", controllers.ResumeAlert)
		notifications.GET("/stream", controllers.StreamAlarm)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bakery Admin API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not connected",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
