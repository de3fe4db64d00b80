package routes

import (
	"net/http"
	"time"

	"hireloop/handlers"
	"hireloop/middleware"
	"hireloop/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRequestRoutes registers the service-request lifecycle endpoints.
func RegisterRequestRoutes(r *gin.Engine, h *handlers.RequestHandler, limiter middleware.RateLimiterStore) {
	api := r.Group("/api/requests")
	api.Use(middleware.AuthMiddleware())
	api.Use(middleware.RateLimitMiddleware(limiter))
	{
		// Buyer endpoints.
		buyer := api.Group("")
		buyer.Use(middleware.RequireRole(utils.RoleBuyer))
		buyer.POST("/instant", h.CreateInstant)
		buyer.POST("/scheduled", h.CreateScheduled)
		buyer.POST("/:id/boost", h.BoostPrice)
		buyer.DELETE("/:id", h.Delete)

		// Seller endpoints.
		seller := api.Group("")
		seller.Use(middleware.RequireRole(utils.RoleSeller))
		seller.POST("/nearby", h.QueryNearby)
		seller.POST("/:id/accept", h.Accept)

		// Either side of the match.
		api.GET("", h.ListMine)
		api.GET("/:id", h.GetByID)
		api.PATCH("/:id/status", h.UpdateStatus)
	}
}

// RegisterTransactionRoutes registers the ledger read endpoints.
func RegisterTransactionRoutes(r *gin.Engine, h *handlers.TransactionHandler) {
	api := r.Group("/api/transactions")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("", h.ListMine)
		api.GET("/request/:id", h.GetByRequest)
	}
}

// RegisterNotificationRoutes registers the in-app notification feed.
func RegisterNotificationRoutes(r *gin.Engine, h *handlers.NotificationHandler) {
	api := r.Group("/api/notifications")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("", h.ListMine)
		api.POST("/:id/read", h.MarkRead)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Hireloop"})
	})
}

// CORSConfig returns the CORS policy applied to the router.
func CORSConfig() cors.Config {
	return cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}
