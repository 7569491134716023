package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/Sayhighz/slideme-AI-sub000/internal/handler"
	"github.com/Sayhighz/slideme-AI-sub000/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RequestHandler *handler.RequestHandler
	OfferHandler   *handler.OfferHandler
	PaymentHandler *handler.PaymentHandler
	DriverHandler  *handler.DriverHandler
	UserHandler    *handler.UserHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Customer routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.POST("/:id/approval", deps.DriverHandler.UpdateApproval)
		}

		// Service request routes.
		requests := v1.Group("/requests")
		{
			requests.POST("", deps.RequestHandler.Create)
			requests.GET("/available", deps.RequestHandler.ListAvailable)
			requests.GET("/:id", deps.RequestHandler.Get)
			requests.POST("/:id/cancel", deps.RequestHandler.Cancel)
			requests.POST("/:id/complete", deps.RequestHandler.Complete)
			requests.POST("/:id/offers", deps.OfferHandler.Create)
			requests.POST("/:id/accept", deps.OfferHandler.Accept)
			requests.GET("/:id/receipt", deps.PaymentHandler.GetReceipt)
		}

		// Offer routes.
		offers := v1.Group("/offers")
		{
			offers.POST("/:id/cancel", deps.OfferHandler.Cancel)
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.GET("/:id", deps.PaymentHandler.Get)
		}
	}

	return router
}
