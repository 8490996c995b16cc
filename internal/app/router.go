package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carefund/internal/config"
	"carefund/internal/domain"
	"carefund/internal/handler"
	"carefund/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler     *handler.AuthHandler
	CampaignHandler *handler.CampaignHandler
	EventHandler    *handler.EventHandler
	DonationHandler *handler.DonationHandler
	JWTConfig       *config.JWTConfig
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
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

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	hospitalOnly := []gin.HandlerFunc{
		middleware.AuthRequired(deps.JWTConfig),
		middleware.RequireRole(string(domain.RoleHospital)),
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Auth routes.
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", deps.AuthHandler.Register)
			authRoutes.POST("/login", deps.AuthHandler.Login)
		}

		// Campaign routes. Reads are public, mutations are hospital-only.
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", deps.CampaignHandler.GetAll)
			campaigns.GET("/:id", deps.CampaignHandler.Get)
			campaigns.GET("/:id/donations", deps.DonationHandler.GetCampaignDonations)
			campaigns.POST("", append(hospitalOnly, deps.CampaignHandler.Create)...)
			campaigns.PUT("/:id", append(hospitalOnly, deps.CampaignHandler.Update)...)
			campaigns.DELETE("/:id", append(hospitalOnly, deps.CampaignHandler.Delete)...)
		}

		// Event routes.
		events := v1.Group("/events")
		{
			events.GET("", deps.EventHandler.GetAll)
			events.GET("/:id", deps.EventHandler.Get)
			events.POST("", append(hospitalOnly, deps.EventHandler.Create)...)
		}

		// Donation routes. Creating a donation dispatches the payment
		// request; the status route runs one reconciliation pass.
		donations := v1.Group("/donations")
		{
			donations.POST("", deps.DonationHandler.Create)
			donations.GET("/:id", deps.DonationHandler.Get)
			donations.GET("/:id/status", deps.DonationHandler.CheckStatus)
		}
	}

	return router
}
