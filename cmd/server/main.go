package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carefund/internal/app"
	"carefund/internal/config"
	"carefund/internal/handler"
	"carefund/internal/momo"
	internalRedis "carefund/internal/redis"
	"carefund/internal/repository/postgres"
	"carefund/internal/service"
)

func main() {
	// Load .env if present, then configuration from the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	campaignCache := internalRedis.NewCampaignCache(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	campaignRepo := postgres.NewCampaignRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	donationRepo := postgres.NewDonationRepository(db)

	// Initialize the MTN MoMo collection client.
	gateway := momo.NewClient(momo.Config{
		BaseURL:           cfg.MoMo.BaseURL,
		SubscriptionKey:   cfg.MoMo.SubscriptionKey,
		APIUser:           cfg.MoMo.APIUser,
		APIKey:            cfg.MoMo.APIKey,
		TargetEnvironment: cfg.MoMo.TargetEnvironment,
		Currency:          cfg.MoMo.Currency,
		CountryCode:       cfg.MoMo.CountryCode,
		Timeout:           cfg.MoMo.Timeout,
	})

	// Initialize services.
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	campaignService := service.NewCampaignService(campaignRepo, campaignCache)
	eventService := service.NewEventService(eventRepo)
	donationService := service.NewDonationService(donationRepo, campaignRepo, eventRepo, gateway, lockStore, campaignCache)

	// Initialize handlers.
	authHandler := handler.NewAuthHandler(authService)
	campaignHandler := handler.NewCampaignHandler(campaignService)
	eventHandler := handler.NewEventHandler(eventService)
	donationHandler := handler.NewDonationHandler(donationService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:     authHandler,
		CampaignHandler: campaignHandler,
		EventHandler:    eventHandler,
		DonationHandler: donationHandler,
		JWTConfig:       &cfg.JWT,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
