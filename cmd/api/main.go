package main

import (
	"fmt"
	"net/http"
	"os"

	"minimarket/internal/config"
	"minimarket/internal/database"
	"minimarket/internal/handlers"
	"minimarket/internal/logger"
	"minimarket/internal/middleware"
	"minimarket/internal/services"
	"minimarket/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db, appConfig.StartingBalance)
	productService := services.NewProductService(db, appConfig.PriceChangeInterval)
	tradingService := services.NewTradingService(db, appConfig.FeeRate)
	pricingService := services.NewPricingService(db, services.PricingConfig{
		MinPercent: appConfig.PriceChangeMin,
		MaxPercent: appConfig.PriceChangeMax,
		Interval:   appConfig.PriceChangeInterval,
	}, nil)
	backfillService := services.NewBackfillService(db, appConfig.FeeRate)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	tradeHandler := handlers.NewTradeHandler(tradingService)
	adminHandler := handlers.NewAdminHandler(pricingService, backfillService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	v1.GET("/products", productHandler.ListProducts)
	v1.GET("/products/:id", productHandler.GetProduct)
	v1.GET("/products/:id/history", productHandler.GetPriceHistory)
	v1.GET("/categories", productHandler.ListCategories)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.Auth())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Catalog writes
	protected.POST("/categories", productHandler.CreateCategory)
	protected.DELETE("/categories/:id", productHandler.DeleteCategory)
	protected.POST("/products", productHandler.CreateProduct)

	// Trading routes
	trades := protected.Group("/trades")
	trades.POST("/buy", tradeHandler.Buy)
	trades.POST("/sell", tradeHandler.Sell)
	protected.GET("/holdings", tradeHandler.GetHoldings)
	protected.GET("/transactions", tradeHandler.GetTransactions)

	// Maintenance routes
	admin := protected.Group("/admin")
	admin.POST("/price-tick", adminHandler.RunPriceTick)
	admin.POST("/backfill", adminHandler.RunBackfill)

	log.Infof("Starting minimarket server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
