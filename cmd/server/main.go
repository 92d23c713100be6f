package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwhitfield/horizon/internal/config"
	"github.com/mwhitfield/horizon/internal/handlers"
	"github.com/mwhitfield/horizon/internal/logger"
	"github.com/mwhitfield/horizon/internal/middleware"
	"github.com/mwhitfield/horizon/internal/services"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Horizon API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Build the tax rules store, optionally extended from a YAML file
	rules, err := taxrules.NewStore(cfg.Engine.TaxRulesFile)
	if err != nil {
		log.Fatal("Failed to load tax rules", err, map[string]interface{}{
			"file": cfg.Engine.TaxRulesFile,
		})
	}

	log.Info("Tax rules loaded", map[string]interface{}{
		"current_year": rules.Current().Year,
		"years":        rules.Years(),
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(rules, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize service and handlers
	planningService := services.NewPlanningService(rules, cfg.Engine.CacheEntries, log)
	planningHandler := handlers.NewPlanningHandler(planningService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/tax/take-home", planningHandler.TakeHome)

		planning := v1.Group("/planning")
		{
			planning.POST("/allowances", planningHandler.Allowances)
			planning.POST("/cashflow", planningHandler.CashFlow)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
