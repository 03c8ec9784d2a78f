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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/finsight-hq/finsight-api/internal/constants"
	"github.com/finsight-hq/finsight-api/internal/logger"
	"github.com/finsight-hq/finsight-api/internal/server"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	stage := os.Getenv(constants.EnvStage)
	if stage == "" {
		stage = "development"
	}
	logger.InitLogger(stage)
	defer func() { _ = logger.Sync() }()

	// Initialize router
	router := gin.Default()

	// Initialize handlers and routes
	server.InitializeHandlers()
	server.InitializeRoutes(router)

	// Get port from environment variable or use default
	port := os.Getenv(constants.EnvAPIPort)
	if port == "" {
		port = "8000"
	}

	// Configure server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
