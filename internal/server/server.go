package server

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight-hq/finsight-api/internal/cache"
	"github.com/finsight-hq/finsight-api/internal/client/upstream"
	"github.com/finsight-hq/finsight-api/internal/constants"
	"github.com/finsight-hq/finsight-api/internal/handlers"
	"github.com/finsight-hq/finsight-api/internal/logger"
	"github.com/finsight-hq/finsight-api/internal/services"
)

// Handler definitions
var (
	chartHandler *handlers.ChartHandler
)

// InitializeHandlers wires the upstream client, cache and services
func InitializeHandlers() {
	baseURL := os.Getenv(constants.EnvUpstreamBaseURL)
	if baseURL == "" {
		logger.Fatal(constants.EnvUpstreamBaseURL + " environment variable is required")
	}
	authToken := os.Getenv(constants.EnvUpstreamToken)
	if authToken == "" {
		logger.Fatal(constants.EnvUpstreamToken + " environment variable is required")
	}

	fetcher := upstream.NewClient(baseURL, authToken)

	// The cache is optional: without REDIS_URL every request runs the full
	// pipeline.
	var chartCache *cache.ChartCache
	if redisURL := os.Getenv(constants.EnvRedisURL); redisURL != "" {
		ttl := constants.ChartCacheTTL
		if hoursEnv := os.Getenv(constants.EnvCacheTTLHours); hoursEnv != "" {
			hours, err := strconv.Atoi(hoursEnv)
			if err != nil || hours <= 0 {
				logger.Fatal("invalid " + constants.EnvCacheTTLHours + " value: " + hoursEnv)
			}
			ttl = time.Duration(hours) * time.Hour
		}

		var err error
		chartCache, err = cache.NewChartCache(redisURL, ttl)
		if err != nil {
			logger.Fatal("Unable to create chart cache", zap.Error(err))
		}
	} else {
		logger.Warn("REDIS_URL not set, chart caching disabled")
	}

	chartService := services.NewChartService(fetcher, chartCache)
	chartHandler = handlers.NewChartHandler(chartService)
}

// InitializeRoutes registers all HTTP routes
func InitializeRoutes(router *gin.Engine) {
	// Configure and apply CORS middleware
	router.Use(configureCORS())
	router.Use(handlers.LogRequest())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/charts/generate", chartHandler.GenerateChart)
		v1.DELETE("/charts/:chart_id/cache", chartHandler.InvalidateChartCache)
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default to localhost if not set
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		// Split and trim the origins
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
