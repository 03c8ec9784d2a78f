package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight-hq/finsight-api/internal/charts"
	"github.com/finsight-hq/finsight-api/internal/logger"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendValidationError maps the typed pre-fetch errors onto a 400 with the
// validator's actionable message, and everything else onto a 500
func sendValidationError(c *gin.Context, err error) {
	var configErr *charts.ConfigurationError
	if errors.As(err, &configErr) {
		sendError(c, 400, configErr.Message, err)
		return
	}
	var rangeErr *charts.DateRangeError
	if errors.As(err, &rangeErr) {
		sendError(c, 400, rangeErr.Message, err)
		return
	}
	sendError(c, 500, "Internal server error", err)
}
