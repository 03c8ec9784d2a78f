package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finsight-hq/finsight-api/internal/services"
	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// ChartHandler exposes chart generation and cache invalidation
type ChartHandler struct {
	chartService *services.ChartService
}

// NewChartHandler creates a new chart handler
func NewChartHandler(chartService *services.ChartService) *ChartHandler {
	return &ChartHandler{chartService: chartService}
}

// GenerateChartRequest is the JSON body of a chart generation call
type GenerateChartRequest struct {
	ChartID         string `json:"chart_id" binding:"required"`
	ResourceType    string `json:"resource_type" binding:"required"`
	AggregationType string `json:"aggregation_type" binding:"required"`
	From            string `json:"from,omitempty"`
	To              string `json:"to,omitempty"`
	Status          string `json:"status,omitempty"`
	Currency        string `json:"currency,omitempty"`
	Channel         string `json:"channel,omitempty"`
}

// GenerateChart runs the fetch-aggregate pipeline for the requested filters.
// Plain requests receive the terminal frame as JSON; requests accepting
// text/event-stream receive every frame as a server-sent event.
func (h *ChartHandler) GenerateChart(c *gin.Context) {
	var req GenerateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, err := uuid.Parse(req.ChartID); err != nil {
		sendError(c, http.StatusBadRequest, "chart_id must be a valid UUID", err)
		return
	}

	params := business.ChartParams{
		ChartID:         req.ChartID,
		ResourceType:    business.ResourceType(req.ResourceType),
		AggregationType: business.AggregationType(req.AggregationType),
		From:            req.From,
		To:              req.To,
		Status:          req.Status,
		Currency:        req.Currency,
		Channel:         req.Channel,
	}

	if c.GetHeader("Accept") == "text/event-stream" {
		h.streamChart(c, params)
		return
	}

	terminal, err := h.chartService.GenerateCached(c.Request.Context(), params, nil)
	if err != nil {
		sendValidationError(c, err)
		return
	}

	if terminal.Kind == business.StateError {
		c.JSON(http.StatusBadGateway, terminal)
		return
	}
	sendSuccess(c, http.StatusOK, terminal)
}

// streamChart writes every pipeline frame as a server-sent event. The stream
// headers are deferred until the first frame so that a validation failure,
// which happens before any frame is produced, still goes out as a plain
// JSON 400.
func (h *ChartHandler) streamChart(c *gin.Context, params business.ChartParams) {
	headersSent := false
	writeFrame := func(frame business.ChartGenerationState) {
		if !headersSent {
			c.Writer.Header().Set("Content-Type", "text/event-stream")
			c.Writer.Header().Set("Cache-Control", "no-cache")
			c.Writer.Header().Set("Connection", "keep-alive")
			headersSent = true
		}
		c.SSEvent("state", frame)
		c.Writer.Flush()
	}

	terminal, err := h.chartService.GenerateCached(c.Request.Context(), params, writeFrame)
	if err != nil {
		if headersSent {
			writeFrame(business.ChartGenerationState{Kind: business.StateError, Error: err.Error()})
			return
		}
		sendValidationError(c, err)
		return
	}

	writeFrame(terminal)
}

// InvalidateChartCache drops every cached result for a saved chart configuration
func (h *ChartHandler) InvalidateChartCache(c *gin.Context) {
	chartID := c.Param("chart_id")
	if _, err := uuid.Parse(chartID); err != nil {
		sendError(c, http.StatusBadRequest, "chart_id must be a valid UUID", err)
		return
	}

	deleted, err := h.chartService.InvalidateChart(c.Request.Context(), chartID)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to invalidate chart cache", err)
		return
	}

	sendSuccess(c, http.StatusOK, gin.H{"deleted": deleted})
}
