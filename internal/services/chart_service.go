package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-hq/finsight-api/internal/cache"
	"github.com/finsight-hq/finsight-api/internal/charts"
	"github.com/finsight-hq/finsight-api/internal/client/upstream"
	"github.com/finsight-hq/finsight-api/internal/constants"
	"github.com/finsight-hq/finsight-api/internal/logger"
	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// ChartService drives the fetch-aggregate pipeline: bounded paginated
// retrieval, normalization, aggregation and summarization, surfacing progress
// frames to the caller. Each invocation owns its own accumulator; concurrent
// requests do not interfere and are not deduplicated.
type ChartService struct {
	fetcher    upstream.PageFetcher
	chartCache *cache.ChartCache
	pageSize   int
	maxPages   int
}

// NewChartService creates a chart service. chartCache may be nil, which
// disables caching entirely.
func NewChartService(fetcher upstream.PageFetcher, chartCache *cache.ChartCache) *ChartService {
	return &ChartService{
		fetcher:    fetcher,
		chartCache: chartCache,
		pageSize:   constants.ChartPageSize,
		maxPages:   constants.ChartMaxPages,
	}
}

// Generate validates the parameters and, on success, starts the pipeline.
// The returned channel carries zero or more loading frames followed by exactly
// one terminal frame, then closes. Validation failures are returned
// synchronously as typed errors before any network access. Cancelling the
// context stops the pipeline after the in-flight page completes.
func (s *ChartService) Generate(ctx context.Context, params business.ChartParams) (<-chan business.ChartGenerationState, error) {
	if err := charts.ValidateParams(params); err != nil {
		return nil, err
	}

	endpoint, ok := upstream.EndpointFor(params.ResourceType)
	if !ok {
		return nil, charts.NewConfigurationError(charts.CodeInvalidResource,
			"no upstream endpoint for resource type %q", params.ResourceType)
	}

	descriptor := charts.DescribeChart(params.ResourceType, params.AggregationType)

	frames := make(chan business.ChartGenerationState)
	go s.run(ctx, params, endpoint, descriptor, frames)
	return frames, nil
}

func (s *ChartService) run(ctx context.Context, params business.ChartParams, endpoint string, descriptor charts.ChartDescriptor, frames chan<- business.ChartGenerationState) {
	defer close(frames)

	emit := func(frame business.ChartGenerationState) bool {
		select {
		case frames <- frame:
			return true
		case <-ctx.Done():
			return false
		}
	}

	resourceName := strings.ToLower(charts.ResourceDisplayName(params.ResourceType))

	if !emit(loadingFrame(descriptor, fmt.Sprintf("Fetching %s records", resourceName))) {
		return
	}

	var accumulated []business.RawRecord
	for page := 1; page <= s.maxPages; page++ {
		data, _, err := s.fetcher.FetchPage(ctx, endpoint, upstream.FetchParams{
			Page:     page,
			PerPage:  s.pageSize,
			From:     params.From,
			To:       params.To,
			Status:   params.Status,
			Currency: params.Currency,
			Channel:  params.Channel,
		})
		if err != nil {
			logger.Error("chart pipeline aborted by upstream failure",
				zap.String("resource", string(params.ResourceType)),
				zap.Int("page", page),
				zap.Error(err))
			emit(business.ChartGenerationState{
				Kind:  business.StateError,
				Error: fmt.Sprintf("Failed to fetch %s data", resourceName),
			})
			return
		}

		accumulated = append(accumulated, data...)
		if !emit(loadingFrame(descriptor, fmt.Sprintf("Fetched %d %s records so far", len(accumulated), resourceName))) {
			return
		}

		// A short page means the collection is exhausted.
		if len(data) < s.pageSize {
			break
		}
	}

	dateRange := summaryDateRange(params)

	if len(accumulated) == 0 {
		summary := charts.Summarize(nil, dateRange)
		frame := business.ChartGenerationState{
			Kind:      business.StateSuccess,
			Label:     descriptor.Label,
			ChartType: descriptor.ChartType,
			Summary:   &summary,
			Message:   fmt.Sprintf("No %s records found for the given criteria", resourceName),
		}
		if params.AggregationType.IsTimeBased() {
			frame.ChartSeries = []business.ChartSeries{}
		} else {
			frame.ChartData = []business.ChartDataPoint{}
		}
		emit(frame)
		return
	}

	normalized, err := charts.NormalizeRecords(params.ResourceType, accumulated)
	if err != nil {
		logger.Error("failed to normalize upstream records",
			zap.String("resource", string(params.ResourceType)),
			zap.Error(err))
		emit(business.ChartGenerationState{
			Kind:  business.StateError,
			Error: fmt.Sprintf("Failed to process %s data", resourceName),
		})
		return
	}

	frame := business.ChartGenerationState{
		Kind:      business.StateSuccess,
		Label:     descriptor.Label,
		ChartType: descriptor.ChartType,
		Message:   fmt.Sprintf("Found %d %s records", len(normalized), resourceName),
	}

	if params.AggregationType.IsTimeBased() {
		frame.ChartSeries = charts.AggregateTimeSeries(normalized, params.AggregationType)
	} else {
		points, err := charts.AggregateCategorical(normalized, params.AggregationType)
		if err != nil {
			// Unreachable after validation, kept as a guard.
			emit(business.ChartGenerationState{Kind: business.StateError, Error: err.Error()})
			return
		}
		frame.ChartData = points
	}

	summary := charts.Summarize(normalized, dateRange)
	frame.Summary = &summary
	emit(frame)
}

// GenerateCached is the cache gateway around Generate: it serves the terminal
// frame from cache when possible, otherwise runs the pipeline, forwarding
// loading frames to onProgress (which may be nil) and caching a successful
// terminal frame. Cache failures degrade to misses and never surface here.
func (s *ChartService) GenerateCached(ctx context.Context, params business.ChartParams, onProgress func(business.ChartGenerationState)) (business.ChartGenerationState, error) {
	key := cache.BuildChartKey(params)

	if s.chartCache != nil {
		var cached business.ChartGenerationState
		if s.chartCache.SafeGet(ctx, key, &cached) {
			logger.Debug("chart cache hit", zap.String("key", key))
			return cached, nil
		}
	}

	frames, err := s.Generate(ctx, params)
	if err != nil {
		return business.ChartGenerationState{}, err
	}

	var terminal business.ChartGenerationState
	for frame := range frames {
		if frame.Kind == business.StateLoading {
			if onProgress != nil {
				onProgress(frame)
			}
			continue
		}
		terminal = frame
	}

	if terminal.Kind == "" {
		// The channel closed without a terminal frame: the context was
		// cancelled mid-pipeline.
		return business.ChartGenerationState{}, ctx.Err()
	}

	if terminal.Kind == business.StateSuccess && s.chartCache != nil {
		s.chartCache.SafeSet(ctx, key, terminal)
	}

	return terminal, nil
}

// InvalidateChart drops every cached result for one saved chart configuration
func (s *ChartService) InvalidateChart(ctx context.Context, chartID string) (int64, error) {
	if s.chartCache == nil {
		return 0, nil
	}
	return s.chartCache.InvalidateChart(ctx, chartID)
}

func loadingFrame(descriptor charts.ChartDescriptor, message string) business.ChartGenerationState {
	return business.ChartGenerationState{
		Kind:      business.StateLoading,
		Label:     descriptor.Label,
		ChartType: descriptor.ChartType,
		Message:   message,
	}
}

// summaryDateRange renders the requested bounds for display in the summary.
// Absent bounds on a partially specified range default to today; a fully
// absent range yields nil so the summary omits the field.
func summaryDateRange(params business.ChartParams) *business.SummaryDateRange {
	if params.From == "" && params.To == "" {
		return nil
	}
	return &business.SummaryDateRange{
		From: displayDate(params.From),
		To:   displayDate(params.To),
	}
}

func displayDate(value string) string {
	if value == "" {
		return time.Now().UTC().Format("Jan 2, 2006")
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Format("Jan 2, 2006")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format("Jan 2, 2006")
	}
	return value
}
