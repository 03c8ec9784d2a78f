package constants

import "time"

// Fetch and aggregation limits for chart generation
const (
	// ChartPageSize is the number of records requested per upstream page
	ChartPageSize = 100

	// ChartMaxPages caps sequential page fetches, bounding total records
	// at ChartPageSize * ChartMaxPages
	ChartMaxPages = 10

	// ChartMaxRangeDays is the maximum allowed date-range span in whole
	// UTC calendar days
	ChartMaxRangeDays = 30

	// ChartCacheTTL is the default lifetime of a cached chart result
	ChartCacheTTL = 6 * time.Hour

	// ChartCacheKeyPrefix namespaces all chart cache entries
	ChartCacheKeyPrefix = "chart"
)
