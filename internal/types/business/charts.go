package business

// ResourceType identifies which upstream record collection a chart is built from
type ResourceType string

const (
	ResourceTransaction ResourceType = "transaction"
	ResourceRefund      ResourceType = "refund"
	ResourcePayout      ResourceType = "payout"
	ResourceDispute     ResourceType = "dispute"
)

// AggregationType identifies how records are grouped into buckets
type AggregationType string

const (
	AggregateByDay        AggregationType = "by-day"
	AggregateByHour       AggregationType = "by-hour"
	AggregateByWeek       AggregationType = "by-week"
	AggregateByMonth      AggregationType = "by-month"
	AggregateByStatus     AggregationType = "by-status"
	AggregateByChannel    AggregationType = "by-channel"
	AggregateByType       AggregationType = "by-type"
	AggregateByCategory   AggregationType = "by-category"
	AggregateByResolution AggregationType = "by-resolution"
)

// IsTimeBased reports whether the aggregation produces chronological series
// rather than categorical buckets
func (a AggregationType) IsTimeBased() bool {
	switch a {
	case AggregateByDay, AggregateByHour, AggregateByWeek, AggregateByMonth:
		return true
	}
	return false
}

// ChartDataPoint represents a single aggregated bucket for one currency
type ChartDataPoint struct {
	Name     string  `json:"name"`
	Count    int64   `json:"count"`
	Volume   float64 `json:"volume"`
	Average  float64 `json:"average"`
	Currency string  `json:"currency"`
}

// ChartSeries represents one time-ordered line of points for a single currency
type ChartSeries struct {
	Currency string           `json:"currency"`
	Points   []ChartDataPoint `json:"points"`
}

// CurrencyTotals holds fully numeric totals for a single currency
type CurrencyTotals struct {
	Currency       string  `json:"currency"`
	TotalCount     int64   `json:"total_count"`
	TotalVolume    float64 `json:"total_volume"`
	OverallAverage float64 `json:"overall_average"`
}

// SummaryDateRange is the human-readable range echoed back in a summary
type SummaryDateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ChartSummary holds overall statistics for a generated chart.
// TotalVolume and OverallAverage are nil whenever more than one currency is
// present in the underlying records; summing across currencies would be
// numerically meaningless.
type ChartSummary struct {
	TotalCount     int64             `json:"total_count"`
	TotalVolume    *float64          `json:"total_volume"`
	OverallAverage *float64          `json:"overall_average"`
	PerCurrency    []CurrencyTotals  `json:"per_currency"`
	DateRange      *SummaryDateRange `json:"date_range,omitempty"`
}

// StateKind discriminates the frames emitted during chart generation
type StateKind string

const (
	StateLoading StateKind = "loading"
	StateSuccess StateKind = "success"
	StateError   StateKind = "error"
)

// ChartGenerationState is one frame of the chart generation sequence: zero or
// more loading frames followed by exactly one success or error frame. Exactly
// one of ChartData/ChartSeries is populated on success, chosen by whether the
// aggregation is time-based. The populated one may be an empty slice for a
// zero-record result, so these two fields must survive JSON round-trips
// without omitempty collapsing empty to absent.
type ChartGenerationState struct {
	Kind        StateKind        `json:"kind"`
	Label       string           `json:"label,omitempty"`
	ChartType   string           `json:"chart_type,omitempty"`
	ChartData   []ChartDataPoint `json:"chart_data"`
	ChartSeries []ChartSeries    `json:"chart_series"`
	Summary     *ChartSummary    `json:"summary,omitempty"`
	Message     string           `json:"message,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// ChartParams is the full filter set for one chart generation request.
// Optional filters are empty strings when absent.
type ChartParams struct {
	ChartID         string          `json:"chart_id"`
	ResourceType    ResourceType    `json:"resource_type"`
	AggregationType AggregationType `json:"aggregation_type"`
	From            string          `json:"from,omitempty"`
	To              string          `json:"to,omitempty"`
	Status          string          `json:"status,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	Channel         string          `json:"channel,omitempty"`
}
