package charts

import (
	"fmt"

	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// Chart type hints understood by the dashboard renderer
const (
	ChartTypeArea     = "area"
	ChartTypeBar      = "bar"
	ChartTypeDoughnut = "doughnut"
)

// ChartDescriptor is the rendering hint and human-readable label attached to
// every progress and terminal frame
type ChartDescriptor struct {
	ChartType string `json:"chart_type"`
	Label     string `json:"label"`
}

var resourceDisplayNames = map[business.ResourceType]string{
	business.ResourceTransaction: "Transaction",
	business.ResourceRefund:      "Refund",
	business.ResourcePayout:      "Payout",
	business.ResourceDispute:     "Dispute",
}

var dimensionNames = map[business.AggregationType]string{
	business.AggregateByDay:        "Day",
	business.AggregateByHour:       "Hour",
	business.AggregateByWeek:       "Week",
	business.AggregateByMonth:      "Month",
	business.AggregateByStatus:     "Status",
	business.AggregateByChannel:    "Channel",
	business.AggregateByType:       "Type",
	business.AggregateByCategory:   "Category",
	business.AggregateByResolution: "Resolution",
}

// DescribeChart maps an aggregation to its rendering hint and label.
// Continuous trends render as areas, hour-of-day as bars, and categorical
// proportions as doughnuts.
func DescribeChart(resource business.ResourceType, aggregation business.AggregationType) ChartDescriptor {
	chartType := ChartTypeDoughnut
	switch aggregation {
	case business.AggregateByDay, business.AggregateByWeek, business.AggregateByMonth:
		chartType = ChartTypeArea
	case business.AggregateByHour:
		chartType = ChartTypeBar
	}

	return ChartDescriptor{
		ChartType: chartType,
		Label:     fmt.Sprintf("%s Metrics by %s", resourceDisplayNames[resource], dimensionNames[aggregation]),
	}
}

// ResourceDisplayName returns the human-readable name of a resource type
func ResourceDisplayName(resource business.ResourceType) string {
	if name, ok := resourceDisplayNames[resource]; ok {
		return name
	}
	return string(resource)
}
