package charts

import (
	"strings"
	"time"

	"github.com/finsight-hq/finsight-api/internal/constants"
	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// validAggregations fixes the aggregation types each resource supports
var validAggregations = map[business.ResourceType][]business.AggregationType{
	business.ResourceTransaction: {
		business.AggregateByDay, business.AggregateByHour, business.AggregateByWeek,
		business.AggregateByMonth, business.AggregateByStatus, business.AggregateByChannel,
	},
	business.ResourceRefund: {
		business.AggregateByDay, business.AggregateByWeek, business.AggregateByMonth,
		business.AggregateByStatus, business.AggregateByType,
	},
	business.ResourcePayout: {
		business.AggregateByDay, business.AggregateByWeek, business.AggregateByMonth,
		business.AggregateByStatus,
	},
	business.ResourceDispute: {
		business.AggregateByDay, business.AggregateByWeek, business.AggregateByMonth,
		business.AggregateByStatus, business.AggregateByCategory, business.AggregateByResolution,
	},
}

// statusVocabulary lists the known status values per resource
var statusVocabulary = map[business.ResourceType][]string{
	business.ResourceTransaction: {"success", "failed", "abandoned", "reversed", "pending"},
	business.ResourceRefund:      {"pending", "processed", "failed"},
	business.ResourcePayout:      {"success", "processing", "pending", "failed"},
	business.ResourceDispute:     {"awaiting-merchant-feedback", "awaiting-bank-feedback", "pending", "resolved", "declined"},
}

// channelVocabulary lists the known transaction channels
var channelVocabulary = []string{"card", "bank", "bank_transfer", "ussd", "qr", "mobile_money", "eft"}

// ValidAggregationsFor returns the aggregation types the resource supports
func ValidAggregationsFor(resource business.ResourceType) []business.AggregationType {
	return validAggregations[resource]
}

// ValidateParams runs the ordered pre-fetch checks against the current time
func ValidateParams(params business.ChartParams) error {
	return ValidateParamsAt(params, time.Now().UTC())
}

// ValidateParamsAt checks resource/aggregation compatibility, the status and
// channel allowlists, and the date-range bounds. Each check short-circuits
// with a typed error; no network access may happen before all of them pass.
func ValidateParamsAt(params business.ChartParams, now time.Time) error {
	aggregations, ok := validAggregations[params.ResourceType]
	if !ok {
		return NewConfigurationError(CodeInvalidResource, "unknown resource type %q", params.ResourceType)
	}
	if !containsAggregation(aggregations, params.AggregationType) {
		return NewConfigurationError(CodeInvalidAggregation,
			"aggregation %q is not valid for resource %q (valid: %s)",
			params.AggregationType, params.ResourceType, joinAggregations(aggregations))
	}

	if params.Status != "" {
		statuses := statusVocabulary[params.ResourceType]
		if !containsString(statuses, params.Status) {
			return NewConfigurationError(CodeInvalidStatus,
				"status %q is not valid for resource %q (valid: %s)",
				params.Status, params.ResourceType, strings.Join(statuses, ", "))
		}
	}

	if params.Channel != "" {
		if params.ResourceType != business.ResourceTransaction {
			return NewConfigurationError(CodeInvalidAggregation,
				"channel filters only apply to transactions, not %q", params.ResourceType)
		}
		if !containsString(channelVocabulary, params.Channel) {
			return NewConfigurationError(CodeInvalidChannel,
				"channel %q is not a known channel (valid: %s)",
				params.Channel, strings.Join(channelVocabulary, ", "))
		}
	}

	return validateDateRange(params.From, params.To, now)
}

// validateDateRange enforces ordering and the maximum span. A missing bound
// defaults to now for span purposes. Span comparison uses whole UTC calendar
// days so the check is independent of wall-clock time and local timezone.
func validateDateRange(from, to string, now time.Time) error {
	if from == "" && to == "" {
		return nil
	}

	fromTime := now
	toTime := now
	var err error

	if from != "" {
		fromTime, err = parseDateBound(from)
		if err != nil {
			return NewDateRangeError(CodeInvalidDateFormat, "could not parse 'from' date %q", from)
		}
	}
	if to != "" {
		toTime, err = parseDateBound(to)
		if err != nil {
			return NewDateRangeError(CodeInvalidDateFormat, "could not parse 'to' date %q", to)
		}
	}

	fromDay := dayFloor(fromTime)
	toDay := dayFloor(toTime)
	if fromDay.After(toDay) {
		return NewDateRangeError(CodeFromAfterTo, "'from' date %q is after 'to' date %q", from, to)
	}

	spanDays := int(toDay.Sub(fromDay).Hours() / 24)
	if spanDays > constants.ChartMaxRangeDays {
		return NewDateRangeError(CodeRangeTooLong,
			"date range spans %d days, maximum is %d days", spanDays, constants.ChartMaxRangeDays)
	}

	return nil
}

// parseDateBound accepts either a bare calendar date or a full RFC 3339 timestamp
func parseDateBound(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func dayFloor(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsAggregation(list []business.AggregationType, value business.AggregationType) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func joinAggregations(list []business.AggregationType) string {
	names := make([]string, len(list))
	for i, item := range list {
		names[i] = string(item)
	}
	return strings.Join(names, ", ")
}
