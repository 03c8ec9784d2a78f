package charts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-hq/finsight-api/internal/charts"
	"github.com/finsight-hq/finsight-api/internal/types/business"
)

func validParams() business.ChartParams {
	return business.ChartParams{
		ChartID:         "5f0640b2-5a47-4bbf-a16f-e5c2f0fce7cf",
		ResourceType:    business.ResourceTransaction,
		AggregationType: business.AggregateByDay,
	}
}

func testNow() time.Time {
	return time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)
}

func TestValidateParams_AggregationCompatibility(t *testing.T) {
	tests := []struct {
		name        string
		resource    business.ResourceType
		aggregation business.AggregationType
		wantCode    string
	}{
		{name: "by-type is refund only", resource: business.ResourcePayout, aggregation: business.AggregateByType, wantCode: charts.CodeInvalidAggregation},
		{name: "by-channel is transaction only", resource: business.ResourceRefund, aggregation: business.AggregateByChannel, wantCode: charts.CodeInvalidAggregation},
		{name: "by-category is dispute only", resource: business.ResourceTransaction, aggregation: business.AggregateByCategory, wantCode: charts.CodeInvalidAggregation},
		{name: "by-hour is transaction only", resource: business.ResourceDispute, aggregation: business.AggregateByHour, wantCode: charts.CodeInvalidAggregation},
		{name: "unknown resource", resource: "invoice", aggregation: business.AggregateByDay, wantCode: charts.CodeInvalidResource},
		{name: "refund by-type is valid", resource: business.ResourceRefund, aggregation: business.AggregateByType},
		{name: "dispute by-resolution is valid", resource: business.ResourceDispute, aggregation: business.AggregateByResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			params.ResourceType = tt.resource
			params.AggregationType = tt.aggregation

			err := charts.ValidateParamsAt(params, testNow())
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var configErr *charts.ConfigurationError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.wantCode, configErr.Code)
		})
	}
}

func TestValidateParams_StatusVocabulary(t *testing.T) {
	params := validParams()
	params.Status = "settled"

	err := charts.ValidateParamsAt(params, testNow())

	var configErr *charts.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, charts.CodeInvalidStatus, configErr.Code)
	assert.Contains(t, configErr.Message, "settled")
	assert.Contains(t, configErr.Message, "success", "message should name the allowed set")

	params.Status = "success"
	assert.NoError(t, charts.ValidateParamsAt(params, testNow()))
}

func TestValidateParams_ChannelRules(t *testing.T) {
	t.Run("channel on non-transaction resource", func(t *testing.T) {
		params := validParams()
		params.ResourceType = business.ResourceRefund
		params.AggregationType = business.AggregateByStatus
		params.Channel = "card"

		err := charts.ValidateParamsAt(params, testNow())
		var configErr *charts.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, charts.CodeInvalidAggregation, configErr.Code)
	})

	t.Run("unknown channel value", func(t *testing.T) {
		params := validParams()
		params.Channel = "crypto"

		err := charts.ValidateParamsAt(params, testNow())
		var configErr *charts.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, charts.CodeInvalidChannel, configErr.Code)
	})

	t.Run("known channel on transaction", func(t *testing.T) {
		params := validParams()
		params.Channel = "mobile_money"
		assert.NoError(t, charts.ValidateParamsAt(params, testNow()))
	})
}

func TestValidateParams_DateRange(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		wantCode string
		wantMsg  []string
	}{
		{name: "no range", from: "", to: ""},
		{name: "exactly 30 days", from: "2024-11-01", to: "2024-12-01"},
		// 2024 is a leap year, so Jan 1 to Mar 1 spans 60 days, not 59.
		{name: "60 day leap year span rejected", from: "2024-01-01", to: "2024-03-01", wantCode: charts.CodeRangeTooLong, wantMsg: []string{"60", "30"}},
		{name: "59 day common year span rejected", from: "2023-01-01", to: "2023-03-01", wantCode: charts.CodeRangeTooLong, wantMsg: []string{"59", "30"}},
		{name: "from after to", from: "2024-12-10", to: "2024-12-01", wantCode: charts.CodeFromAfterTo},
		{name: "unparseable from", from: "12/01/2024", to: "2024-12-10", wantCode: charts.CodeInvalidDateFormat},
		{name: "unparseable to", from: "2024-12-01", to: "next tuesday", wantCode: charts.CodeInvalidDateFormat},
		// Missing bound defaults to now (2024-12-15) for span purposes.
		{name: "only from within bounds", from: "2024-12-01"},
		{name: "only from too old", from: "2024-10-01", wantCode: charts.CodeRangeTooLong},
		{name: "only to in the past is from-after-to", to: "2024-12-01", wantCode: charts.CodeFromAfterTo},
		// Whole-calendar-day comparison: 30 days apart stays valid even when
		// the timestamps span almost 31 wall-clock days.
		{name: "calendar day span ignores clock time", from: "2024-11-01T00:00:00Z", to: "2024-12-01T23:59:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			params.From = tt.from
			params.To = tt.to

			err := charts.ValidateParamsAt(params, testNow())
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var rangeErr *charts.DateRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.wantCode, rangeErr.Code)
			for _, fragment := range tt.wantMsg {
				assert.Contains(t, rangeErr.Message, fragment)
			}
		})
	}
}
