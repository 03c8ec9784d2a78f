package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/finsight-hq/finsight-api/internal/charts"
	"github.com/finsight-hq/finsight-api/internal/client/upstream"
	"github.com/finsight-hq/finsight-api/internal/logger"
	"github.com/finsight-hq/finsight-api/internal/mocks"
	"github.com/finsight-hq/finsight-api/internal/services"
	"github.com/finsight-hq/finsight-api/internal/types/business"
)

func init() {
	logger.InitLogger("test")
}

func testChartParams() business.ChartParams {
	return business.ChartParams{
		ChartID:         "5f0640b2-5a47-4bbf-a16f-e5c2f0fce7cf",
		ResourceType:    business.ResourceTransaction,
		AggregationType: business.AggregateByDay,
	}
}

func makeRawRecords(n int) []business.RawRecord {
	records := make([]business.RawRecord, n)
	for i := range records {
		records[i] = business.RawRecord{
			Amount:    1000,
			Currency:  "NGN",
			CreatedAt: "2024-12-10T12:00:00Z",
			Status:    "success",
			Channel:   "card",
		}
	}
	return records
}

func collectFrames(t *testing.T, frames <-chan business.ChartGenerationState) []business.ChartGenerationState {
	t.Helper()
	var collected []business.ChartGenerationState
	for frame := range frames {
		collected = append(collected, frame)
	}
	return collected
}

func TestChartService_Generate_SingleShortPage(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	fetcher.EXPECT().
		FetchPage(gomock.Any(), "/transaction", upstream.FetchParams{Page: 1, PerPage: 100}).
		Return(makeRawRecords(3), business.PageMeta{}, nil).
		Times(1)

	framesChan, err := service.Generate(context.Background(), testChartParams())
	require.NoError(t, err)
	frames := collectFrames(t, framesChan)

	require.Len(t, frames, 3, "initial loading, post-page loading, terminal")
	assert.Equal(t, business.StateLoading, frames[0].Kind)
	assert.Equal(t, "Transaction Metrics by Day", frames[0].Label)
	assert.Equal(t, "area", frames[0].ChartType)
	assert.Equal(t, business.StateLoading, frames[1].Kind)
	assert.Contains(t, frames[1].Message, "3 transaction records")

	terminal := frames[2]
	assert.Equal(t, business.StateSuccess, terminal.Kind)
	assert.Equal(t, "Found 3 transaction records", terminal.Message)
	require.Len(t, terminal.ChartSeries, 1)
	assert.Nil(t, terminal.ChartData, "time-based aggregation yields series, not categorical data")
	require.NotNil(t, terminal.Summary)
	assert.Equal(t, int64(3), terminal.Summary.TotalCount)
	require.NotNil(t, terminal.Summary.TotalVolume)
	assert.Equal(t, float64(3000), *terminal.Summary.TotalVolume)
	assert.Nil(t, terminal.Summary.DateRange)
}

func TestChartService_Generate_StopsAtPageCap(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	// Every page comes back full, so only the cap stops the pipeline.
	fetcher.EXPECT().
		FetchPage(gomock.Any(), "/transaction", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, params upstream.FetchParams) ([]business.RawRecord, business.PageMeta, error) {
			return makeRawRecords(params.PerPage), business.PageMeta{}, nil
		}).
		Times(10)

	framesChan, err := service.Generate(context.Background(), testChartParams())
	require.NoError(t, err)
	frames := collectFrames(t, framesChan)

	terminal := frames[len(frames)-1]
	assert.Equal(t, business.StateSuccess, terminal.Kind)
	require.NotNil(t, terminal.Summary)
	assert.Equal(t, int64(1000), terminal.Summary.TotalCount, "record total is bounded by the page cap")
}

func TestChartService_Generate_StopsEarlyOnShortPage(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	gomock.InOrder(
		fetcher.EXPECT().
			FetchPage(gomock.Any(), "/transaction", upstream.FetchParams{Page: 1, PerPage: 100}).
			Return(makeRawRecords(100), business.PageMeta{}, nil),
		fetcher.EXPECT().
			FetchPage(gomock.Any(), "/transaction", upstream.FetchParams{Page: 2, PerPage: 100}).
			Return(makeRawRecords(40), business.PageMeta{}, nil),
	)

	framesChan, err := service.Generate(context.Background(), testChartParams())
	require.NoError(t, err)
	frames := collectFrames(t, framesChan)

	terminal := frames[len(frames)-1]
	assert.Equal(t, business.StateSuccess, terminal.Kind)
	assert.Equal(t, int64(140), terminal.Summary.TotalCount)
}

func TestChartService_Generate_ZeroRecordsIsSuccess(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	fetcher.EXPECT().
		FetchPage(gomock.Any(), "/transaction", gomock.Any()).
		Return(nil, business.PageMeta{}, nil).
		Times(1)

	framesChan, err := service.Generate(context.Background(), testChartParams())
	require.NoError(t, err)
	frames := collectFrames(t, framesChan)

	terminal := frames[len(frames)-1]
	assert.Equal(t, business.StateSuccess, terminal.Kind, "zero records is a valid outcome, not an error")
	assert.Contains(t, terminal.Message, "No transaction records found")
	assert.NotNil(t, terminal.ChartSeries)
	assert.Empty(t, terminal.ChartSeries)
	require.NotNil(t, terminal.Summary)
	assert.Equal(t, int64(0), terminal.Summary.TotalCount)
	require.NotNil(t, terminal.Summary.TotalVolume)
	assert.Equal(t, float64(0), *terminal.Summary.TotalVolume)
}

func TestChartService_Generate_UpstreamFailureAborts(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	fetcher.EXPECT().
		FetchPage(gomock.Any(), "/transaction", gomock.Any()).
		Return(nil, business.PageMeta{}, errors.New("upstream exploded")).
		Times(1)

	framesChan, err := service.Generate(context.Background(), testChartParams())
	require.NoError(t, err)
	frames := collectFrames(t, framesChan)

	require.Len(t, frames, 2, "initial loading then a single terminal error frame")
	terminal := frames[1]
	assert.Equal(t, business.StateError, terminal.Kind)
	assert.Equal(t, "Failed to fetch transaction data", terminal.Error)
	assert.Nil(t, terminal.Summary, "no partial aggregation on a failed page")
}

func TestChartService_Generate_ValidationRunsBeforeAnyFetch(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	params := testChartParams()
	params.ResourceType = business.ResourcePayout
	params.AggregationType = business.AggregateByType

	_, err := service.Generate(context.Background(), params)

	var configErr *charts.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, charts.CodeInvalidAggregation, configErr.Code)
}

func TestChartService_Generate_CategoricalUsesChartData(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	fetcher.EXPECT().
		FetchPage(gomock.Any(), "/transaction", gomock.Any()).
		Return(makeRawRecords(5), business.PageMeta{}, nil).
		Times(1)

	params := testChartParams()
	params.AggregationType = business.AggregateByChannel

	framesChan, err := service.Generate(context.Background(), params)
	require.NoError(t, err)
	frames := collectFrames(t, framesChan)

	terminal := frames[len(frames)-1]
	assert.Equal(t, business.StateSuccess, terminal.Kind)
	assert.Equal(t, "doughnut", terminal.ChartType)
	assert.Nil(t, terminal.ChartSeries)
	require.Len(t, terminal.ChartData, 1)
	assert.Equal(t, "card", terminal.ChartData[0].Name)
	assert.Equal(t, int64(5), terminal.ChartData[0].Count)
}

func TestChartService_Generate_FiltersForwardedToFetcher(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	params := testChartParams()
	params.From = "2024-12-01"
	params.To = "2024-12-10"
	params.Status = "success"
	params.Currency = "NGN"
	params.Channel = "card"

	fetcher.EXPECT().
		FetchPage(gomock.Any(), "/transaction", upstream.FetchParams{
			Page:     1,
			PerPage:  100,
			From:     "2024-12-01",
			To:       "2024-12-10",
			Status:   "success",
			Currency: "NGN",
			Channel:  "card",
		}).
		Return(makeRawRecords(1), business.PageMeta{}, nil).
		Times(1)

	framesChan, err := service.Generate(context.Background(), params)
	require.NoError(t, err)
	frames := collectFrames(t, framesChan)

	terminal := frames[len(frames)-1]
	require.NotNil(t, terminal.Summary)
	require.NotNil(t, terminal.Summary.DateRange)
	assert.Equal(t, "Dec 1, 2024", terminal.Summary.DateRange.From)
	assert.Equal(t, "Dec 10, 2024", terminal.Summary.DateRange.To)
}

func TestChartService_GenerateCached_ForwardsProgress(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	fetcher.EXPECT().
		FetchPage(gomock.Any(), "/transaction", gomock.Any()).
		Return(makeRawRecords(2), business.PageMeta{}, nil).
		Times(1)

	var progress []business.ChartGenerationState
	terminal, err := service.GenerateCached(context.Background(), testChartParams(), func(frame business.ChartGenerationState) {
		progress = append(progress, frame)
	})

	require.NoError(t, err)
	assert.Equal(t, business.StateSuccess, terminal.Kind)
	require.Len(t, progress, 2)
	for _, frame := range progress {
		assert.Equal(t, business.StateLoading, frame.Kind)
	}
}

func TestChartService_GenerateCached_ValidationError(t *testing.T) {
	fetcher := mocks.NewMockPageFetcherForTest(t)
	service := services.NewChartService(fetcher, nil)

	params := testChartParams()
	params.From = "2024-01-01"
	params.To = "2024-03-01"

	_, err := service.GenerateCached(context.Background(), params, nil)

	var rangeErr *charts.DateRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, charts.CodeRangeTooLong, rangeErr.Code)
}
