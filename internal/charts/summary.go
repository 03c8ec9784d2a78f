package charts

import (
	"sort"

	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// Summarize computes overall and per-currency totals for the full record set.
// When exactly one currency is present the top-level volume and average mirror
// that currency's totals; with more than one currency they are explicitly nil
// so cross-currency figures are never conflated. The date range is embedded
// only when one was supplied.
func Summarize(records []business.ChartableRecord, dateRange *business.SummaryDateRange) business.ChartSummary {
	type totals struct {
		count  int64
		volume int64
	}
	byCurrency := make(map[string]*totals)
	for _, record := range records {
		t, ok := byCurrency[record.Currency]
		if !ok {
			t = &totals{}
			byCurrency[record.Currency] = t
		}
		t.count++
		t.volume += record.Amount
	}

	currencies := make([]string, 0, len(byCurrency))
	for currency := range byCurrency {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	summary := business.ChartSummary{
		TotalCount:  int64(len(records)),
		PerCurrency: make([]business.CurrencyTotals, 0, len(currencies)),
		DateRange:   dateRange,
	}
	for _, currency := range currencies {
		t := byCurrency[currency]
		summary.PerCurrency = append(summary.PerCurrency, business.CurrencyTotals{
			Currency:       currency,
			TotalCount:     t.count,
			TotalVolume:    round2(float64(t.volume)),
			OverallAverage: round2(float64(t.volume) / float64(t.count)),
		})
	}

	switch len(summary.PerCurrency) {
	case 0:
		zero := 0.0
		summary.TotalVolume = &zero
		average := 0.0
		summary.OverallAverage = &average
	case 1:
		volume := summary.PerCurrency[0].TotalVolume
		average := summary.PerCurrency[0].OverallAverage
		summary.TotalVolume = &volume
		summary.OverallAverage = &average
	default:
		// More than one currency: top-level figures stay nil.
	}

	return summary
}
