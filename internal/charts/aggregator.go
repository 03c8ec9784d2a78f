package charts

import (
	"fmt"
	"math"
	"sort"

	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// DefaultUnknownLabel is the bucket name for records whose categorical key is
// missing or empty
const DefaultUnknownLabel = "unknown"

// bucketAccumulator carries the running totals for one (bucket, currency) pair
type bucketAccumulator struct {
	name   string
	count  int64
	volume int64
}

func (b *bucketAccumulator) toPoint(currency string) business.ChartDataPoint {
	return business.ChartDataPoint{
		Name:     b.name,
		Count:    b.count,
		Volume:   round2(float64(b.volume)),
		Average:  round2(float64(b.volume) / float64(b.count)),
		Currency: currency,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// timeBucket returns the chronological sort key and display name for a
// record's timestamp under the given time-based aggregation. All bucketing is
// done on the UTC clock so results do not depend on the process timezone.
func timeBucket(record business.ChartableRecord, aggregation business.AggregationType) (key, name string) {
	t := record.CreatedAt.UTC()
	switch aggregation {
	case business.AggregateByDay:
		return t.Format("2006-01-02"), t.Format("Monday, Jan 2")
	case business.AggregateByHour:
		label := fmt.Sprintf("%02d:00", t.Hour())
		return label, label
	case business.AggregateByWeek:
		// ISO week-year: weeks start Monday, week 1 contains the year's first
		// Thursday. Dec 31 can land in week 01 of the following year.
		year, week := t.ISOWeek()
		label := fmt.Sprintf("%d-W%02d", year, week)
		return label, label
	case business.AggregateByMonth:
		label := t.Format("2006-01")
		return label, label
	}
	return "", ""
}

// AggregateTimeSeries groups records into chronological buckets and splits the
// output into one series per currency present in the input. Buckets are sorted
// by their underlying time key.
func AggregateTimeSeries(records []business.ChartableRecord, aggregation business.AggregationType) []business.ChartSeries {
	// currency -> sort key -> accumulator
	byCurrency := make(map[string]map[string]*bucketAccumulator)
	for _, record := range records {
		key, name := timeBucket(record, aggregation)
		buckets, ok := byCurrency[record.Currency]
		if !ok {
			buckets = make(map[string]*bucketAccumulator)
			byCurrency[record.Currency] = buckets
		}
		acc, ok := buckets[key]
		if !ok {
			acc = &bucketAccumulator{name: name}
			buckets[key] = acc
		}
		acc.count++
		acc.volume += record.Amount
	}

	currencies := make([]string, 0, len(byCurrency))
	for currency := range byCurrency {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	series := make([]business.ChartSeries, 0, len(currencies))
	for _, currency := range currencies {
		buckets := byCurrency[currency]
		keys := make([]string, 0, len(buckets))
		for key := range buckets {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		points := make([]business.ChartDataPoint, 0, len(keys))
		for _, key := range keys {
			points = append(points, buckets[key].toPoint(currency))
		}
		series = append(series, business.ChartSeries{Currency: currency, Points: points})
	}

	return series
}

// KeySelector extracts the categorical bucket key from a record. A nil return
// routes the record into the unknown bucket.
type KeySelector func(business.ChartableRecord) *string

// KeyOption customizes categorical aggregation
type KeyOption func(*keyOptions)

type keyOptions struct {
	unknownLabel string
	less         func(a, b business.ChartDataPoint) bool
}

// WithUnknownLabel overrides the bucket name used for records without a key
func WithUnknownLabel(label string) KeyOption {
	return func(o *keyOptions) {
		o.unknownLabel = label
	}
}

// WithComparator overrides the default lexicographic point ordering
func WithComparator(less func(a, b business.ChartDataPoint) bool) KeyOption {
	return func(o *keyOptions) {
		o.less = less
	}
}

// AggregateByKey groups records into categorical buckets using the given key
// selector. Each bucket accumulates per currency, so a bucket spanning two
// currencies yields two points; amounts in different currencies are never
// summed together. Output ordering is deterministic: lexicographic by bucket
// name then currency, unless a comparator is supplied.
func AggregateByKey(records []business.ChartableRecord, selector KeySelector, opts ...KeyOption) []business.ChartDataPoint {
	options := keyOptions{unknownLabel: DefaultUnknownLabel}
	for _, opt := range opts {
		opt(&options)
	}

	// bucket name -> currency -> accumulator
	buckets := make(map[string]map[string]*bucketAccumulator)
	for _, record := range records {
		name := options.unknownLabel
		if key := selector(record); key != nil && *key != "" {
			name = *key
		}
		currencies, ok := buckets[name]
		if !ok {
			currencies = make(map[string]*bucketAccumulator)
			buckets[name] = currencies
		}
		acc, ok := currencies[record.Currency]
		if !ok {
			acc = &bucketAccumulator{name: name}
			currencies[record.Currency] = acc
		}
		acc.count++
		acc.volume += record.Amount
	}

	points := make([]business.ChartDataPoint, 0, len(buckets))
	for _, currencies := range buckets {
		for currency, acc := range currencies {
			points = append(points, acc.toPoint(currency))
		}
	}

	less := options.less
	if less == nil {
		less = func(a, b business.ChartDataPoint) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.Currency < b.Currency
		}
	}
	sort.Slice(points, func(i, j int) bool { return less(points[i], points[j]) })

	return points
}

// categoricalSelectors maps each categorical aggregation to its key selector
var categoricalSelectors = map[business.AggregationType]KeySelector{
	business.AggregateByStatus: func(r business.ChartableRecord) *string {
		return optionalKey(r.Status)
	},
	business.AggregateByChannel: func(r business.ChartableRecord) *string {
		return optionalKey(r.Channel)
	},
	business.AggregateByType: func(r business.ChartableRecord) *string {
		return optionalKey(r.Type)
	},
	business.AggregateByCategory: func(r business.ChartableRecord) *string {
		return optionalKey(r.Category)
	},
	business.AggregateByResolution: func(r business.ChartableRecord) *string {
		return r.Resolution
	},
}

func optionalKey(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// AggregateCategorical groups records by the field the aggregation names
func AggregateCategorical(records []business.ChartableRecord, aggregation business.AggregationType) ([]business.ChartDataPoint, error) {
	selector, ok := categoricalSelectors[aggregation]
	if !ok {
		return nil, NewConfigurationError(CodeInvalidAggregation, "aggregation %q is not categorical", aggregation)
	}
	return AggregateByKey(records, selector), nil
}
