package charts

import (
	"time"

	"github.com/pkg/errors"

	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// accessorSet maps one upstream record shape onto the normalized chartable
// fields. Optional accessors are nil for resources that lack the field.
type accessorSet struct {
	amount     func(business.RawRecord) int64
	currency   func(business.RawRecord) string
	createdAt  func(business.RawRecord) string
	status     func(business.RawRecord) string
	recordType func(business.RawRecord) string
	category   func(business.RawRecord) string
	channel    func(business.RawRecord) string
	resolution func(business.RawRecord) *string
}

func baseAccessors() accessorSet {
	return accessorSet{
		amount:    func(r business.RawRecord) int64 { return r.Amount },
		currency:  func(r business.RawRecord) string { return r.Currency },
		createdAt: func(r business.RawRecord) string { return r.CreatedAt },
		status:    func(r business.RawRecord) string { return r.Status },
	}
}

// resourceAccessors selects the accessor bundle per resource type. Adding a
// new resource means adding one entry here.
var resourceAccessors = map[business.ResourceType]accessorSet{
	business.ResourceTransaction: func() accessorSet {
		a := baseAccessors()
		a.channel = func(r business.RawRecord) string { return r.Channel }
		return a
	}(),
	business.ResourceRefund: func() accessorSet {
		a := baseAccessors()
		a.recordType = func(r business.RawRecord) string { return r.RefundType }
		return a
	}(),
	business.ResourcePayout: baseAccessors(),
	business.ResourceDispute: func() accessorSet {
		a := baseAccessors()
		// Dispute payloads often carry the amount and currency only on the
		// embedded disputed transaction.
		a.amount = func(r business.RawRecord) int64 {
			if r.Amount == 0 && r.Transaction != nil {
				return r.Transaction.Amount
			}
			return r.Amount
		}
		a.currency = func(r business.RawRecord) string {
			if r.Currency == "" && r.Transaction != nil {
				return r.Transaction.Currency
			}
			return r.Currency
		}
		a.category = func(r business.RawRecord) string { return r.Category }
		a.resolution = func(r business.RawRecord) *string { return r.Resolution }
		return a
	}(),
}

// NormalizeRecords converts raw upstream records into chartable records using
// the accessor bundle for the given resource type. Unknown resource types are
// a configuration error.
func NormalizeRecords(resource business.ResourceType, raw []business.RawRecord) ([]business.ChartableRecord, error) {
	accessors, ok := resourceAccessors[resource]
	if !ok {
		return nil, NewConfigurationError(CodeInvalidResource, "unknown resource type %q", resource)
	}

	records := make([]business.ChartableRecord, 0, len(raw))
	for i, r := range raw {
		createdAt, err := time.Parse(time.RFC3339, accessors.createdAt(r))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse created_at of %s record %d", resource, i)
		}

		record := business.ChartableRecord{
			Amount:    accessors.amount(r),
			Currency:  accessors.currency(r),
			CreatedAt: createdAt,
			Status:    accessors.status(r),
		}
		if accessors.recordType != nil {
			record.Type = accessors.recordType(r)
		}
		if accessors.category != nil {
			record.Category = accessors.category(r)
		}
		if accessors.channel != nil {
			record.Channel = accessors.channel(r)
		}
		if accessors.resolution != nil {
			record.Resolution = accessors.resolution(r)
		}
		records = append(records, record)
	}

	return records, nil
}
