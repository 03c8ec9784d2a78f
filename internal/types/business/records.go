package business

import "time"

// DisputedTransaction is the transaction embedded in a dispute payload
type DisputedTransaction struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// RawRecord is the superset of fields the upstream payments API returns for
// transactions, refunds, payouts and disputes. Fields irrelevant to a given
// resource type are simply absent from its payload.
type RawRecord struct {
	ID          int64                `json:"id"`
	Amount      int64                `json:"amount"`
	Currency    string               `json:"currency"`
	CreatedAt   string               `json:"created_at"`
	Status      string               `json:"status"`
	Channel     string               `json:"channel,omitempty"`
	RefundType  string               `json:"refund_type,omitempty"`
	Category    string               `json:"category,omitempty"`
	Resolution  *string              `json:"resolution,omitempty"`
	Transaction *DisputedTransaction `json:"transaction,omitempty"`
}

// ChartableRecord is the normalized, resource-agnostic shape consumed by the
// aggregator. Created once per raw record and discarded after aggregation.
type ChartableRecord struct {
	Amount     int64
	Currency   string
	CreatedAt  time.Time
	Status     string
	Type       string
	Category   string
	Channel    string
	Resolution *string
}

// PageMeta is the pagination envelope returned alongside each upstream page
type PageMeta struct {
	Total     int64 `json:"total"`
	PerPage   int   `json:"perPage"`
	Page      int   `json:"page"`
	PageCount int   `json:"pageCount"`
}
