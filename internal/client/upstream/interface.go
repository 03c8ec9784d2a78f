package upstream

import (
	"context"

	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// FetchParams carries pagination plus the validated filter set for one page
// request against the upstream payments API
type FetchParams struct {
	Page     int
	PerPage  int
	From     string
	To       string
	Status   string
	Currency string
	Channel  string
}

// PageFetcher retrieves one page of raw records from the upstream payments
// API. A page shorter than PerPage signals the end of the collection; any
// returned error is fatal for the requesting pipeline.
type PageFetcher interface {
	FetchPage(ctx context.Context, endpoint string, params FetchParams) ([]business.RawRecord, business.PageMeta, error)
}

// resourceEndpoints maps each chartable resource to its upstream collection
// path. Payouts live under the settlement collection upstream.
var resourceEndpoints = map[business.ResourceType]string{
	business.ResourceTransaction: "/transaction",
	business.ResourceRefund:      "/refund",
	business.ResourcePayout:      "/settlement",
	business.ResourceDispute:     "/dispute",
}

// EndpointFor returns the upstream collection path for a resource type
func EndpointFor(resource business.ResourceType) (string, bool) {
	endpoint, ok := resourceEndpoints[resource]
	return endpoint, ok
}
