package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/finsight-hq/finsight-api/internal/constants"
	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// hashLength is the hex prefix length of the canonical filter digest
const hashLength = 16

// canonicalKeyParams is the fixed-order canonical form of a chart filter set.
// Optional fields are normalized to null so presence-vs-absence of a filter
// does not change the key when its effective value is the same.
type canonicalKeyParams struct {
	ChartID         string  `json:"chartId"`
	ResourceType    string  `json:"resourceType"`
	AggregationType string  `json:"aggregationType"`
	From            *string `json:"from"`
	To              *string `json:"to"`
	Status          *string `json:"status"`
	Currency        *string `json:"currency"`
	Channel         *string `json:"channel"`
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// BuildChartKey derives the deterministic cache key for a chart filter set:
// chart:<chartId>:<hash>, where the hash is a truncated SHA-256 digest of the
// canonicalized filter JSON. Identical logical configs yield identical keys;
// any single differing filter value yields a different key.
func BuildChartKey(params business.ChartParams) string {
	canonical := canonicalKeyParams{
		ChartID:         params.ChartID,
		ResourceType:    string(params.ResourceType),
		AggregationType: string(params.AggregationType),
		From:            nullable(params.From),
		To:              nullable(params.To),
		Status:          nullable(params.Status),
		Currency:        nullable(params.Currency),
		Channel:         nullable(params.Channel),
	}

	// Struct fields marshal in declaration order, so the JSON is canonical.
	payload, err := json.Marshal(canonical)
	if err != nil {
		// Marshalling a flat struct of strings cannot fail at runtime.
		panic("failed to marshal cache key params: " + err.Error())
	}

	digest := sha256.Sum256(payload)
	return fmt.Sprintf("%s:%s:%s",
		constants.ChartCacheKeyPrefix, params.ChartID, hex.EncodeToString(digest[:])[:hashLength])
}

// ChartKeyPattern matches every cache entry derived for one saved chart
// configuration, for bulk invalidation.
func ChartKeyPattern(chartID string) string {
	return fmt.Sprintf("%s:%s:*", constants.ChartCacheKeyPrefix, chartID)
}
