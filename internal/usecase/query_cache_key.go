package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type jobsQueryKeyInput struct {
	County string `json:"county"`
	Sector string `json:"sector"`
	Type   string `json:"type"`
	Q      string `json:"q"`
	Limit  int    `json:"limit"`
}

func normalizeFilterValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// JobsQueryCacheKey digests the normalized filter set so equivalent
// queries share one cache entry. The "jobs:query:" prefix must stay in
// step with the invalidation pattern in the cache layer.
func JobsQueryCacheKey(params JobsQueryParams) string {
	in := jobsQueryKeyInput{
		County: normalizeFilterValue(params.County),
		Sector: normalizeFilterValue(params.Sector),
		Type:   normalizeFilterValue(params.Type),
		Q:      normalizeFilterValue(params.Q),
		Limit:  params.Limit,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "jobs:query:" + hex.EncodeToString(sum[:])
}
