// Package cache provides the process-wide cache used by the enrichment
// pipeline, keyed by operation type plus URL or recipe identity. Two
// implementations exist: a bounded in-memory cache for a single process and
// a Redis-backed cache for multi-instance deployments.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the time-to-live applied to extraction and classification
// results unless configured otherwise.
const DefaultTTL = 24 * time.Hour

// Cache stores serialized values with a TTL. Get returns false on a miss
// or an expired entry; implementations treat backend errors as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// ExtractKey builds the cache key for extracted page data
func ExtractKey(url string) string {
	return "enrich:extract:" + url
}

// ClassifyKey builds the cache key for a classification result
func ClassifyKey(recipeID string) string {
	return "enrich:classify:" + recipeID
}
