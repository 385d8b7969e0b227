// Package store caches serialized evaluation results so repeat pricing of an
// unchanged application skips the full pipeline. Keys are derived from a
// fingerprint of the application payload, which makes invalidation automatic:
// any edit to the file produces a new key.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultTTL bounds how long a cached evaluation stays valid. Rate sheets
// change intraday, so cached pricing goes stale quickly.
const DefaultTTL = 15 * time.Minute

const keyPrefix = "dscr:eval:"

// EvaluationCache stores serialized evaluations keyed by application
// fingerprint. A zero ttl stores the entry without expiry.
//
//go:generate mockgen -destination=mocks/mock_cache.go -source=cache.go EvaluationCache
type EvaluationCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var (
	_ EvaluationCache = (*RedisCache)(nil)
	_ EvaluationCache = (*MemoryCache)(nil)
)

// Fingerprint returns a stable hex digest of v's JSON encoding.
// encoding/json writes struct fields in declaration order and sorts map keys,
// so equal values always produce equal digests.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal fingerprint payload: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// EvaluationKey returns the cache key for an application payload.
func EvaluationKey(v any) (string, error) {
	fp, err := Fingerprint(v)
	if err != nil {
		return "", err
	}
	return keyPrefix + fp, nil
}
