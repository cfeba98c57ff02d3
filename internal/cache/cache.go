package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores raw API response bodies keyed by request URL. Both upstream
// feeds refresh on a daily-or-slower cadence, so caching loses nothing.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a full request URL. The prefix is versioned
// so a schema change invalidates old entries instead of corrupting reads.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "helix:v1:" + hex.EncodeToString(hash[:])
}
