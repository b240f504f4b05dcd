package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching fetched article pages
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey generates a cache key for a fetched page URL
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "medclarify:page:v1:" + hex.EncodeToString(hash[:])
}
