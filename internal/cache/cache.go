// Package cache stores scorer responses so repeated verification runs over
// the same statement pairs skip the external round trip.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface shared by the memory, disk, and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// BatchKey builds a stable cache key for one scorer batch from the
// concatenated pair texts.
func BatchKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "veritext:v1:" + hex.EncodeToString(h.Sum(nil))
}
