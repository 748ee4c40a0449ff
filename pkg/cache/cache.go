// Package cache stores rendered template images keyed by the exact
// inputs that produced them.
//
// Rendering a template is deterministic: the same config bytes, content
// bag, format, and scale always yield the same image. That makes the
// render output safe to cache indefinitely; entries are keyed by a
// SHA-256 over those inputs, so any edit to the template or its content
// naturally misses.
//
// Backends:
//   - memory: for development and single-instance deployments
//   - redis: for production multi-instance deployments
//   - file: for CLI usage (persists across invocations)
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for render-output caching backends.
type Cache interface {
	// Get retrieves a cached value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for render outputs.
type Keyer interface {
	// RenderKey keys one rendered image by everything that determines
	// its pixels: the serialized config, the content bag, the output
	// format, and the raster scale.
	RenderKey(config []byte, content map[string]string, format string, scale float64) string
}

// DefaultKeyer hashes render inputs into "render:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey implements Keyer.
func (k *DefaultKeyer) RenderKey(config []byte, content map[string]string, format string, scale float64) string {
	return hashKey("render", string(config), content, format, scale)
}
