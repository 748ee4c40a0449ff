package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Each organization gets its own cache namespace so one tenant's
// entries can be invalidated or evicted without touching another's.
//
// Example usage:
//
//	orgKeyer := NewScopedKeyer(NewDefaultKeyer(), "org:acme:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed key for render-output caching.
func (k *ScopedKeyer) RenderKey(config []byte, content map[string]string, format string, scale float64) string {
	return k.prefix + k.inner.RenderKey(config, content, format, scale)
}
