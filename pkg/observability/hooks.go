// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about template rendering, persistence, uploads, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, layout, format)
//	// ... render the template ...
//	observability.Render().OnRenderComplete(ctx, layout, format, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the rendering pipeline.
type RenderHooks interface {
	// OnRenderStart records the start of a render.
	OnRenderStart(ctx context.Context, layout, format string)

	// OnRenderComplete records a finished render with the output size in bytes.
	OnRenderComplete(ctx context.Context, layout, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from template persistence.
type StoreHooks interface {
	// OnTemplateSaved records an insert or update.
	OnTemplateSaved(ctx context.Context, orgID, templateID string)

	// OnTemplateDeleted records a delete.
	OnTemplateDeleted(ctx context.Context, orgID, templateID string)

	// OnAssetsReleased records asset URLs handed to the janitor.
	OnAssetsReleased(ctx context.Context, orgID string, count int)
}

// =============================================================================
// Upload Hooks
// =============================================================================

// UploadHooks receives events from asset uploads.
type UploadHooks interface {
	// OnUpload records a successful upload.
	OnUpload(ctx context.Context, filename string, size int)

	// OnUploadError records a failed upload.
	OnUploadError(ctx context.Context, filename string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnTemplateSaved(context.Context, string, string)   {}
func (NoopStoreHooks) OnTemplateDeleted(context.Context, string, string) {}
func (NoopStoreHooks) OnAssetsReleased(context.Context, string, int)     {}

// NoopUploadHooks is a no-op implementation of UploadHooks.
type NoopUploadHooks struct{}

func (NoopUploadHooks) OnUpload(context.Context, string, int)        {}
func (NoopUploadHooks) OnUploadError(context.Context, string, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	uploadHooks UploadHooks = NoopUploadHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any renders.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetUploadHooks registers custom upload hooks.
// This should be called once at application startup before any uploads.
func SetUploadHooks(h UploadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		uploadHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// TemplateStore returns the registered store hooks.
func TemplateStore() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Upload returns the registered upload hooks.
func Upload() UploadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return uploadHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	storeHooks = NoopStoreHooks{}
	uploadHooks = NoopUploadHooks{}
	cacheHooks = NoopCacheHooks{}
}
