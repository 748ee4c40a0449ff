package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("png-bytes"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || !bytes.Equal(data, []byte("png-bytes")) {
		t.Errorf("Get = (%q, %v), want stored value", data, hit)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}

	// Expired entries are a miss
	if err := c.Set(ctx, "ttl", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "ttl"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "render:abc", []byte("image"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "render:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || !bytes.Equal(data, []byte("image")) {
		t.Errorf("Get = (%q, %v), want stored value", data, hit)
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "render:missing"); err != nil {
		t.Errorf("Delete missing key error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	config := []byte(`{"layout":"custom"}`)
	content := map[string]string{"title": "Hello"}

	// Same inputs produce the same key
	k1 := k.RenderKey(config, content, "png", 1)
	k2 := k.RenderKey(config, map[string]string{"title": "Hello"}, "png", 1)
	if k1 != k2 {
		t.Error("RenderKey should be deterministic for equal inputs")
	}

	// Every input participates in the key
	if k1 == k.RenderKey([]byte(`{"layout":"hero-image"}`), content, "png", 1) {
		t.Error("Different configs should produce different keys")
	}
	if k1 == k.RenderKey(config, map[string]string{"title": "Bye"}, "png", 1) {
		t.Error("Different content should produce different keys")
	}
	if k1 == k.RenderKey(config, content, "svg", 1) {
		t.Error("Different formats should produce different keys")
	}
	if k1 == k.RenderKey(config, content, "png", 2) {
		t.Error("Different scales should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "org:acme:")

	key := scoped.RenderKey([]byte(`{}`), nil, "png", 1)
	if len(key) < 9 || key[:9] != "org:acme:" {
		t.Errorf("ScopedKeyer key should be prefixed: %s", key)
	}
	if key[9:] != inner.RenderKey([]byte(`{}`), nil, "png", 1) {
		t.Errorf("ScopedKeyer should delegate to inner keyer: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.RenderKey([]byte(`{}`), nil, "png", 1)
	want := "prefix:" + NewDefaultKeyer().RenderKey([]byte(`{}`), nil, "png", 1)
	if key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
