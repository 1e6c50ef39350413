package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
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

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss on unknown key
	_, hit, err := c.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get on unknown key should miss")
	}

	// Roundtrip
	want := []byte(`{"group_id":"com.example"}`)
	if err := c.Set(ctx, "pom:abc", want, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "pom:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(got) != string(want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// Delete removes the entry
	if err := c.Delete(ctx, "pom:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "pom:abc")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "pom:abc"); err != nil {
		t.Errorf("Delete on missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Already-expired entry is a miss
	if err := c.Set(ctx, "stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Expired entry should miss")
	}

	// Zero TTL means no expiration
	if err := c.Set(ctx, "forever", []byte("keep"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "forever")
	if !hit {
		t.Error("Entry with zero TTL should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Corrupt the stored entry on disk
	if err := c.Set(ctx, "key", []byte("data"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	path := c.(*FileCache).path("key")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	// Corrupt entries are treated as a miss and removed
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Corrupt entry should miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Corrupt entry should be removed")
	}
}

func TestFileCachePathFanout(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Keys fan out into two-character subdirectories
	path := c.(*FileCache).path("some-key")
	dir := filepath.Base(filepath.Dir(path))
	if len(dir) != 2 {
		t.Errorf("subdirectory %q should be two characters", dir)
	}
	if filepath.Ext(path) != ".json" {
		t.Errorf("entry %q should have .json extension", path)
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
	mtime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	key := k.DescriptorKey("/repo/pom.xml", mtime, 1024)
	if !strings.HasPrefix(key, "pom:") {
		t.Errorf("DescriptorKey should have pom: prefix: %s", key)
	}

	// Same inputs produce the same key
	if key != k.DescriptorKey("/repo/pom.xml", mtime, 1024) {
		t.Error("DescriptorKey should be deterministic")
	}

	// Changing any input produces a different key
	if key == k.DescriptorKey("/repo/other/pom.xml", mtime, 1024) {
		t.Error("Different paths should produce different keys")
	}
	if key == k.DescriptorKey("/repo/pom.xml", mtime.Add(time.Second), 1024) {
		t.Error("Different mtimes should produce different keys")
	}
	if key == k.DescriptorKey("/repo/pom.xml", mtime, 2048) {
		t.Error("Different sizes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "ws:abc123:")
	mtime := time.Now()

	key := scoped.DescriptorKey("/repo/pom.xml", mtime, 100)
	if !strings.HasPrefix(key, "ws:abc123:") {
		t.Errorf("ScopedKeyer key should be prefixed: %s", key)
	}
	if strings.TrimPrefix(key, "ws:abc123:") != inner.DescriptorKey("/repo/pom.xml", mtime, 100) {
		t.Error("ScopedKeyer should preserve the inner key")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.DescriptorKey("/pom.xml", time.Now(), 1)
	if !strings.HasPrefix(key, "prefix:pom:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestWorkspacePrefix(t *testing.T) {
	p1 := WorkspacePrefix("/repo/a")
	p2 := WorkspacePrefix("/repo/a")
	p3 := WorkspacePrefix("/repo/b")

	if p1 != p2 {
		t.Error("WorkspacePrefix should be deterministic")
	}
	if p1 == p3 {
		t.Error("Different roots should produce different prefixes")
	}
	if !strings.HasPrefix(p1, "ws:") || !strings.HasSuffix(p1, ":") {
		t.Errorf("Unexpected prefix format: %s", p1)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errPermanent := errors.New("permanent")

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
