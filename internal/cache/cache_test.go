package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key("https://api.fda.gov/device/510k.json?limit=10")
	k2 := Key("https://api.fda.gov/device/510k.json?limit=20")

	if !strings.HasPrefix(k1, "helix:v1:") {
		t.Errorf("expected versioned prefix, got %q", k1)
	}
	if k1 == k2 {
		t.Error("different URLs must produce different keys")
	}
	if k1 != Key("https://api.fda.gov/device/510k.json?limit=10") {
		t.Error("same URL must produce the same key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("https://example.com/a")

	if _, found := c.Get(key); found {
		t.Error("expected a miss on an empty cache")
	}

	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "payload" {
		t.Errorf("expected hit with payload, got %q found=%v", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected a miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("https://example.com/expiring")

	_ = c.Set(key, []byte("short-lived"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("https://example.com/b")

	if err := c.Set(key, []byte("persisted"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "persisted" {
		t.Errorf("expected hit with persisted value, got %q found=%v", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected a miss after delete")
	}
}

func TestDiskCache_ExpiredEntryIsRemoved(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("https://example.com/stale")

	_ = c.Set(key, []byte("stale"), -time.Second)

	if _, found := c.Get(key); found {
		t.Error("expected expired entry to miss")
	}
	// The expired file is removed, so a second read also misses cleanly
	if _, found := c.Get(key); found {
		t.Error("expected repeated miss after removal")
	}
}

func TestDiskCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	key := Key("https://example.com/c")

	_ = NewDiskCache(dir, time.Minute).Set(key, []byte("across runs"), time.Minute)

	val, found := NewDiskCache(dir, time.Minute).Get(key)
	if !found || string(val) != "across runs" {
		t.Errorf("expected value to survive a new cache instance, got %q found=%v", val, found)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("https://example.com/d")

	// Seed only the disk layer, as a previous run would have
	if err := NewDiskCache(dir, time.Minute).Set(key, []byte("from disk"), time.Minute); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "from disk" {
		t.Fatalf("expected disk hit, got %q found=%v", val, found)
	}

	// The hit is promoted: clearing disk must not cause a miss
	if err := NewDiskCache(dir, time.Minute).Clear(); err != nil {
		t.Fatalf("clear disk: %v", err)
	}
	val, found = c.Get(key)
	if !found || string(val) != "from disk" {
		t.Errorf("expected promoted memory hit, got %q found=%v", val, found)
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("https://example.com/e")

	if err := c.Set(key, []byte("both"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	if val, found := NewDiskCache(dir, time.Minute).Get(key); !found || string(val) != "both" {
		t.Errorf("expected disk layer to hold the value, got %q found=%v", val, found)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected a miss after clear")
	}
}

func TestLayeredCache_ZeroTTLUsesLayerDefaults(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Hour, dir, 24*time.Hour)
	key := Key("https://example.com/f")

	if err := c.Set(key, []byte("layered"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, key+".cache"))
	if err != nil {
		t.Fatalf("read disk entry: %v", err)
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("unmarshal disk entry: %v", err)
	}

	remaining := time.Until(entry.ExpiresAt)
	if remaining < 23*time.Hour || remaining > 25*time.Hour {
		t.Errorf("disk entry expires in %v, want the 24h disk default", remaining)
	}
}
