package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestPageKey_Deterministic(t *testing.T) {
	a := PageKey("https://nih.gov/article")
	b := PageKey("https://nih.gov/article")
	if a != b {
		t.Errorf("Expected identical keys, got %q and %q", a, b)
	}

	c := PageKey("https://cdc.gov/other")
	if a == c {
		t.Error("Expected different URLs to produce different keys")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("page body"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get("k")
	if !found {
		t.Fatal("Expected key to be found")
	}
	if !bytes.Equal(got, []byte("page body")) {
		t.Errorf("Got %q, want %q", got, "page body")
	}

	if _, found := c.Get("missing"); found {
		t.Error("Expected missing key not to be found")
	}
}

func TestDiskCache_SetGetExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set(PageKey("https://who.int/page"), []byte("content"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(PageKey("https://who.int/page"))
	if !found || string(got) != "content" {
		t.Errorf("Get = (%q, %v), want (content, true)", got, found)
	}

	// Expired entry is dropped on read
	if err := c.Set("expired", []byte("x"), -time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("expired"); found {
		t.Error("Expected expired entry not to be found")
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Hour)

	// Write directly to disk layer only
	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := layered.Get("k")
	if !found || string(got) != "v" {
		t.Fatalf("Get = (%q, %v), want (v, true)", got, found)
	}

	// Now present in the memory layer too
	if _, found := layered.memory.Get("k"); !found {
		t.Error("Expected value promoted to memory layer")
	}
}
