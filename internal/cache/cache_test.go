package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-nft-marker/pkg/models"
)

func writeImageFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func sampleResult() models.AnalysisResult {
	return models.AnalysisResult{
		Valid:      true,
		Width:      800,
		Height:     600,
		Brightness: 127.5,
		Contrast:   64.2,
		Quality:    models.QualityGood,
	}
}

func TestSetThenGet(t *testing.T) {
	dir := t.TempDir()
	c, err := NewAnalysisCache(filepath.Join(dir, "cache"), time.Hour)
	if err != nil {
		t.Fatalf("NewAnalysisCache: %v", err)
	}
	img := writeImageFile(t, dir, "photo.jpg", "fake image bytes")

	want := sampleResult()
	c.Set(img, want)

	got, ok := c.Get(img)
	if !ok {
		t.Fatal("expected cache hit on unmodified file")
	}
	if got != want {
		t.Errorf("cached result mismatch: got %+v, want %+v", got, want)
	}
}

func TestGetMissOnUnknownFile(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewAnalysisCache(filepath.Join(dir, "cache"), time.Hour)

	if _, ok := c.Get(filepath.Join(dir, "never-analyzed.jpg")); ok {
		t.Error("expected miss for file never analyzed")
	}
}

func TestTTLExpiryDeletesEntry(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewAnalysisCache(filepath.Join(dir, "cache"), 30*time.Millisecond)
	img := writeImageFile(t, dir, "photo.jpg", "fake image bytes")

	c.Set(img, sampleResult())
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get(img); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
	// The expired entry must be gone, so a sweep finds nothing.
	if removed := c.ClearExpired(); removed != 0 {
		t.Errorf("expired entry should have been deleted on access, sweep removed %d", removed)
	}
}

func TestFileChangeInvalidatesKey(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewAnalysisCache(filepath.Join(dir, "cache"), time.Hour)
	img := writeImageFile(t, dir, "photo.jpg", "original content")

	c.Set(img, sampleResult())

	// Different size guarantees a different key even if mtime
	// granularity is coarse.
	writeImageFile(t, dir, "photo.jpg", "replaced content, longer than before")

	if _, ok := c.Get(img); ok {
		t.Error("expected miss after file was replaced")
	}
}

func TestClearExpired(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewAnalysisCache(filepath.Join(dir, "cache"), 100*time.Millisecond)

	old := writeImageFile(t, dir, "old.jpg", "old")
	c.Set(old, sampleResult())
	time.Sleep(150 * time.Millisecond)

	fresh := writeImageFile(t, dir, "fresh.jpg", "fresh")
	c.Set(fresh, sampleResult())

	if removed := c.ClearExpired(); removed != 1 {
		t.Errorf("expected 1 expired entry removed, got %d", removed)
	}
	if _, ok := c.Get(fresh); !ok {
		t.Error("fresh entry should survive the sweep")
	}
}

func TestClearAll(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewAnalysisCache(filepath.Join(dir, "cache"), time.Hour)

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		img := writeImageFile(t, dir, name, name)
		c.Set(img, sampleResult())
	}

	if removed := c.ClearAll(); removed != 3 {
		t.Errorf("expected 3 entries removed, got %d", removed)
	}
	if removed := c.ClearAll(); removed != 0 {
		t.Errorf("second clear should remove nothing, got %d", removed)
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	c, _ := NewAnalysisCache(cacheDir, time.Hour)
	img := writeImageFile(t, dir, "photo.jpg", "fake image bytes")

	c.Set(img, sampleResult())

	// Corrupt the single entry file on disk.
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache file, got %d (err=%v)", len(entries), err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, entries[0].Name()), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get(img); ok {
		t.Error("corrupt entry must degrade to a miss, not block")
	}
}

func TestSetOverwrites(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewAnalysisCache(filepath.Join(dir, "cache"), time.Hour)
	img := writeImageFile(t, dir, "photo.jpg", "fake image bytes")

	first := sampleResult()
	c.Set(img, first)

	second := first
	second.Contrast = 91.0
	second.Quality = models.QualityExcellent
	c.Set(img, second)

	got, ok := c.Get(img)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Contrast != 91.0 || got.Quality != models.QualityExcellent {
		t.Errorf("expected overwritten entry, got %+v", got)
	}
}
