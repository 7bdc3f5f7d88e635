package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	apperrors "go-nft-marker/internal/errors"
	"go-nft-marker/internal/logger"
	"go-nft-marker/pkg/models"
)

// DefaultTTL is how long a cached analysis stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// entry is the on-disk form of one cached analysis.
type entry struct {
	CacheKey  string                `json:"cache_key"`
	CachedAt  time.Time             `json:"cached_at"`
	ImagePath string                `json:"image_path"`
	Analysis  models.AnalysisResult `json:"analysis"`
}

// AnalysisCache is a TTL-bounded, content-addressed cache of analysis
// results, one JSON file per entry. Keys bind to the (path, mtime,
// size) triple observed at write time, so replacing the file
// invalidates the old entry. All IO failures degrade to cache-miss
// behavior; corruption never blocks marker generation.
type AnalysisCache struct {
	dir string
	ttl time.Duration
	mu  sync.Mutex

	log *logrus.Entry
}

// NewAnalysisCache creates the cache, creating its directory up front.
func NewAnalysisCache(dir string, ttl time.Duration) (*AnalysisCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &AnalysisCache{
		dir: dir,
		ttl: ttl,
		log: logger.WithComponent("analysis_cache"),
	}, nil
}

// key derives the cache key from the file's absolute path, mtime and
// size. Identical mtime+size with different bytes is a pathological
// stale-hit case the design accepts.
func (c *AnalysisCache) key(imagePath string) (string, error) {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", abs, info.ModTime().UnixNano(), info.Size())))
	return hex.EncodeToString(sum[:16]), nil
}

func (c *AnalysisCache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached analysis for the image as it exists on disk
// right now, or (zero, false) on miss or expiry. Expired entries are
// deleted as a side effect of the miss.
func (c *AnalysisCache) Get(imagePath string) (models.AnalysisResult, bool) {
	key, err := c.key(imagePath)
	if err != nil {
		c.log.WithError(err).Debug("cache key derivation failed, treating as miss")
		return models.AnalysisResult{}, false
	}

	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return models.AnalysisResult{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.WithError(err).Warn("corrupt cache entry, treating as miss")
		c.remove(key)
		return models.AnalysisResult{}, false
	}

	if time.Since(e.CachedAt) > c.ttl {
		c.remove(key)
		return models.AnalysisResult{}, false
	}
	return e.Analysis, true
}

// Set unconditionally (over)writes the entry keyed by the image's
// current (path, mtime, size). Write failures are logged, not raised.
func (c *AnalysisCache) Set(imagePath string, analysis models.AnalysisResult) {
	key, err := c.key(imagePath)
	if err != nil {
		c.log.WithError(err).Debug("cache key derivation failed, skipping write")
		return
	}

	abs, _ := filepath.Abs(imagePath)
	e := entry{
		CacheKey:  key,
		CachedAt:  time.Now(),
		ImagePath: abs,
		Analysis:  analysis,
	}

	data, err := json.Marshal(e)
	if err != nil {
		c.log.WithError(err).Warn("cache entry marshal failed")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.WriteFile(c.entryPath(key), data, 0o644); err != nil {
		c.log.WithError(apperrors.NewCacheIOError("cache entry write failed", err)).Warn("cache write skipped")
	}
}

// ClearExpired sweeps all entries and deletes those older than the TTL,
// returning the number removed.
func (c *AnalysisCache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, name := range c.entryFiles() {
		path := filepath.Join(c.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e entry
		expired := json.Unmarshal(data, &e) != nil || time.Since(e.CachedAt) > c.ttl
		if expired {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		c.log.WithFields(logrus.Fields{"removed": removed}).Info("expired cache entries cleared")
	}
	return removed
}

// ClearAll deletes every entry and returns the number removed.
func (c *AnalysisCache) ClearAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, name := range c.entryFiles() {
		if err := os.Remove(filepath.Join(c.dir, name)); err == nil {
			removed++
		}
	}
	return removed
}

func (c *AnalysisCache) entryFiles() []string {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.log.WithError(err).Warn("cache dir unreadable")
		return nil
	}
	var names []string
	for _, de := range entries {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".json") {
			names = append(names, de.Name())
		}
	}
	return names
}

func (c *AnalysisCache) remove(key string) {
	if err := os.Remove(c.entryPath(key)); err != nil && !os.IsNotExist(err) {
		c.log.WithError(err).Debug("stale cache entry removal failed")
	}
}
