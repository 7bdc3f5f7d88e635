package generator

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-nft-marker/internal/analyzer"
	"go-nft-marker/internal/cache"
	"go-nft-marker/internal/config"
	"go-nft-marker/internal/encoder"
	apperrors "go-nft-marker/internal/errors"
	"go-nft-marker/internal/logger"
	"go-nft-marker/pkg/models"
	"go-nft-marker/pkg/validation"
)

// Generator is the public entry point of the marker subsystem. It
// validates source images, runs (optionally cached) analysis, drives
// the encoder and keeps the running metrics counters.
type Generator struct {
	cfg       *config.Config
	codec     encoder.Codec
	validator *validation.ImageValidator
	analyzer  *analyzer.FeatureAnalyzer
	encoder   *encoder.MarkerEncoder
	cache     *cache.AnalysisCache
	log       *logrus.Entry

	// metrics counters, guarded by mu to survive concurrent batches
	mu             sync.Mutex
	totalGenerated int
	totalTime      float64
	cacheHits      int64
	cacheMisses    int64
}

// New creates a generator with the production codec. All output
// directories are created here, not lazily inside later calls.
func New(cfg *config.Config) (*Generator, error) {
	return NewWithCodec(cfg, encoder.NewImagingCodec())
}

// NewWithCodec creates a generator with an explicit codec strategy.
func NewWithCodec(cfg *config.Config, codec encoder.Codec) (*Generator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	for _, dir := range []string{cfg.MarkersRoot, cfg.TempDir(), cfg.PresetsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	analysisCache, err := cache.NewAnalysisCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	return &Generator{
		cfg:       cfg,
		codec:     codec,
		validator: validation.NewImageValidator(),
		analyzer:  analyzer.NewFeatureAnalyzer(),
		encoder:   encoder.NewMarkerEncoder(codec),
		cache:     analysisCache,
		log:       logger.WithComponent("marker_generator"),
	}, nil
}

// Cache exposes the analysis cache for sweep/clear operations.
func (g *Generator) Cache() *cache.AnalysisCache {
	return g.cache
}

// loadValidated decodes and validates a source image. A nil image with
// a nil error means the codec is unavailable and encoding must degrade
// to placeholders.
func (g *Generator) loadValidated(imagePath string) (image.Image, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("image not found: %s", imagePath), err)
	}
	if !g.codec.Available() {
		return nil, nil
	}
	img, err := g.codec.Decode(imagePath)
	if err != nil {
		return nil, apperrors.NewValidationError("image could not be decoded", err)
	}
	if err := g.validator.Validate(img); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	return img, nil
}

// GenerateMarker produces the three marker files for one source image.
// Validation failures surface before the marker directory is created;
// once validation passes the marker directory always ends up holding
// all three files, degraded or not. Re-generating under the same name
// overwrites the previous files.
func (g *Generator) GenerateMarker(imagePath, markerName string, cfg *models.NFTMarkerConfig) (*models.NFTMarker, error) {
	start := time.Now()

	markerCfg := models.DefaultConfig()
	if cfg != nil {
		markerCfg = *cfg
	}
	if err := markerCfg.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	img, err := g.loadValidated(imagePath)
	if err != nil {
		return nil, err
	}

	markerDir := filepath.Join(g.cfg.MarkersRoot, markerName)
	if err := os.MkdirAll(markerDir, 0o755); err != nil {
		return nil, apperrors.NewProcessingError("create marker directory", err)
	}

	encodeImg := img
	var qualityScore *float64
	if img != nil {
		analysis := g.analyzer.Analyze(img)
		score := analysis.Contrast
		qualityScore = &score

		if markerCfg.AutoEnhanceContrast && models.QualityRank(analysis.Quality) <= models.QualityRank(models.QualityFair) {
			if enhanced := g.enhanceForEncoding(imagePath, markerCfg.ContrastFactor); enhanced != nil {
				encodeImg = enhanced
			}
		}
	}

	marker, err := g.encoder.Encode(encodeImg, imagePath, markerDir, markerName, markerCfg)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start).Seconds()
	marker.QualityScore = qualityScore
	marker.GenerationTime = elapsed

	g.mu.Lock()
	g.totalGenerated++
	g.totalTime += elapsed
	g.mu.Unlock()

	g.log.WithFields(logrus.Fields{
		"marker":  markerName,
		"seconds": elapsed,
	}).Info("marker generated")
	return marker, nil
}

// enhanceForEncoding runs the contrast pre-processing step for weak
// images. Any failure is logged and the original image is used.
func (g *Generator) enhanceForEncoding(imagePath string, factor float64) image.Image {
	enhancedPath, err := g.EnhanceContrast(imagePath, factor, "")
	if err != nil {
		g.log.WithError(err).Warn("contrast pre-enhancement failed, using original image")
		return nil
	}
	enhanced, err := g.codec.Decode(enhancedPath)
	// The temp copy only feeds this one encode; don't let it pile up
	// under temp/, which cleanup never sweeps.
	if rmErr := os.Remove(enhancedPath); rmErr != nil {
		g.log.WithError(rmErr).Debug("enhanced temp copy not removed")
	}
	if err != nil {
		g.log.WithError(err).Warn("enhanced image unreadable, using original image")
		return nil
	}
	return enhanced
}

// AnalyzeImage assesses the trackability of a source image, consulting
// the analysis cache first when enabled. Validation failures are
// reported inside the result, not as an error.
func (g *Generator) AnalyzeImage(imagePath string, useCache bool) (models.AnalysisResult, error) {
	if useCache {
		if result, ok := g.cache.Get(imagePath); ok {
			g.mu.Lock()
			g.cacheHits++
			g.mu.Unlock()
			return result, nil
		}
	}
	g.mu.Lock()
	g.cacheMisses++
	g.mu.Unlock()

	img, err := g.loadValidated(imagePath)
	if err != nil {
		return models.AnalysisResult{Valid: false, Message: err.Error()}, nil
	}
	if img == nil {
		return models.AnalysisResult{Valid: false, Message: "image codec unavailable"}, nil
	}

	result := g.analyzer.Analyze(img)
	if useCache && result.Valid {
		g.cache.Set(imagePath, result)
	}
	return result, nil
}

// GetMarkerInfo reports a marker's files and sizes, or nil unless all
// three files are present.
func (g *Generator) GetMarkerInfo(markerName string) *models.MarkerInfo {
	dir := filepath.Join(g.cfg.MarkersRoot, markerName)
	info := &models.MarkerInfo{
		Name:      markerName,
		FsetPath:  filepath.Join(dir, markerName+".fset"),
		Fset3Path: filepath.Join(dir, markerName+".fset3"),
		IsetPath:  filepath.Join(dir, markerName+".iset"),
	}

	sizes := []struct {
		path string
		dst  *int64
	}{
		{info.FsetPath, &info.FsetSize},
		{info.Fset3Path, &info.Fset3Size},
		{info.IsetPath, &info.IsetSize},
	}
	for _, s := range sizes {
		stat, err := os.Stat(s.path)
		if err != nil {
			return nil
		}
		*s.dst = stat.Size()
	}
	return info
}

// ListMarkers returns the marker names present under the markers root,
// sorted. The temp scratch directory is not a marker.
func (g *Generator) ListMarkers() []string {
	entries, err := os.ReadDir(g.cfg.MarkersRoot)
	if err != nil {
		g.log.WithError(err).Warn("markers root unreadable")
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != "temp" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Metrics returns the running counters plus derived rates.
func (g *Generator) Metrics() models.Metrics {
	g.mu.Lock()
	defer g.mu.Unlock()

	m := models.Metrics{
		TotalGenerated: g.totalGenerated,
		TotalTime:      g.totalTime,
		CacheHits:      g.cacheHits,
		CacheMisses:    g.cacheMisses,
	}
	if m.TotalGenerated > 0 {
		m.AvgTimePerMarker = m.TotalTime / float64(m.TotalGenerated)
	}
	if requests := m.CacheHits + m.CacheMisses; requests > 0 {
		m.CacheHitRate = float64(m.CacheHits) / float64(requests)
	}
	return m
}
