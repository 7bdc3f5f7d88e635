package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	apperrors "go-nft-marker/internal/errors"
	"go-nft-marker/pkg/models"
)

// presetFile is the on-disk form of a named config snapshot. Presets
// are immutable once written; re-export overwrites.
type presetFile struct {
	Name      string                 `json:"name"`
	CreatedAt time.Time              `json:"created_at"`
	Config    map[string]interface{} `json:"config"`
}

// ExportConfig stores the config as a named preset and returns the
// preset file path.
func (g *Generator) ExportConfig(cfg models.NFTMarkerConfig, presetName string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", apperrors.NewValidationError(err.Error(), nil)
	}

	preset := presetFile{
		Name:      presetName,
		CreatedAt: time.Now(),
		Config:    cfg.ToMap(),
	}
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return "", apperrors.NewProcessingError("marshal preset", err)
	}

	path := g.presetPath(presetName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.NewProcessingError("write preset", err)
	}
	return path, nil
}

// ImportConfig loads a named preset back into a config.
func (g *Generator) ImportConfig(presetName string) (models.NFTMarkerConfig, error) {
	data, err := os.ReadFile(g.presetPath(presetName))
	if err != nil {
		if os.IsNotExist(err) {
			return models.NFTMarkerConfig{}, apperrors.NewNotFoundError(
				fmt.Sprintf("preset not found: %s", presetName), err)
		}
		return models.NFTMarkerConfig{}, apperrors.NewProcessingError("read preset", err)
	}

	var preset presetFile
	if err := json.Unmarshal(data, &preset); err != nil {
		return models.NFTMarkerConfig{}, apperrors.NewProcessingError("parse preset", err)
	}
	cfg, err := models.ConfigFromMap(preset.Config)
	if err != nil {
		return models.NFTMarkerConfig{}, apperrors.NewValidationError(err.Error(), nil)
	}
	return cfg, nil
}

// ListPresets returns all stored presets sorted by name. Unreadable
// preset files are skipped.
func (g *Generator) ListPresets() []models.PresetInfo {
	entries, err := os.ReadDir(g.cfg.PresetsDir)
	if err != nil {
		return nil
	}

	var presets []models.PresetInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(g.cfg.PresetsDir, e.Name()))
		if err != nil {
			continue
		}
		var preset presetFile
		if err := json.Unmarshal(data, &preset); err != nil {
			g.log.WithError(err).Warn("skipping unreadable preset")
			continue
		}
		cfg, err := models.ConfigFromMap(preset.Config)
		if err != nil {
			continue
		}
		presets = append(presets, models.PresetInfo{
			Name:      preset.Name,
			CreatedAt: preset.CreatedAt,
			Config:    cfg,
		})
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets
}

func (g *Generator) presetPath(presetName string) string {
	return filepath.Join(g.cfg.PresetsDir, presetName+".json")
}
