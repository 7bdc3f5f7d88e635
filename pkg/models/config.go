package models

import "fmt"

// FeatureDensity controls how tightly the feature grid is scanned.
type FeatureDensity string

const (
	DensityLow    FeatureDensity = "low"
	DensityMedium FeatureDensity = "medium"
	DensityHigh   FeatureDensity = "high"
)

// GridStep returns the scan step in pixels for this density.
func (d FeatureDensity) GridStep() int {
	switch d {
	case DensityLow:
		return 20
	case DensityHigh:
		return 5
	default:
		return 10
	}
}

// Code returns the numeric density code written into the .fset header.
func (d FeatureDensity) Code() uint32 {
	switch d {
	case DensityLow:
		return 1
	case DensityHigh:
		return 3
	default:
		return 2
	}
}

// Valid reports whether d is one of the known density levels.
func (d FeatureDensity) Valid() bool {
	return d == DensityLow || d == DensityMedium || d == DensityHigh
}

// NFTMarkerConfig holds the generation parameters for a marker.
// It is a value object; callers pass it by value and it is never
// mutated after construction.
type NFTMarkerConfig struct {
	MinDPI              int            `json:"min_dpi"`
	MaxDPI              int            `json:"max_dpi"`
	Levels              int            `json:"levels"`
	FeatureDensity      FeatureDensity `json:"feature_density"`
	AutoEnhanceContrast bool           `json:"auto_enhance_contrast"`
	ContrastFactor      float64        `json:"contrast_factor"`
}

// DefaultConfig returns the standard generation parameters.
func DefaultConfig() NFTMarkerConfig {
	return NFTMarkerConfig{
		MinDPI:              72,
		MaxDPI:              300,
		Levels:              3,
		FeatureDensity:      DensityMedium,
		AutoEnhanceContrast: false,
		ContrastFactor:      1.2,
	}
}

// HighDetailConfig returns parameters tuned for detailed source images.
func HighDetailConfig() NFTMarkerConfig {
	cfg := DefaultConfig()
	cfg.FeatureDensity = DensityHigh
	cfg.MinDPI = 150
	return cfg
}

// LowDetailConfig returns parameters tuned for fast generation on
// simple source images.
func LowDetailConfig() NFTMarkerConfig {
	cfg := DefaultConfig()
	cfg.FeatureDensity = DensityLow
	return cfg
}

// Validate checks the config invariants.
func (c NFTMarkerConfig) Validate() error {
	if c.Levels < 1 {
		return fmt.Errorf("levels must be >= 1 (got %d)", c.Levels)
	}
	if !c.FeatureDensity.Valid() {
		return fmt.Errorf("unknown feature density %q", c.FeatureDensity)
	}
	return nil
}

// ToMap serializes the config to a plain key-value map for storage
// as a named preset.
func (c NFTMarkerConfig) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"min_dpi":               c.MinDPI,
		"max_dpi":               c.MaxDPI,
		"levels":                c.Levels,
		"feature_density":       string(c.FeatureDensity),
		"auto_enhance_contrast": c.AutoEnhanceContrast,
		"contrast_factor":       c.ContrastFactor,
	}
}

// ConfigFromMap rebuilds a config from its map form, applying defaults
// for missing keys and validating the density against the closed enum.
func ConfigFromMap(m map[string]interface{}) (NFTMarkerConfig, error) {
	cfg := DefaultConfig()
	if v, ok := m["min_dpi"]; ok {
		cfg.MinDPI = toInt(v, cfg.MinDPI)
	}
	if v, ok := m["max_dpi"]; ok {
		cfg.MaxDPI = toInt(v, cfg.MaxDPI)
	}
	if v, ok := m["levels"]; ok {
		cfg.Levels = toInt(v, cfg.Levels)
	}
	if v, ok := m["feature_density"]; ok {
		if s, ok := v.(string); ok {
			cfg.FeatureDensity = FeatureDensity(s)
		}
	}
	if v, ok := m["auto_enhance_contrast"]; ok {
		if b, ok := v.(bool); ok {
			cfg.AutoEnhanceContrast = b
		}
	}
	if v, ok := m["contrast_factor"]; ok {
		if f, ok := v.(float64); ok {
			cfg.ContrastFactor = f
		}
	}
	if err := cfg.Validate(); err != nil {
		return NFTMarkerConfig{}, err
	}
	return cfg, nil
}

// toInt handles the int/float64 ambiguity of decoded JSON numbers.
func toInt(v interface{}, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}
