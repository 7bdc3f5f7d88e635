package models

import "time"

// NFTMarker describes the three generated tracking files for one marker.
// It is created once per successful generation and immutable thereafter;
// persisting the paths is the caller's responsibility.
type NFTMarker struct {
	ImagePath string `json:"image_path"`
	FsetPath  string `json:"fset_path"`
	Fset3Path string `json:"fset3_path"`
	IsetPath  string `json:"iset_path"`

	Width  int `json:"width"`
	Height int `json:"height"`
	DPI    int `json:"dpi"`

	QualityScore   *float64 `json:"quality_score,omitempty"`
	GenerationTime float64  `json:"generation_time,omitempty"` // seconds
}

// FeaturePoint is a single grid-scanned corner candidate. Points are
// ephemeral; only their serialized form inside .fset survives.
type FeaturePoint struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Score float64 `json:"score"`
}

// MarkerInfo reports the on-disk state of a complete marker. A marker is
// only considered present when all three files exist.
type MarkerInfo struct {
	Name      string `json:"name"`
	FsetPath  string `json:"fset_path"`
	Fset3Path string `json:"fset3_path"`
	IsetPath  string `json:"iset_path"`
	FsetSize  int64  `json:"fset_size"`
	Fset3Size int64  `json:"fset3_size"`
	IsetSize  int64  `json:"iset_size"`
}

// CleanupReport summarizes a cleanup sweep over the markers root.
type CleanupReport struct {
	Total        int      `json:"total"`
	Used         int      `json:"used"`
	Unused       int      `json:"unused"`
	DeletedCount int      `json:"deleted_count"`
	FreedBytes   int64    `json:"freed_bytes"`
	Errors       []string `json:"errors,omitempty"`
}

// PresetInfo describes a stored named config snapshot.
type PresetInfo struct {
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Config    NFTMarkerConfig `json:"config"`
}

// Metrics holds the generator's running counters plus derived rates.
type Metrics struct {
	TotalGenerated   int     `json:"total_generated"`
	TotalTime        float64 `json:"total_time"` // seconds
	AvgTimePerMarker float64 `json:"avg_time_per_marker"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
}
