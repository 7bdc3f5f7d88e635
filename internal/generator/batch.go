package generator

import (
	"go-nft-marker/internal/analyzer"
	"go-nft-marker/pkg/models"
)

// BatchItem names one source image and its target marker.
type BatchItem struct {
	Path string
	Name string
}

// BatchResult carries the per-entry outcome of a batch run. Exactly one
// of Marker and Err is set.
type BatchResult struct {
	Marker *models.NFTMarker
	Err    error
}

// ProgressFunc is invoked after each batch entry completes, in
// completion order. It always runs on the orchestrating goroutine, so
// callers need no internal synchronization.
type ProgressFunc func(completed, total int, currentPath string)

// GenerateMarkersBatch runs GenerateMarker for every item on a bounded
// worker pool. A failing entry is captured as its error value and never
// aborts the siblings; started tasks always run to completion. The
// returned map is keyed by source path.
func (g *Generator) GenerateMarkersBatch(items []BatchItem, cfg *models.NFTMarkerConfig, maxWorkers int, progress ProgressFunc) map[string]BatchResult {
	results := make(map[string]BatchResult, len(items))
	if len(items) == 0 {
		return results
	}
	if maxWorkers <= 0 {
		maxWorkers = g.cfg.MaxWorkers
	}

	pool := analyzer.NewWorkerPool(maxWorkers)
	pool.Start()
	defer pool.Close()

	type completion struct {
		path   string
		result BatchResult
	}
	done := make(chan completion, len(items))

	for _, item := range items {
		item := item
		pool.Submit(func() {
			marker, err := g.GenerateMarker(item.Path, item.Name, cfg)
			done <- completion{path: item.Path, result: BatchResult{Marker: marker, Err: err}}
		})
	}

	for i := 0; i < len(items); i++ {
		c := <-done
		results[c.path] = c.result
		if progress != nil {
			progress(i+1, len(items), c.path)
		}
	}
	return results
}
