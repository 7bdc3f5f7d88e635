package generator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"go-nft-marker/pkg/models"
)

// CleanupUnusedMarkers deletes every marker directory whose name is not
// in usedNames, reporting how much disk space the sweep freed. With
// dryRun set, nothing is deleted and the report only counts. Per-marker
// failures are recorded and never stop the sweep.
func (g *Generator) CleanupUnusedMarkers(usedNames []string, dryRun bool) *models.CleanupReport {
	used := make(map[string]struct{}, len(usedNames))
	for _, name := range usedNames {
		used[name] = struct{}{}
	}

	markers := g.ListMarkers()
	report := &models.CleanupReport{Total: len(markers)}

	for _, name := range markers {
		if _, ok := used[name]; ok {
			report.Used++
			continue
		}
		report.Unused++

		dir := filepath.Join(g.cfg.MarkersRoot, name)
		size, err := dirSize(dir)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if dryRun {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		report.DeletedCount++
		report.FreedBytes += size
	}

	g.log.WithFields(logrus.Fields{
		"total":   report.Total,
		"unused":  report.Unused,
		"deleted": report.DeletedCount,
		"freed":   report.FreedBytes,
		"dry_run": dryRun,
	}).Info("marker cleanup sweep finished")
	return report
}

// dirSize sums the file sizes below dir.
func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
