package generator

import (
	"os"
	"path/filepath"
	"testing"
)

func generateFour(t *testing.T, g *Generator) {
	t.Helper()
	dir := t.TempDir()
	for i, name := range []string{"a", "b", "c", "d"} {
		img := writeNoisePNG(t, dir, name+".png", 640, 480, int64(50+i))
		if _, err := g.GenerateMarker(img, name, nil); err != nil {
			t.Fatalf("generate %s: %v", name, err)
		}
	}
}

func TestCleanupDryRunDeletesNothing(t *testing.T) {
	g := newTestGenerator(t)
	generateFour(t, g)

	report := g.CleanupUnusedMarkers([]string{"a", "b"}, true)

	if report.Total != 4 || report.Used != 2 || report.Unused != 2 {
		t.Errorf("report total/used/unused = %d/%d/%d, want 4/2/2",
			report.Total, report.Used, report.Unused)
	}
	if report.DeletedCount != 0 || report.FreedBytes != 0 {
		t.Errorf("dry run must not delete: %+v", report)
	}

	for _, name := range []string{"a", "b", "c", "d"} {
		if _, err := os.Stat(filepath.Join(g.cfg.MarkersRoot, name)); err != nil {
			t.Errorf("dry run removed marker %s", name)
		}
	}
}

func TestCleanupDeletesUnusedMarkers(t *testing.T) {
	g := newTestGenerator(t)
	generateFour(t, g)

	report := g.CleanupUnusedMarkers([]string{"a", "b"}, false)

	if report.DeletedCount != 2 {
		t.Errorf("DeletedCount = %d, want 2", report.DeletedCount)
	}
	if report.FreedBytes <= 0 {
		t.Errorf("FreedBytes = %d, want > 0", report.FreedBytes)
	}
	if len(report.Errors) != 0 {
		t.Errorf("unexpected errors: %v", report.Errors)
	}

	for _, name := range []string{"a", "b"} {
		if _, err := os.Stat(filepath.Join(g.cfg.MarkersRoot, name)); err != nil {
			t.Errorf("used marker %s was deleted", name)
		}
	}
	for _, name := range []string{"c", "d"} {
		if _, err := os.Stat(filepath.Join(g.cfg.MarkersRoot, name)); !os.IsNotExist(err) {
			t.Errorf("unused marker %s survived", name)
		}
	}
}

func TestCleanupIgnoresTempDir(t *testing.T) {
	g := newTestGenerator(t)
	generateFour(t, g)

	// The temp scratch dir lives under the markers root but is not a
	// marker and must never be swept.
	if err := os.WriteFile(filepath.Join(g.cfg.TempDir(), "scratch.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := g.CleanupUnusedMarkers(nil, false)
	if report.Total != 4 {
		t.Errorf("temp dir counted as marker: total = %d", report.Total)
	}
	if _, err := os.Stat(g.cfg.TempDir()); err != nil {
		t.Error("temp dir was swept")
	}
}

func TestListMarkersSorted(t *testing.T) {
	g := newTestGenerator(t)
	generateFour(t, g)

	names := g.ListMarkers()
	want := []string{"a", "b", "c", "d"}
	if len(names) != len(want) {
		t.Fatalf("ListMarkers = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ListMarkers = %v, want %v", names, want)
		}
	}
}
