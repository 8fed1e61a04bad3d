package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ams-law/goldsite/systems"
)

func testField() *systems.RippleField {
	f := systems.NewRippleField(systems.RippleParams{Scale: 3, Damping: 0.992, DropRadius: 8, Normalization: 200})
	f.Resize(120, 90)
	f.AddDrop(20, 15, 700)
	f.Step()
	return f
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	f := testField()

	snapshot := CaptureField(f, 42, 1000, &Bookmark{Type: BookmarkEnergySpike, Frame: 1000, Description: "test"})
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.RNGSeed != 42 || loaded.Frame != 1000 {
		t.Errorf("expected seed 42 frame 1000, got %d %d", loaded.RNGSeed, loaded.Frame)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkEnergySpike {
		t.Errorf("expected bookmark to survive, got %+v", loaded.Bookmark)
	}

	restored, err := loaded.RestoreField()
	if err != nil {
		t.Fatalf("RestoreField failed: %v", err)
	}
	w, h := restored.Size()
	if w != 40 || h != 30 {
		t.Fatalf("expected 40x30 grid, got %dx%d", w, h)
	}
	if restored.Params != f.Params {
		t.Errorf("expected params %+v, got %+v", f.Params, restored.Params)
	}

	// Restored field evolves identically.
	f.Step()
	restored.Step()
	for i, v := range f.Current() {
		if restored.Current()[i] != v {
			t.Fatalf("cell %d diverged: got %v, want %v", i, restored.Current()[i], v)
		}
	}
}

func TestSnapshotCaptureIsCopy(t *testing.T) {
	f := testField()
	s := CaptureField(f, 1, 1, nil)
	before := s.Current[15*40+20]
	f.Step()
	if s.Current[15*40+20] != before {
		t.Error("expected snapshot to be independent of the live field")
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{
		Version:  SnapshotVersion,
		Frame:    5000,
		Bookmark: &Bookmark{Type: BookmarkSettled, Frame: 5000},
	}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_5000_settled.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Frame: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_3000.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejects(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "v9.json")
	if err := os.WriteFile(bad, []byte(`{"version":9}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(bad); err == nil {
		t.Error("expected version mismatch error")
	}

	broken := &Snapshot{Version: SnapshotVersion, GridW: 2, GridH: 2, Current: []float64{1}}
	if _, err := broken.RestoreField(); err == nil {
		t.Error("expected error for mismatched cell count")
	}
}
