package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ams-law/goldsite/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds a ripple field's complete state for replay.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Frame   int32 `json:"frame"`

	Params   systems.RippleParams `json:"params"`
	GridW    int                  `json:"grid_w"`
	GridH    int                  `json:"grid_h"`
	Current  []float64            `json:"current"`
	Previous []float64            `json:"previous"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// CaptureField copies the field into a snapshot.
func CaptureField(f *systems.RippleField, seed int64, frame int32, bm *Bookmark) *Snapshot {
	w, h := f.Size()
	return &Snapshot{
		Version:  SnapshotVersion,
		RNGSeed:  seed,
		Frame:    frame,
		Params:   f.Params,
		GridW:    w,
		GridH:    h,
		Current:  append([]float64(nil), f.Current()...),
		Previous: append([]float64(nil), f.Previous()...),
		Bookmark: bm,
	}
}

// RestoreField rebuilds a field from the snapshot.
func (s *Snapshot) RestoreField() (*systems.RippleField, error) {
	f := systems.NewRippleField(s.Params)
	if err := f.Restore(s.GridW, s.GridH, s.Current, s.Previous); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	return f, nil
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Frame)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Frame, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
