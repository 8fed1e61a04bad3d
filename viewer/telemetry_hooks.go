package viewer

import (
	"log/slog"

	"github.com/ams-law/goldsite/telemetry"
)

// flushTelemetry closes the stats window when due and handles bookmarks.
func (v *Viewer) flushTelemetry() {
	if !v.sampler.ShouldFlush(v.clock.Elapsed) {
		return
	}

	gw, gh := v.ripple.Field.Size()
	stats := v.sampler.Flush(v.frame, v.clock.Elapsed, gw, gh, v.scene.LiveSparks())
	perfStats := v.perf.Stats()

	// Log stats if enabled (console output)
	if v.logStats {
		slog.Info("ripple", "stats", stats)
		slog.Info("perf", "stats", perfStats)
	}

	if err := v.outputManager.WriteRipple(stats); err != nil {
		slog.Error("failed to write ripple stats", "error", err)
	}
	if err := v.outputManager.WritePerf(perfStats, stats.WindowEnd); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	// Check for bookmarks
	for _, bm := range v.bookmarkDetector.Check(stats) {
		if v.logStats {
			slog.Info("bookmark", "bookmark", bm)
		}

		// Save snapshot on bookmark
		if v.snapshotDir != "" {
			v.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current field to the snapshot directory.
func (v *Viewer) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := telemetry.CaptureField(v.ripple.Field, v.rngSeed, v.frame, bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, v.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "frame", v.frame)
}
