package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkEnergySpike BookmarkType = "energy_spike"
	BookmarkInputBurst  BookmarkType = "input_burst"
	BookmarkSettled     BookmarkType = "settled"
)

// Field energy below this counts as at rest.
const settledEnergy = 1.0

// Bookmark marks a window worth looking at again.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Frame       int32        `json:"frame"`
	Description string       `json:"description"`
}

// LogValue implements slog.LogValuer for structured logging.
func (b Bookmark) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", string(b.Type)),
		slog.Int("frame", int(b.Frame)),
		slog.String("description", b.Description),
	)
}

// BookmarkDetector compares each closed window against a rolling history.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	last    WindowStats
	hasLast bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest window and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkEnergySpike,
		bd.checkInputBurst,
		bd.checkSettled,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
	bd.last, bd.hasLast = stats, true
	return bookmarks
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkEnergySpike fires when peak energy exceeds twice the rolling average peak.
func (bd *BookmarkDetector) checkEnergySpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	var sum float64
	for _, h := range history {
		sum += h.EnergyMax
	}
	avg := sum / float64(len(history))
	if avg <= settledEnergy || stats.EnergyMax <= avg*2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkEnergySpike,
		Frame:       stats.WindowEnd,
		Description: fmt.Sprintf("Peak energy %.0f is %.1fx average (%.0f)", stats.EnergyMax, stats.EnergyMax/avg, avg),
	}
}

// checkInputBurst fires when pointer impulses exceed three times the rolling average.
func (bd *BookmarkDetector) checkInputBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	var total int
	for _, h := range history {
		total += h.Moves + h.Clicks
	}
	avg := float64(total) / float64(len(history))
	n := stats.Moves + stats.Clicks
	if n < 30 || float64(n) <= avg*3 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkInputBurst,
		Frame:       stats.WindowEnd,
		Description: fmt.Sprintf("%d impulses against an average of %.1f", n, avg),
	}
}

// checkSettled fires once when an active field comes to rest.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if !bd.hasLast || bd.last.EnergyMax < settledEnergy || stats.EnergyMax >= settledEnergy {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSettled,
		Frame:       stats.WindowEnd,
		Description: fmt.Sprintf("Field at rest after peak %.0f", bd.last.EnergyMax),
	}
}
