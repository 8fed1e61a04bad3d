package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds ripple and scene statistics for a time window.
type WindowStats struct {
	WindowStart int32   `csv:"-"`
	WindowEnd   int32   `csv:"window_end"`
	SimTimeSec  float64 `csv:"sim_time"`

	Steps   int `csv:"steps"`
	Moves   int `csv:"moves"`
	Clicks  int `csv:"clicks"`
	Resizes int `csv:"resizes"`
	GridW   int `csv:"grid_w"`
	GridH   int `csv:"grid_h"`
	Sparks  int `csv:"sparks_live"`

	// Field energy (sum of |displacement|) sampled once per step
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
	EnergyMax  float64 `csv:"energy_max"`
}

// EnergyStats returns mean, standard deviation, median, 90th percentile,
// and maximum of the samples. All zero for an empty slice.
func EnergyStats(values []float64) (mean, std, p50, p90, maxV float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std = stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		std = 0
	}
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	maxV = floats.Max(sorted)
	return mean, std, p50, p90, maxV
}

// RippleSampler accumulates per-step samples and closes a window every
// windowSec seconds of simulated time.
type RippleSampler struct {
	windowSec   float64
	windowStart int32
	startTime   float64

	energies               []float64
	moves, clicks, resizes int
}

// NewRippleSampler creates a sampler with the given window length.
func NewRippleSampler(windowSec float64) *RippleSampler {
	if windowSec <= 0 {
		windowSec = 5
	}
	return &RippleSampler{windowSec: windowSec}
}

// RecordStep records the field energy after a propagation step.
func (s *RippleSampler) RecordStep(energy float64) {
	s.energies = append(s.energies, energy)
}

// RecordMove counts a pointer-move impulse.
func (s *RippleSampler) RecordMove() { s.moves++ }

// RecordClick counts a click impulse.
func (s *RippleSampler) RecordClick() { s.clicks++ }

// RecordResize counts a grid reallocation.
func (s *RippleSampler) RecordResize() { s.resizes++ }

// ShouldFlush reports whether the current window has elapsed.
func (s *RippleSampler) ShouldFlush(simTime float64) bool {
	return simTime-s.startTime >= s.windowSec
}

// Flush closes the window ending at frame and resets the accumulators.
func (s *RippleSampler) Flush(frame int32, simTime float64, gridW, gridH, liveSparks int) WindowStats {
	mean, std, p50, p90, maxV := EnergyStats(s.energies)
	ws := WindowStats{
		WindowStart: s.windowStart,
		WindowEnd:   frame,
		SimTimeSec:  simTime,
		Steps:       len(s.energies),
		Moves:       s.moves,
		Clicks:      s.clicks,
		Resizes:     s.resizes,
		GridW:       gridW,
		GridH:       gridH,
		Sparks:      liveSparks,
		EnergyMean:  mean,
		EnergyStd:   std,
		EnergyP50:   p50,
		EnergyP90:   p90,
		EnergyMax:   maxV,
	}

	s.energies = s.energies[:0]
	s.moves, s.clicks, s.resizes = 0, 0, 0
	s.windowStart = frame
	s.startTime = simTime
	return ws
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStart)),
		slog.Int("window_end", int(s.WindowEnd)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("steps", s.Steps),
		slog.Int("moves", s.Moves),
		slog.Int("clicks", s.Clicks),
		slog.Int("resizes", s.Resizes),
		slog.Int("grid_w", s.GridW),
		slog.Int("grid_h", s.GridH),
		slog.Int("sparks_live", s.Sparks),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("energy_max", s.EnergyMax),
	)
}
