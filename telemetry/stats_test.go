package telemetry

import (
	"math"
	"testing"
)

func TestEnergyStats(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, std, p50, p90, maxV := EnergyStats(values)

	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if std <= 0 {
		t.Errorf("std = %v, want > 0", std)
	}
	if p50 != 5 {
		t.Errorf("p50 = %v, want 5", p50)
	}
	if p90 != 9 {
		t.Errorf("p90 = %v, want 9", p90)
	}
	if maxV != 10 {
		t.Errorf("max = %v, want 10", maxV)
	}
	// Input must not be reordered.
	if values[0] != 10 {
		t.Error("EnergyStats sorted its input in place")
	}
}

func TestEnergyStatsEmptyAndSingle(t *testing.T) {
	mean, std, p50, p90, maxV := EnergyStats(nil)
	if mean != 0 || std != 0 || p50 != 0 || p90 != 0 || maxV != 0 {
		t.Errorf("expected all zeros for empty input, got %v %v %v %v %v", mean, std, p50, p90, maxV)
	}

	mean, std, p50, p90, maxV = EnergyStats([]float64{42})
	if mean != 42 || std != 0 || p50 != 42 || p90 != 42 || maxV != 42 {
		t.Errorf("expected 42 with zero spread, got %v %v %v %v %v", mean, std, p50, p90, maxV)
	}
}

func TestRippleSamplerWindow(t *testing.T) {
	s := NewRippleSampler(1)

	if s.ShouldFlush(0.5) {
		t.Error("expected window to stay open at 0.5s")
	}

	for _, e := range []float64{100, 80, 60} {
		s.RecordStep(e)
	}
	s.RecordMove()
	s.RecordMove()
	s.RecordClick()
	s.RecordResize()

	if !s.ShouldFlush(1.0) {
		t.Fatal("expected window to close at 1.0s")
	}
	ws := s.Flush(60, 1.0, 100, 80, 12)

	if ws.Steps != 3 || ws.Moves != 2 || ws.Clicks != 1 || ws.Resizes != 1 {
		t.Errorf("unexpected counts: %+v", ws)
	}
	if ws.EnergyMax != 100 || math.Abs(ws.EnergyMean-80) > 1e-9 {
		t.Errorf("expected max 100 mean 80, got max %v mean %v", ws.EnergyMax, ws.EnergyMean)
	}
	if ws.GridW != 100 || ws.GridH != 80 || ws.Sparks != 12 {
		t.Errorf("unexpected grid/sparks: %+v", ws)
	}

	// Next window starts fresh.
	if s.ShouldFlush(1.5) {
		t.Error("expected new window to stay open at 1.5s")
	}
	next := s.Flush(120, 2.0, 100, 80, 0)
	if next.Steps != 0 || next.Moves != 0 || next.WindowStart != 60 {
		t.Errorf("expected reset window starting at 60, got %+v", next)
	}
}
