package main

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/systems"
)

// Targets describe the wanted look of a single click ripple.
type Targets struct {
	DecayFraction float64 // Energy left after DecaySeconds, relative to the drop
	DecaySeconds  float64
	Peak          float64 // Peak |displacement| / normalization after SettleSeconds
	SettleSeconds float64
	PeakWeight    float64
}

// FitnessEvaluator simulates a click ripple on a fixed viewport and scores
// parameter vectors against the targets.
type FitnessEvaluator struct {
	params  *ParamVector
	base    systems.RippleParams
	targets Targets
	fps     int
	viewW   int
	viewH   int
}

// NewFitnessEvaluator creates an evaluator for a viewW x viewH viewport.
func NewFitnessEvaluator(params *ParamVector, cfg *config.Config, targets Targets, viewW, viewH int) *FitnessEvaluator {
	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	return &FitnessEvaluator{
		params: params,
		base: systems.RippleParams{
			Scale:         cfg.Ripple.Scale,
			Damping:       cfg.Ripple.Damping,
			DropRadius:    cfg.Ripple.DropRadius,
			Normalization: cfg.Ripple.Normalization,
		},
		targets: targets,
		fps:     fps,
		viewW:   viewW,
		viewH:   viewH,
	}
}

// runResult holds the measurements from one simulated click.
type runResult struct {
	DecayRatio float64 // Energy after DecaySeconds / energy at the drop
	Peak       float64 // Normalized peak after SettleSeconds
}

// Simulate drops one click at the viewport centre and measures the ripple.
func (fe *FitnessEvaluator) Simulate(damping, clickStrength float64) runResult {
	p := fe.base
	p.Damping = damping
	field := systems.NewRippleField(p)
	field.Resize(fe.viewW, fe.viewH)

	gx, gy := systems.GridCoords(field, float64(fe.viewW)/2, float64(fe.viewH)/2, fe.viewW, fe.viewH)
	field.AddDrop(gx, gy, clickStrength)
	e0 := field.Energy()

	settle := int(fe.targets.SettleSeconds * float64(fe.fps))
	decay := int(fe.targets.DecaySeconds * float64(fe.fps))

	var res runResult
	for i := 1; i <= max(settle, decay); i++ {
		field.Step()
		if i == settle {
			res.Peak = peak(field.Current()) / p.Normalization
		}
	}
	if e0 > 0 {
		res.DecayRatio = field.Energy() / e0
	}
	return res
}

func peak(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return math.Max(floats.Max(v), -floats.Min(v))
}

// Evaluate scores a raw parameter vector (lower = better). Decay is compared
// in log space so that tiny target fractions still shape the loss.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	x := fe.params.Clamp(raw)
	res := fe.Simulate(x[0], x[1])

	const floor = 1e-12
	dl := math.Log(max(res.DecayRatio, floor)) - math.Log(max(fe.targets.DecayFraction, floor))
	pl := res.Peak - fe.targets.Peak

	loss := dl*dl + fe.targets.PeakWeight*pl*pl

	// Out-of-bounds penalty keeps the simplex inside the box
	for i, spec := range fe.params.Specs {
		d := (raw[i] - x[i]) / (spec.Max - spec.Min)
		loss += 100 * d * d
	}
	return loss
}
