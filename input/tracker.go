// Package input tracks pointer and orientation state and queues host events
// for delivery at a well-defined point in the frame.
package input

import "math"

// Vec2 is a 2D vector in normalized viewport space.
type Vec2 struct {
	X, Y float64
}

// TrackerParams configures normalization and smoothing.
type TrackerParams struct {
	Smoothing        float64 // Fraction of the remaining distance covered per Update
	OrientationRange float64 // Degrees of tilt that map to ±1
	BetaRest         float64 // Front-back tilt treated as level
	AutoAmplitude    float64 // Amplitude of the synthetic touch signal
}

// DefaultTrackerParams returns the stock tracker settings.
func DefaultTrackerParams() TrackerParams {
	return TrackerParams{
		Smoothing:        0.04,
		OrientationRange: 30,
		BetaRest:         45,
		AutoAmplitude:    1,
	}
}

// Tracker holds the raw target vector and its smoothed follower.
// Target is written by input handlers; Current is advanced once per frame.
type Tracker struct {
	Params  TrackerParams
	Target  Vec2
	Current Vec2
}

// NewTracker creates a tracker at rest.
func NewTracker(p TrackerParams) *Tracker {
	return &Tracker{Params: p}
}

// PointerMove sets the target from a pointer position in viewport pixels.
// Y is inverted so that up is positive.
func (t *Tracker) PointerMove(px, py float64, viewW, viewH int) {
	if viewW <= 0 || viewH <= 0 {
		return
	}
	t.Target = Vec2{
		X: Clamp(px/float64(viewW)*2-1, -1, 1),
		Y: Clamp(-(py/float64(viewH)*2 - 1), -1, 1),
	}
}

// Orientation sets the target from device tilt in degrees.
// gamma is left-right tilt, beta is front-back tilt.
func (t *Tracker) Orientation(gamma, beta float64) {
	r := t.Params.OrientationRange
	if r <= 0 {
		r = 30
	}
	t.Target = Vec2{
		X: Clamp(gamma/r, -1, 1),
		Y: Clamp((beta-t.Params.BetaRest)/r, -1, 1),
	}
}

// SetTarget overrides the target directly, used for synthetic signals.
func (t *Tracker) SetTarget(v Vec2) {
	t.Target = v
}

// Update moves Current toward Target by the smoothing factor.
func (t *Tracker) Update() {
	t.Current = Vec2{
		X: Lerp(t.Current.X, t.Target.X, t.Params.Smoothing),
		Y: Lerp(t.Current.Y, t.Target.Y, t.Params.Smoothing),
	}
}

// Lerp returns current moved toward target by factor.
// For factor in [0, 1] the result never passes target.
func Lerp(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

// Smooth applies Lerp to both components.
func Smooth(current, target Vec2, factor float64) Vec2 {
	return Vec2{
		X: Lerp(current.X, target.X, factor),
		Y: Lerp(current.Y, target.Y, factor),
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Synthetic returns the slow automatic target used when no persistent
// pointer exists, as a function of elapsed seconds.
func Synthetic(t, amplitude float64) Vec2 {
	return Vec2{
		X: math.Sin(t*0.5) * amplitude,
		Y: math.Sin(t*0.35) * 0.5 * amplitude,
	}
}
