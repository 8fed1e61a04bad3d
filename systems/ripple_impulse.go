package systems

import (
	"math"

	"github.com/ams-law/goldsite/config"
)

// ImpulseParams maps pointer activity to drop strength.
type ImpulseParams struct {
	MoveBase        float64
	MoveGain        float64
	MaxMoveStrength float64
	ClickStrength   float64
}

// DefaultImpulseParams returns impulse parameters from the global config.
func DefaultImpulseParams() ImpulseParams {
	cfg := config.Cfg()
	return ImpulseParams{
		MoveBase:        cfg.Ripple.MoveBase,
		MoveGain:        cfg.Ripple.MoveGain,
		MaxMoveStrength: cfg.Ripple.MaxMoveStrength,
		ClickStrength:   cfg.Ripple.ClickStrength,
	}
}

// PointerImpulses converts pointer positions in viewport pixels into drops.
// Faster pointer motion produces stronger drops, capped at MaxMoveStrength.
type PointerImpulses struct {
	Params ImpulseParams
	Field  *RippleField

	lastX, lastY float64
}

// NewPointerImpulses binds impulse mapping to a field.
func NewPointerImpulses(field *RippleField, p ImpulseParams) *PointerImpulses {
	return &PointerImpulses{Params: p, Field: field}
}

// Move records a pointer move and injects a speed-scaled drop.
func (p *PointerImpulses) Move(px, py float64, viewW, viewH int) {
	speed := math.Hypot(px-p.lastX, py-p.lastY)
	p.lastX, p.lastY = px, py
	strength := math.Min(p.Params.MaxMoveStrength, p.Params.MoveBase+speed*p.Params.MoveGain)
	p.drop(px, py, viewW, viewH, strength)
}

// Click injects a fixed-strength drop.
func (p *PointerImpulses) Click(px, py float64, viewW, viewH int) {
	p.drop(px, py, viewW, viewH, p.Params.ClickStrength)
}

func (p *PointerImpulses) drop(px, py float64, viewW, viewH int, strength float64) {
	if viewW <= 0 || viewH <= 0 || p.Field == nil {
		return
	}
	gx, gy := GridCoords(p.Field, px, py, viewW, viewH)
	p.Field.AddDrop(gx, gy, strength)
}

// GridCoords maps a viewport pixel position onto the field's grid.
func GridCoords(f *RippleField, px, py float64, viewW, viewH int) (int, int) {
	w, h := f.Size()
	gx := int(math.Floor(px / float64(viewW) * float64(w)))
	gy := int(math.Floor(py / float64(viewH) * float64(h)))
	return gx, gy
}
