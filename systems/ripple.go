package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ams-law/goldsite/config"
)

// RippleParams controls grid resolution, decay, and impulse shape.
type RippleParams struct {
	Scale         int     // Viewport pixels per grid cell
	Damping       float64 // Per-step retention factor, < 1
	DropRadius    float64 // Impulse radius in cells
	Normalization float64 // Displacement mapped to full palette intensity
}

// DefaultRippleParams returns the ripple parameters from the global config.
func DefaultRippleParams() RippleParams {
	cfg := config.Cfg()
	return RippleParams{
		Scale:         cfg.Ripple.Scale,
		Damping:       cfg.Ripple.Damping,
		DropRadius:    cfg.Ripple.DropRadius,
		Normalization: cfg.Ripple.Normalization,
	}
}

// RippleField is a damped 2D wave simulation on a coarse grid.
// Two equal-length fields hold the current and previous displacement;
// Step computes the next state into the previous buffer and swaps.
type RippleField struct {
	Params RippleParams

	w, h     int
	current  []float64
	previous []float64
}

// NewRippleField creates an unallocated field. Call Resize before use.
func NewRippleField(p RippleParams) *RippleField {
	if p.Scale < 1 {
		p.Scale = 1
	}
	return &RippleField{Params: p}
}

// Resize reallocates both fields for a viewport of viewW x viewH pixels.
// Any existing displacement is discarded.
func (f *RippleField) Resize(viewW, viewH int) {
	f.w = gridCells(viewW, f.Params.Scale)
	f.h = gridCells(viewH, f.Params.Scale)
	f.current = make([]float64, f.w*f.h)
	f.previous = make([]float64, f.w*f.h)
}

func gridCells(px, scale int) int {
	if px <= 0 {
		return 0
	}
	return (px + scale - 1) / scale
}

// Size returns the grid dimensions in cells.
func (f *RippleField) Size() (w, h int) { return f.w, f.h }

// Current returns the current displacement field, row-major.
func (f *RippleField) Current() []float64 { return f.current }

// Previous returns the previous displacement field, row-major.
func (f *RippleField) Previous() []float64 { return f.previous }

// Allocated reports whether the field holds at least one cell.
func (f *RippleField) Allocated() bool { return len(f.current) > 0 }

// At returns the current displacement at (x, y), or 0 outside the grid.
func (f *RippleField) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return 0
	}
	return f.current[y*f.w+x]
}

// Energy returns the sum of absolute displacement over the current field.
func (f *RippleField) Energy() float64 {
	if len(f.current) == 0 {
		return 0
	}
	return floats.Norm(f.current, 1)
}

// Restore replaces the grid with a w x h state, copying both fields.
func (f *RippleField) Restore(w, h int, current, previous []float64) error {
	if w < 0 || h < 0 || len(current) != w*h || len(previous) != w*h {
		return fmt.Errorf("restoring %dx%d field from %d/%d cells", w, h, len(current), len(previous))
	}
	f.w, f.h = w, h
	f.current = append([]float64(nil), current...)
	f.previous = append([]float64(nil), previous...)
	return nil
}

// Reset zeroes both fields without reallocating.
func (f *RippleField) Reset() {
	clear(f.current)
	clear(f.previous)
}

// AddDrop adds a radial impulse centred on grid cell (gx, gy).
// Cells within DropRadius receive strength*(1-dist/R). The outermost
// ring of cells is never written, and centres outside the grid only
// touch whatever part of the footprint falls inside it.
func (f *RippleField) AddDrop(gx, gy int, strength float64) {
	if len(f.current) == 0 {
		return
	}
	r := f.Params.DropRadius
	if r <= 0 {
		return
	}
	ri := int(math.Ceil(r))

	x0 := max(gx-ri, 1)
	x1 := min(gx+ri, f.w-2)
	y0 := max(gy-ri, 1)
	y1 := min(gy+ri, f.h-2)

	for y := y0; y <= y1; y++ {
		dy := float64(y - gy)
		row := y * f.w
		for x := x0; x <= x1; x++ {
			dx := float64(x - gx)
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist >= r {
				continue
			}
			f.current[row+x] += strength * (1 - dist/r)
		}
	}
}

// Step advances the simulation by one tick.
func (f *RippleField) Step() {
	w, h := f.w, f.h
	if w < 3 || h < 3 {
		return
	}
	cur, next := f.current, f.previous
	d := f.Params.Damping

	for y := 1; y < h-1; y++ {
		row := y * w
		for x := 1; x < w-1; x++ {
			i := row + x
			v := (cur[i-1]+cur[i+1]+cur[i-w]+cur[i+w])/2 - next[i]
			next[i] = v * d
		}
	}

	f.current, f.previous = next, cur
}
