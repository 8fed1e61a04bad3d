// Package camera provides the parallax camera rig for the 3D gold scene.
package camera

import (
	"math"

	"github.com/ams-law/goldsite/components"
	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/input"
)

// Rig is a perspective camera that drifts with the smoothed pointer while
// always looking at the same target.
type Rig struct {
	// Base is the eye position with the pointer at rest
	Base components.Vec3

	// Eye is the current eye position after parallax
	Eye components.Vec3

	// Target is the look-at point
	Target components.Vec3

	// Vertical field of view in degrees
	FovY float32

	// Eye offset per unit of pointer deflection
	Parallax float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32
}

// New creates a rig at base looking at the origin.
func New(base components.Vec3, fovY, parallax, viewportW, viewportH float32) *Rig {
	return &Rig{
		Base:      base,
		Eye:       base,
		FovY:      fovY,
		Parallax:  parallax,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// FromConfig creates a rig from the scene camera settings.
func FromConfig(cc config.CameraConfig, viewportW, viewportH float32) *Rig {
	base := components.Vec3{X: float32(cc.Position[0]), Y: float32(cc.Position[1]), Z: float32(cc.Position[2])}
	return New(base, float32(cc.FovY), float32(cc.Parallax), viewportW, viewportH)
}

// Update offsets the eye by the pointer. The pointer is already smoothed,
// so the eye follows without further easing.
func (r *Rig) Update(pointer input.Vec2) {
	px := clamp(float32(pointer.X), -1, 1)
	py := clamp(float32(pointer.Y), -1, 1)
	r.Eye = components.Vec3{
		X: r.Base.X + px*r.Parallax,
		Y: r.Base.Y + py*r.Parallax,
		Z: r.Base.Z,
	}
}

// Resize updates viewport dimensions.
func (r *Rig) Resize(viewportW, viewportH float32) {
	if viewportW == r.ViewportW && viewportH == r.ViewportH {
		return
	}
	r.ViewportW = viewportW
	r.ViewportH = viewportH
}

// Aspect returns the viewport width-to-height ratio, 1 for a degenerate viewport.
func (r *Rig) Aspect() float32 {
	if r.ViewportH <= 0 || r.ViewportW <= 0 {
		return 1
	}
	return r.ViewportW / r.ViewportH
}

// HalfExtents returns the half-width and half-height of the visible region
// on the plane z, measured from the rig's axis.
func (r *Rig) HalfExtents(z float32) (halfW, halfH float32) {
	dist := absf(r.Eye.Z - z)
	halfH = dist * float32(math.Tan(float64(r.FovY)*math.Pi/360))
	return halfH * r.Aspect(), halfH
}

// ProjectToPlane returns the world point on plane z under a normalized
// pointer position (±1 across the viewport, up positive).
func (r *Rig) ProjectToPlane(pointer input.Vec2, z float32) components.Vec3 {
	halfW, halfH := r.HalfExtents(z)
	return components.Vec3{
		X: r.Eye.X + float32(pointer.X)*halfW,
		Y: r.Eye.Y + float32(pointer.Y)*halfH,
		Z: z,
	}
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
