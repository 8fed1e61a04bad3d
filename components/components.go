// Package components defines ECS components for the procedural gold scene.
package components

import "image/color"

// Vec3 is a 3D vector in world units.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Lerp moves v toward target by factor.
func (v Vec3) Lerp(target Vec3, factor float32) Vec3 {
	return Vec3{
		X: v.X + (target.X-v.X)*factor,
		Y: v.Y + (target.Y-v.Y)*factor,
		Z: v.Z + (target.Z-v.Z)*factor,
	}
}

// Transform is the rendered placement of an element.
type Transform struct {
	Pos   Vec3
	Rot   Vec3 // Euler angles in radians
	Scale Vec3
}

// Goal is the placement an element is easing toward this frame.
type Goal struct {
	Pos Vec3
	Rot Vec3
}

// Oscillator drives idle breathing and shimmer.
type Oscillator struct {
	Phase     float32 // Radians, [0, 2π)
	Speed     float32 // Radians per second
	Amplitude float32
}

// Tint is the element's base color.
type Tint struct {
	Color color.RGBA
}

// WallCell places a cube in the backdrop grid.
type WallCell struct {
	Col, Row int16
	Base     Vec3 // Rest position before animation
}

// PartRole identifies how a scales sub-mesh animates.
type PartRole uint8

const (
	RoleStatic PartRole = iota
	RoleBeam
	RolePanLeft
	RolePanRight
)

func (r PartRole) String() string {
	switch r {
	case RoleBeam:
		return "beam"
	case RolePanLeft:
		return "pan_left"
	case RolePanRight:
		return "pan_right"
	}
	return "static"
}

// ScalePart is one sub-mesh of the balance-scale rig.
type ScalePart struct {
	Index int16 // Position in the configured part list
	Role  PartRole
	Pivot Vec3
}

// Spark is a pooled particle near the pointer. Life <= 0 means idle.
type Spark struct {
	Vel     Vec3
	Life    int32
	MaxLife int32
	Size    float32
}

// Alive reports whether the spark is currently emitted.
func (s *Spark) Alive() bool { return s.Life > 0 }
