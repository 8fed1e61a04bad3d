package camera

import (
	"math"
	"testing"

	"github.com/ams-law/goldsite/components"
	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/input"
)

func TestNew(t *testing.T) {
	cam := New(components.Vec3{Z: 15}, 45, 0.8, 1280, 720)

	if cam.Eye != cam.Base {
		t.Errorf("expected eye at base %v, got %v", cam.Base, cam.Eye)
	}
	if cam.Target != (components.Vec3{}) {
		t.Errorf("expected target at origin, got %v", cam.Target)
	}
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cam := FromConfig(cfg.Scene.Camera, 1280, 720)
	if cam.Base.Z != 15 || cam.FovY != 45 {
		t.Errorf("expected eye z 15 fov 45, got z %f fov %f", cam.Base.Z, cam.FovY)
	}
}

func TestUpdateParallax(t *testing.T) {
	cam := New(components.Vec3{Z: 15}, 45, 0.5, 1280, 720)

	cam.Update(input.Vec2{X: 1, Y: -0.5})
	if cam.Eye.X != 0.5 || cam.Eye.Y != -0.25 || cam.Eye.Z != 15 {
		t.Errorf("expected eye (0.5, -0.25, 15), got %v", cam.Eye)
	}

	// Deflection beyond ±1 is clamped.
	cam.Update(input.Vec2{X: 4})
	if cam.Eye.X != 0.5 {
		t.Errorf("expected clamped eye x 0.5, got %f", cam.Eye.X)
	}

	cam.Update(input.Vec2{})
	if cam.Eye != cam.Base {
		t.Errorf("expected eye back at base, got %v", cam.Eye)
	}
}

func TestResizeAndAspect(t *testing.T) {
	cam := New(components.Vec3{Z: 15}, 45, 0, 1280, 720)
	cam.Resize(800, 800)
	if cam.Aspect() != 1 {
		t.Errorf("expected aspect 1, got %f", cam.Aspect())
	}
	cam.Resize(0, 0)
	if cam.Aspect() != 1 {
		t.Errorf("expected degenerate aspect 1, got %f", cam.Aspect())
	}
}

func TestProjectToPlane(t *testing.T) {
	cam := New(components.Vec3{Z: 10}, 90, 0, 200, 100)

	centre := cam.ProjectToPlane(input.Vec2{}, 0)
	if centre != (components.Vec3{}) {
		t.Errorf("expected centre at origin, got %v", centre)
	}

	// fov 90 at distance 10 gives half-height 10, half-width 20 at aspect 2.
	corner := cam.ProjectToPlane(input.Vec2{X: 1, Y: 1}, 0)
	if math.Abs(float64(corner.X-20)) > 1e-4 || math.Abs(float64(corner.Y-10)) > 1e-4 {
		t.Errorf("expected corner (20, 10), got (%f, %f)", corner.X, corner.Y)
	}
}
