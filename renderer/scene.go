package renderer

import (
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/camera"
	"github.com/ams-law/goldsite/components"
	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/systems"
)

// SceneRenderer draws the cube wall, its floor reflection, the scales rig,
// and the sparks. Part models that fail to load fall back to primitives.
type SceneRenderer struct {
	cfg   config.SceneConfig
	floor color.RGBA

	cube  rl.Model
	parts []rl.Model

	initialized bool
}

// NewSceneRenderer creates a renderer for the given scene settings.
func NewSceneRenderer(cfg config.SceneConfig, floor color.RGBA) *SceneRenderer {
	return &SceneRenderer{cfg: cfg, floor: floor}
}

// Init loads meshes (must be called after raylib window is created).
// Without a window the renderer stays disabled and Draw does nothing.
func (r *SceneRenderer) Init() {
	if r.initialized || !rl.IsWindowReady() {
		return
	}

	r.cube = rl.LoadModelFromMesh(rl.GenMeshCube(1, 1, 1))

	roles := systems.ClassifyParts(partNames(r.cfg.Scales.Parts))
	r.parts = make([]rl.Model, len(r.cfg.Scales.Parts))
	for i, p := range r.cfg.Scales.Parts {
		r.parts[i] = loadPart(p, roles[i])
	}

	r.initialized = true
}

func partNames(parts []config.PartConfig) []string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	return names
}

func loadPart(p config.PartConfig, role components.PartRole) rl.Model {
	if p.Model != "" {
		if _, err := os.Stat(p.Model); err == nil {
			m := rl.LoadModel(p.Model)
			if m.MeshCount > 0 {
				return m
			}
			rl.UnloadModel(m)
		}
		slog.Warn("scales part model unavailable, using primitive", "part", p.Name, "model", p.Model)
	}
	return rl.LoadModelFromMesh(primitiveMesh(p.Name, role))
}

func primitiveMesh(name string, role components.PartRole) rl.Mesh {
	switch role {
	case components.RoleBeam:
		return rl.GenMeshCube(5, 0.15, 0.15)
	case components.RolePanLeft, components.RolePanRight:
		return rl.GenMeshCylinder(1, 0.12, 24)
	}
	if name == "pillar" {
		return rl.GenMeshCylinder(0.15, 4, 12)
	}
	return rl.GenMeshCube(2.5, 0.3, 1.5)
}

// Camera3D converts the rig into a raylib camera.
func Camera3D(rig *camera.Rig) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec(rig.Eye),
		Target:     vec(rig.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       rig.FovY,
		Projection: rl.CameraPerspective,
	}
}

// SceneLayers selects which parts of the scene are drawn.
type SceneLayers struct {
	Wall       bool
	Reflection bool
	Scales     bool
	Sparks     bool
}

// AllLayers draws everything.
var AllLayers = SceneLayers{Wall: true, Reflection: true, Scales: true, Sparks: true}

// Draw renders the scene from the rig's point of view.
func (r *SceneRenderer) Draw(scene *systems.SceneElements, rig *camera.Rig, layers SceneLayers) {
	if !r.initialized {
		return
	}

	rl.BeginMode3D(Camera3D(rig))

	if layers.Reflection && layers.Wall {
		r.drawReflection(scene)
	}
	r.drawFloor(layers.Reflection)

	if layers.Wall {
		scene.EachWall(func(tf *components.Transform, tint *components.Tint) {
			r.drawCube(tf.Pos, tf.Rot, tf.Scale, tint.Color)
		})
	}
	if layers.Scales {
		scene.EachPart(func(tf *components.Transform, part *components.ScalePart) {
			if int(part.Index) >= len(r.parts) {
				return
			}
			m := r.parts[part.Index]
			rl.DrawModelEx(m, vec(tf.Pos), rl.NewVector3(1, 0, 0), tf.Rot.X*rl.Rad2deg, vec(tf.Scale), rgba(scene.Gold))
		})
	}
	if layers.Sparks {
		drawSparks(scene)
	}

	rl.EndMode3D()
}

// drawReflection mirrors the wall below the floor plane at reduced alpha.
func (r *SceneRenderer) drawReflection(scene *systems.SceneElements) {
	fc := r.cfg.Floor
	floorY := float32(fc.Y)
	alpha := uint8(255 * fc.Reflectivity)
	if alpha == 0 {
		return
	}
	scene.EachWall(func(tf *components.Transform, tint *components.Tint) {
		pos := tf.Pos
		pos.Y = 2*floorY - pos.Y
		rot := components.Vec3{X: -tf.Rot.X, Y: tf.Rot.Y, Z: -tf.Rot.Z}
		c := tint.Color
		c.A = alpha
		r.drawCube(pos, rot, tf.Scale, c)
	})
}

func (r *SceneRenderer) drawFloor(reflective bool) {
	fc := r.cfg.Floor
	c := r.floor
	if reflective {
		c.A = uint8(255 * (1 - fc.Reflectivity))
	}
	size := float32(fc.Size)
	rl.DrawPlane(rl.NewVector3(0, float32(fc.Y), 0), rl.NewVector2(size, size), rgba(c))
}

func (r *SceneRenderer) drawCube(pos, rot, scale components.Vec3, c color.RGBA) {
	r.cube.Transform = rl.MatrixRotateXYZ(vec(rot))
	rl.DrawModelEx(r.cube, vec(pos), rl.NewVector3(0, 1, 0), 0, vec(scale), rgba(c))
}

// Unload frees resources.
func (r *SceneRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadModel(r.cube)
	for _, m := range r.parts {
		rl.UnloadModel(m)
	}
	r.parts = nil
	r.initialized = false
}

func vec(v components.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

func rgba(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
