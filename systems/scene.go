package systems

import (
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/ams-law/goldsite/components"
	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/frame"
	"github.com/ams-law/goldsite/input"
)

// SceneElements owns the ECS world for the procedural gold scene:
// the cube wall, the scales rig parts, and the spark pool.
type SceneElements struct {
	World *ecs.World
	Cfg   config.SceneConfig
	Gold  color.RGBA

	wallMap     *ecs.Map5[components.Transform, components.Goal, components.Oscillator, components.Tint, components.WallCell]
	wallFilter  *ecs.Filter5[components.Transform, components.Goal, components.Oscillator, components.Tint, components.WallCell]
	partMap     *ecs.Map3[components.Transform, components.Goal, components.ScalePart]
	partFilter  *ecs.Filter3[components.Transform, components.Goal, components.ScalePart]
	sparkMap    *ecs.Map3[components.Transform, components.Tint, components.Spark]
	sparkFilter *ecs.Filter3[components.Transform, components.Tint, components.Spark]

	rng   *rand.Rand
	noise opensimplex.Noise

	walls, parts, sparks int
	liveSparks           int
	beamTarget           float32
}

// NewSceneElements creates an empty scene. Call Generate to populate it.
func NewSceneElements(cfg config.SceneConfig, gold color.RGBA, rng *rand.Rand) *SceneElements {
	world := ecs.NewWorld()
	return &SceneElements{
		World: world,
		Cfg:   cfg,
		Gold:  gold,

		wallMap:     ecs.NewMap5[components.Transform, components.Goal, components.Oscillator, components.Tint, components.WallCell](world),
		wallFilter:  ecs.NewFilter5[components.Transform, components.Goal, components.Oscillator, components.Tint, components.WallCell](world),
		partMap:     ecs.NewMap3[components.Transform, components.Goal, components.ScalePart](world),
		partFilter:  ecs.NewFilter3[components.Transform, components.Goal, components.ScalePart](world),
		sparkMap:    ecs.NewMap3[components.Transform, components.Tint, components.Spark](world),
		sparkFilter: ecs.NewFilter3[components.Transform, components.Tint, components.Spark](world),

		rng:   rng,
		noise: opensimplex.New(rng.Int63()),
	}
}

// Generate creates every element once. The element set is fixed afterwards.
func (s *SceneElements) Generate() {
	s.generateWall()
	s.generateParts()
	if s.Cfg.Particles.Enabled {
		s.generateSparks()
	}
	slog.Info("scene generated", "walls", s.walls, "parts", s.parts, "sparks", s.sparks)
}

func (s *SceneElements) generateWall() {
	wc := s.Cfg.Wall
	originX := -float64(wc.Cols-1) * wc.Spacing / 2
	originY := -float64(wc.Rows-1) * wc.Spacing / 2

	for row := 0; row < wc.Rows; row++ {
		for col := 0; col < wc.Cols; col++ {
			base := components.Vec3{
				X: float32(originX + float64(col)*wc.Spacing + s.jitter(wc.Jitter)),
				Y: float32(originY + float64(row)*wc.Spacing + s.jitter(wc.Jitter)),
				Z: float32(wc.Depth + s.jitter(wc.Jitter)),
			}
			size := float32(wc.Size * (1 + s.jitter(wc.ScaleJitter)))

			tf := components.Transform{Pos: base, Scale: components.Vec3{X: size, Y: size, Z: size}}
			goal := components.Goal{Pos: base}
			osc := components.Oscillator{
				Phase:     float32(s.rng.Float64() * 2 * math.Pi),
				Speed:     float32(wc.SpeedMin + s.rng.Float64()*(wc.SpeedMax-wc.SpeedMin)),
				Amplitude: float32(wc.Amplitude),
			}
			tint := components.Tint{Color: JitterGold(s.Gold, s.jitter(wc.ColorJitter))}
			cell := components.WallCell{Col: int16(col), Row: int16(row), Base: base}

			s.wallMap.NewEntity(&tf, &goal, &osc, &tint, &cell)
			s.walls++
		}
	}
}

func (s *SceneElements) generateParts() {
	sc := s.Cfg.Scales
	names := make([]string, len(sc.Parts))
	for i, p := range sc.Parts {
		names[i] = p.Name
	}
	roles := ClassifyParts(names)

	origin := vec3(sc.Position)
	scale := float32(sc.Scale)
	for i, p := range sc.Parts {
		pivot := vec3(p.Pivot)
		pos := origin.Add(pivot)
		tf := components.Transform{Pos: pos, Scale: components.Vec3{X: scale, Y: scale, Z: scale}}
		goal := components.Goal{Pos: pos}
		part := components.ScalePart{Index: int16(i), Role: roles[i], Pivot: pivot}
		s.partMap.NewEntity(&tf, &goal, &part)
		s.parts++
	}
}

func (s *SceneElements) generateSparks() {
	pc := s.Cfg.Particles
	for i := 0; i < pc.Count; i++ {
		tf := components.Transform{}
		tint := components.Tint{Color: s.Gold}
		spark := components.Spark{Size: float32(pc.Size * (0.5 + s.rng.Float64()))}
		s.sparkMap.NewEntity(&tf, &tint, &spark)
		s.sparks++
	}
}

// jitter returns a uniform value in [-amount, amount).
func (s *SceneElements) jitter(amount float64) float64 {
	return (s.rng.Float64()*2 - 1) * amount
}

// JitterGold shifts the lightness of base in HCL space, keeping hue and chroma.
func JitterGold(base color.RGBA, dl float64) color.RGBA {
	c, _ := colorful.MakeColor(base)
	h, ch, l := c.Hcl()
	r, g, b := colorful.Hcl(h, ch, clamp01(l+dl)).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: base.A}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func vec3(a [3]float64) components.Vec3 {
	return components.Vec3{X: float32(a[0]), Y: float32(a[1]), Z: float32(a[2])}
}

// Counts returns the number of wall cubes, rig parts, and pooled sparks.
func (s *SceneElements) Counts() (walls, parts, sparks int) {
	return s.walls, s.parts, s.sparks
}

// LiveSparks returns the number of sparks emitted and not yet expired.
func (s *SceneElements) LiveSparks() int { return s.liveSparks }

// BeamTarget returns the beam rotation goal from the last update.
func (s *SceneElements) BeamTarget() float32 { return s.beamTarget }

// Update evolves every element from elapsed time and the smoothed pointer.
// On touch-class devices the scales follow a slow automatic swing instead.
func (s *SceneElements) Update(clock *frame.Clock, pointer input.Vec2, device input.DeviceClass) {
	t := clock.Elapsed
	s.updateWall(t, pointer)
	s.updateParts(t, pointer, device)
	if s.Cfg.Particles.Enabled {
		s.updateSparks(t, pointer)
	}
}

func (s *SceneElements) updateWall(t float64, pointer input.Vec2) {
	wc := s.Cfg.Wall
	px, py := float32(pointer.X), float32(pointer.Y)
	parallax := float32(wc.Parallax)
	tilt := float32(wc.Tilt)
	lerp := float32(wc.Lerp)

	query := s.wallFilter.Query()
	for query.Next() {
		tf, goal, osc, _, cell := query.Get()
		phase := t*float64(osc.Speed) + float64(osc.Phase)

		goal.Pos = components.Vec3{
			X: cell.Base.X + px*parallax,
			Y: cell.Base.Y + float32(math.Sin(phase))*osc.Amplitude + py*parallax*0.5,
			Z: cell.Base.Z,
		}
		goal.Rot = components.Vec3{
			X: py * tilt,
			Y: px * tilt,
			Z: float32(math.Sin(phase*0.5)) * float32(wc.Shimmer),
		}

		tf.Pos = tf.Pos.Lerp(goal.Pos, lerp)
		tf.Rot = tf.Rot.Lerp(goal.Rot, lerp)
	}
}

// ScalesTarget returns the beam rotation goal for the given input state.
func ScalesTarget(sc config.ScalesConfig, t float64, pointer input.Vec2, device input.DeviceClass) float32 {
	if device == input.DeviceTouch {
		return float32(math.Sin(t*sc.AutoSpeed) * sc.AutoTilt)
	}
	return float32(pointer.X * sc.MaxTilt)
}

func (s *SceneElements) updateParts(t float64, pointer input.Vec2, device input.DeviceClass) {
	sc := s.Cfg.Scales
	target := ScalesTarget(sc, t, pointer, device)
	s.beamTarget = target
	lerp := float32(sc.Lerp)

	query := s.partFilter.Query()
	for query.Next() {
		tf, goal, part := query.Get()
		switch part.Role {
		case components.RoleBeam:
			goal.Rot.X = target
		case components.RolePanLeft, components.RolePanRight:
			// Pans counter-rotate so they hang level under the beam.
			goal.Rot.X = -target
		default:
			continue
		}
		tf.Rot = tf.Rot.Lerp(goal.Rot, lerp)
	}
}

func (s *SceneElements) updateSparks(t float64, pointer input.Vec2) {
	pc := s.Cfg.Particles
	wc := s.Cfg.Wall
	halfW := float64(wc.Cols) * wc.Spacing / 2
	halfH := float64(wc.Rows) * wc.Spacing / 2
	emitX := pointer.X * halfW
	emitY := pointer.Y * halfH
	emitZ := wc.Depth + wc.Size

	toEmit := pc.EmitPerFrame
	live := 0

	query := s.sparkFilter.Query()
	for query.Next() {
		tf, tint, spark := query.Get()

		if !spark.Alive() {
			if toEmit <= 0 {
				continue
			}
			toEmit--
			angle := s.rng.Float64() * 2 * math.Pi
			r := s.rng.Float64() * pc.Spread
			tf.Pos = components.Vec3{
				X: float32(emitX + math.Cos(angle)*r),
				Y: float32(emitY + math.Sin(angle)*r),
				Z: float32(emitZ + s.rng.Float64()*pc.Spread),
			}
			spark.Vel = components.Vec3{
				X: float32(s.jitter(pc.Speed)),
				Y: float32(pc.Speed * (0.5 + s.rng.Float64())),
				Z: float32(s.jitter(pc.Speed)),
			}
			life := int32(float64(pc.Life) * (0.75 + s.rng.Float64()*0.5))
			if life < 1 {
				life = 1
			}
			spark.Life, spark.MaxLife = life, life
		}

		ns := pc.NoiseScale
		x, y, z := float64(tf.Pos.X)*ns, float64(tf.Pos.Y)*ns, t*0.3
		spark.Vel.X += float32(s.noise.Eval3(x, y, z) * pc.Turbulence)
		spark.Vel.Y += float32(s.noise.Eval3(x+31.7, y, z) * pc.Turbulence)
		spark.Vel.Z += float32(s.noise.Eval3(x, y+47.3, z) * pc.Turbulence * 0.5)

		// Drag
		spark.Vel.X *= 0.96
		spark.Vel.Y *= 0.96
		spark.Vel.Z *= 0.96

		tf.Pos = tf.Pos.Add(spark.Vel)
		spark.Life--

		fade := float64(spark.Life) / float64(spark.MaxLife)
		tint.Color.A = uint8(255 * clamp01(fade))
		if spark.Alive() {
			live++
		}
	}
	s.liveSparks = live
}

// ClassifyPart returns the role implied by a single node name. Pans without
// a side hint are reported as RolePanLeft; ClassifyParts resolves sides
// across a whole list.
func ClassifyPart(name string) components.PartRole {
	return ClassifyParts([]string{name})[0]
}

// ClassifyParts assigns roles by name: beam, bar, or arm marks the beam;
// pan, bowl, plate, or dish marks a pan, sided by left/l_/_l or right/r_/_r.
// Unsided pans fill the left slot first, then the right.
func ClassifyParts(names []string) []components.PartRole {
	roles := make([]components.PartRole, len(names))
	haveLeft, haveRight := false, false

	for i, raw := range names {
		name := strings.ToLower(raw)
		if containsAny(name, "beam", "bar", "arm") {
			roles[i] = components.RoleBeam
			continue
		}
		if !containsAny(name, "pan", "bowl", "plate", "dish") {
			continue
		}
		switch {
		case containsAny(name, "left", "l_", "_l"):
			roles[i] = components.RolePanLeft
			haveLeft = true
		case containsAny(name, "right", "r_", "_r"):
			roles[i] = components.RolePanRight
			haveRight = true
		case !haveLeft:
			roles[i] = components.RolePanLeft
			haveLeft = true
		case !haveRight:
			roles[i] = components.RolePanRight
			haveRight = true
		}
	}
	return roles
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// EachWall calls fn for every wall cube.
func (s *SceneElements) EachWall(fn func(tf *components.Transform, tint *components.Tint)) {
	query := s.wallFilter.Query()
	for query.Next() {
		tf, _, _, tint, _ := query.Get()
		fn(tf, tint)
	}
}

// EachPart calls fn for every scales rig part.
func (s *SceneElements) EachPart(fn func(tf *components.Transform, part *components.ScalePart)) {
	query := s.partFilter.Query()
	for query.Next() {
		tf, _, part := query.Get()
		fn(tf, part)
	}
}

// EachSpark calls fn for every live spark.
func (s *SceneElements) EachSpark(fn func(tf *components.Transform, tint *components.Tint, spark *components.Spark)) {
	query := s.sparkFilter.Query()
	for query.Next() {
		tf, tint, spark := query.Get()
		if spark.Alive() {
			fn(tf, tint, spark)
		}
	}
}
