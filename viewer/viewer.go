// Package viewer runs the desktop rendition of the site visuals: the ripple
// background under the procedural gold scene, with HUD and telemetry.
package viewer

import (
	"log/slog"
	"math/rand"

	"github.com/ams-law/goldsite/camera"
	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/frame"
	"github.com/ams-law/goldsite/input"
	"github.com/ams-law/goldsite/renderer"
	"github.com/ams-law/goldsite/systems"
	"github.com/ams-law/goldsite/telemetry"
	"github.com/ams-law/goldsite/ui"
)

// Title is shown in the window bar and the HUD.
const Title = "AMS Law"

// Options configures viewer initialization.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Viewer holds the complete visual state.
type Viewer struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	// Frame plumbing
	bus    *input.Bus
	loop   *frame.Loop
	clock  frame.Clock
	ripple *systems.RippleLayer
	scope  frame.Scope // Viewer-owned bus subscriptions

	// Scene
	tracker *input.Tracker
	scene   *systems.SceneElements
	rig     *camera.Rig
	device  input.DeviceClass
	touch   bool

	// Rendering
	rippleRenderer *renderer.RippleRenderer
	sceneRenderer  *renderer.SceneRenderer

	// UI
	hud       *ui.HUD
	overlays  *ui.OverlayRegistry
	controls  *ui.ControlsPanel
	tuning    *ui.TuningPanel
	perfPanel *ui.PerfPanel
	registry  *systems.SystemRegistry

	// Telemetry
	perf             *telemetry.PerfCollector
	sampler          *telemetry.RippleSampler
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string

	// State
	frame          int32
	paused         bool
	headless       bool
	stepsPerUpdate int

	// Last polled pointer, in viewport pixels
	pointerX, pointerY float64
	hasPointer         bool
	hasOrientation     bool

	screenWidth, screenHeight float32
}

// NewViewer creates a viewer. In headless mode no raylib call is made.
func NewViewer(opts Options) *Viewer {
	cfg := config.Cfg()

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	v := &Viewer{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		bus:            input.NewBus(),
		loop:           frame.NewLoop(),
		headless:       opts.Headless,
		stepsPerUpdate: stepsPerUpdate,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	// Ripple layer on the frame loop
	field := systems.NewRippleField(systems.DefaultRippleParams())
	v.ripple = systems.NewRippleLayer(field, systems.DefaultImpulseParams())
	v.ripple.Mount(v.loop, v.bus, cfg.Screen.Width, cfg.Screen.Height)

	// Scene
	ic := cfg.Scene.Input
	v.tracker = input.NewTracker(input.TrackerParams{
		Smoothing:        ic.Smoothing,
		OrientationRange: ic.OrientationRange,
		BetaRest:         ic.BetaRest,
		AutoAmplitude:    ic.AutoAmplitude,
	})
	v.scene = systems.NewSceneElements(cfg.Scene, cfg.Derived.SceneGold, v.rng)
	v.scene.Generate()
	v.rig = camera.FromConfig(cfg.Scene.Camera, v.screenWidth, v.screenHeight)
	v.device = input.ClassifyDevice(cfg.Screen.Width, ic.TouchBreakpoint, false)
	v.scope.Defer(v.bus.Subscribe(input.EventPointerMove, func(ev input.Event) {
		if v.targetSource() == input.SourcePointer {
			v.tracker.PointerMove(ev.X, ev.Y, ev.W, ev.H)
		}
	}))
	v.scope.Defer(v.bus.Subscribe(input.EventOrientation, func(ev input.Event) {
		v.hasOrientation = true
		if v.targetSource() == input.SourceOrientation {
			v.tracker.Orientation(ev.Gamma, ev.Beta)
		}
	}))

	// Telemetry
	v.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	v.sampler = telemetry.NewRippleSampler(statsWindow)
	v.bookmarkDetector = telemetry.NewBookmarkDetector(10)
	v.ripple.OnStep = func() {
		v.sampler.RecordStep(v.ripple.Field.Energy())
	}
	v.scope.Defer(v.bus.Subscribe(input.EventPointerMove, func(input.Event) { v.sampler.RecordMove() }))
	v.scope.Defer(v.bus.Subscribe(input.EventPointerClick, func(input.Event) { v.sampler.RecordClick() }))
	v.scope.Defer(v.bus.Subscribe(input.EventResize, func(input.Event) { v.sampler.RecordResize() }))

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			v.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	// Overlay state is shared by both modes
	v.overlays = ui.NewOverlayRegistry()
	v.registry = systems.NewSystemRegistry()

	if !v.headless {
		v.initGraphics()
	}

	gw, gh := field.Size()
	slog.Info("viewer created",
		"seed", opts.Seed,
		"headless", v.headless,
		"grid_w", gw,
		"grid_h", gh,
		"device", v.device.String(),
	)
	return v
}

// initGraphics creates renderers and panels. Requires a raylib window.
func (v *Viewer) initGraphics() {
	cfg := v.cfg
	v.rippleRenderer = renderer.NewRippleRenderer(int32(v.screenWidth), int32(v.screenHeight), systems.DefaultRipplePalette())
	v.sceneRenderer = renderer.NewSceneRenderer(cfg.Scene, cfg.Derived.FloorColor)
	v.sceneRenderer.Init()

	v.hud = ui.NewHUD()
	v.controls = ui.NewControlsPanel(10, 70, 200)
	v.perfPanel = ui.NewPerfPanel(int32(v.screenWidth)-290, 10, v.registry)
	v.tuning = ui.NewTuningPanel(int32(v.screenWidth)-290, 10, 280, v.tuningSliders())
}

// tuningSliders binds live ripple and scene parameters to sliders.
func (v *Viewer) tuningSliders() []ui.Slider {
	field := v.ripple.Field
	impulses := v.ripple.Impulses
	return []ui.Slider{
		{
			Label: "Damping", Min: 0.95, Max: 0.999,
			Get: func() float64 { return field.Params.Damping },
			Set: func(x float64) { field.Params.Damping = x },
		},
		{
			Label: "Normalization", Format: "%.0f", Min: 20, Max: 1000,
			Get: func() float64 { return field.Params.Normalization },
			Set: func(x float64) { field.Params.Normalization = x },
		},
		{
			Label: "Drop radius", Format: "%.1f", Min: 1, Max: 24,
			Get: func() float64 { return field.Params.DropRadius },
			Set: func(x float64) { field.Params.DropRadius = x },
		},
		{
			Label: "Click strength", Format: "%.0f", Min: 50, Max: 2000,
			Get: func() float64 { return impulses.Params.ClickStrength },
			Set: func(x float64) { impulses.Params.ClickStrength = x },
		},
		{
			Label: "Smoothing", Min: 0.005, Max: 0.3,
			Get: func() float64 { return v.tracker.Params.Smoothing },
			Set: func(x float64) { v.tracker.Params.Smoothing = x },
		},
	}
}

// Update processes input and advances one frame. The frame timing opened
// here is closed by Draw.
func (v *Viewer) Update() {
	v.perf.StartTick()

	v.perf.StartPhase(telemetry.PhaseInput)
	v.handleInput()

	if !v.paused {
		for i := 0; i < v.stepsPerUpdate; i++ {
			v.step()
		}
	}
}

// UpdateHeadless advances one frame driven by a synthetic pointer.
func (v *Viewer) UpdateHeadless() {
	v.perf.StartTick()

	v.perf.StartPhase(telemetry.PhaseInput)
	v.syntheticInput()

	for i := 0; i < v.stepsPerUpdate; i++ {
		v.step()
	}

	v.perf.EndTick()
}

// step dispatches queued input, runs frame callbacks, and animates the scene.
func (v *Viewer) step() {
	dt := v.cfg.Derived.DT

	v.perf.StartPhase(telemetry.PhaseInput)
	v.bus.Dispatch()

	v.perf.StartPhase(telemetry.PhaseRippleStep)
	v.clock.Advance(dt)
	v.loop.Tick(dt)

	v.perf.StartPhase(telemetry.PhaseSceneUpdate)
	if v.targetSource() == input.SourceSynthetic {
		v.tracker.SetTarget(input.Synthetic(v.clock.Elapsed, v.tracker.Params.AutoAmplitude))
	}
	v.tracker.Update()
	v.rig.Update(v.tracker.Current)
	v.scene.Update(&v.clock, v.tracker.Current, v.device)

	v.frame++
	v.flushTelemetry()
}

// targetSource reports what drives the tracker on the current device.
// Ripple impulses follow the pointer regardless.
func (v *Viewer) targetSource() input.TargetSource {
	return input.SelectSource(v.device, v.hasOrientation)
}

// Tick returns the current frame number.
func (v *Viewer) Tick() int32 {
	return v.frame
}

// Field returns the ripple field.
func (v *Viewer) Field() *systems.RippleField {
	return v.ripple.Field
}

// Scene returns the procedural scene.
func (v *Viewer) Scene() *systems.SceneElements {
	return v.scene
}

// Unload releases all resources and closes telemetry output.
func (v *Viewer) Unload() {
	v.scope.Close()
	v.ripple.Unmount()
	if v.rippleRenderer != nil {
		v.rippleRenderer.Unload()
	}
	if v.sceneRenderer != nil {
		v.sceneRenderer.Unload()
	}
	if err := v.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
