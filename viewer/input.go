package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/input"
	"github.com/ams-law/goldsite/ui"
)

// handleInput polls raylib and queues host events on the bus.
func (v *Viewer) handleInput() {
	// Window resize propagation
	v.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && v.stepsPerUpdate > 1 {
		v.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.stepsPerUpdate < 10 {
		v.stepsPerUpdate++
	}

	// Clear the field
	if rl.IsKeyPressed(rl.KeyC) {
		v.ripple.Field.Reset()
	}

	v.overlays.HandleKeys()

	v.handlePointer()
}

// handlePointer turns mouse and touch state into pointer events.
func (v *Viewer) handlePointer() {
	w, h := int(v.screenWidth), int(v.screenHeight)

	touching := rl.GetTouchPointCount() > 0
	if touching != v.touch {
		v.touch = touching
		v.device = input.ClassifyDevice(w, v.cfg.Scene.Input.TouchBreakpoint, v.touch)
	}

	pos := rl.GetMousePosition()
	px, py := float64(pos.X), float64(pos.Y)
	if px < 0 || py < 0 || px > float64(w) || py > float64(h) {
		return
	}

	// raylib reports (0,0) until the first mouse or touch event
	if !v.hasPointer && px == 0 && py == 0 {
		return
	}

	// Clicks on the tuning panel belong to its sliders
	if v.overlays.IsEnabled(ui.OverlayTuning) && px > float64(w-300) {
		return
	}

	if !v.hasPointer || px != v.pointerX || py != v.pointerY {
		v.hasPointer = true
		v.pointerX, v.pointerY = px, py
		v.bus.Push(input.Event{Kind: input.EventPointerMove, X: px, Y: py, W: w, H: h})
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		v.bus.Push(input.Event{Kind: input.EventPointerClick, X: px, Y: py, W: w, H: h})
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	v.bus.Push(input.Event{Kind: input.EventResize, W: int(w), H: int(h)})
	v.device = input.ClassifyDevice(int(w), v.cfg.Scene.Input.TouchBreakpoint, v.touch)

	v.rig.Resize(w, h)
	if v.rippleRenderer != nil {
		v.rippleRenderer.Resize(w, h)
	}
	if v.perfPanel != nil {
		v.perfPanel.SetPosition(int32(w)-290, 10)
	}
	if v.tuning != nil {
		v.tuning.SetPosition(int32(w)-290, 10)
	}
}

// syntheticInput drives the pointer along a Lissajous path and clicks at a
// fixed cadence, so headless runs exercise every impulse path.
func (v *Viewer) syntheticInput() {
	w, h := v.ripple.Viewport()
	if w <= 0 || h <= 0 {
		return
	}
	t := v.clock.Elapsed
	px := (0.5 + 0.4*math.Sin(t*0.7)) * float64(w)
	py := (0.5 + 0.4*math.Sin(t*1.1)) * float64(h)

	v.hasPointer = true
	v.pointerX, v.pointerY = px, py
	v.bus.Push(input.Event{Kind: input.EventPointerMove, X: px, Y: py, W: w, H: h})

	fps := v.cfg.Screen.TargetFPS
	if fps > 0 && v.frame%int32(fps*2) == 0 {
		v.bus.Push(input.Event{Kind: input.EventPointerClick, X: px, Y: py, W: w, H: h})
	}
}
