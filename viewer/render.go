package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/renderer"
	"github.com/ams-law/goldsite/telemetry"
	"github.com/ams-law/goldsite/ui"
)

const controlsLegend = "[Space] Pause  [</>] Speed  [C] Clear  [F11] Fullscreen  [R/W/S/P/F] Layers  [H] Stats  [T] Timing  [G] Tuning"

// Draw renders one frame and closes the frame timing opened by Update.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.perf.StartPhase(telemetry.PhaseRippleColorize)
	if v.overlays.IsEnabled(ui.OverlayRipple) {
		v.rippleRenderer.Update(v.ripple.Field)
		v.rippleRenderer.Draw()
	}

	v.perf.StartPhase(telemetry.PhaseSceneDraw)
	v.sceneRenderer.Draw(v.scene, v.rig, v.sceneLayers())

	v.perf.StartPhase(telemetry.PhaseHUD)
	v.drawUI()

	rl.EndDrawing()

	v.perf.EndTick()
	v.perf.RecordFrame()
}

// sceneLayers maps overlay toggles to scene renderer layers.
func (v *Viewer) sceneLayers() renderer.SceneLayers {
	return renderer.SceneLayers{
		Wall:       v.overlays.IsEnabled(ui.OverlayWall),
		Reflection: v.overlays.IsEnabled(ui.OverlayReflection),
		Scales:     v.overlays.IsEnabled(ui.OverlayScales),
		Sparks:     v.overlays.IsEnabled(ui.OverlaySparks),
	}
}

func (v *Viewer) drawUI() {
	data := v.hudData()
	v.hud.Draw(data)

	y := int32(70)
	if v.overlays.IsEnabled(ui.OverlayStats) {
		y = v.hud.DrawStats(10, y, 240, data) + 10
	}
	v.controls.SetPosition(10, y)
	v.controls.Draw(v.overlays)

	switch {
	case v.overlays.IsEnabled(ui.OverlayPerf):
		v.perfPanel.Draw(v.perf.Stats())
	case v.overlays.IsEnabled(ui.OverlayTuning):
		if v.tuning.Draw() {
			slog.Debug("ripple tuned", "params", v.ripple.Field.Params, "impulses", v.ripple.Impulses.Params)
		}
	}

	v.hud.DrawControls(int32(v.screenHeight), controlsLegend)
}

// hudData gathers the values shown by the HUD.
func (v *Viewer) hudData() ui.HUDData {
	gw, gh := v.ripple.Field.Size()
	_, _, pool := v.scene.Counts()
	return ui.HUDData{
		Title:         Title,
		Frame:         v.frame,
		FPS:           rl.GetFPS(),
		Paused:        v.paused,
		ScreenWidth:   int32(v.screenWidth),
		ScreenHeight:  int32(v.screenHeight),
		GridW:         gw,
		GridH:         gh,
		Energy:        v.ripple.Field.Energy(),
		Normalization: v.ripple.Field.Params.Normalization,
		Steps:         v.ripple.Steps(),
		Device:        v.device.String(),
		PointerX:      float32(v.tracker.Current.X),
		PointerY:      float32(v.tracker.Current.Y),
		BeamTilt:      v.scene.BeamTarget(),
		MaxTilt:       float32(v.cfg.Scene.Scales.MaxTilt),
		Sparks:        v.scene.LiveSparks(),
		SparkPool:     pool,
		Gold:          v.scene.Gold,
	}
}
