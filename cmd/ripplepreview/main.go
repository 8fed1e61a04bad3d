// Ripple preview tool - interactive ripple field with parameter sliders.
//
// Usage: go run ./cmd/ripplepreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 560
	previewW     = 720
	previewH     = 405
	panelWidth   = windowWidth - previewW - 30
)

// previewParams holds the slider-driven values.
type previewParams struct {
	Damping       float32
	Normalization float32
	DropRadius    float32
	ClickStrength float32
	RainEvery     float32 // Seconds between automatic drops, 0 = off
}

func defaultParams(cfg *config.Config) previewParams {
	return previewParams{
		Damping:       float32(cfg.Ripple.Damping),
		Normalization: float32(cfg.Ripple.Normalization),
		DropRadius:    float32(cfg.Ripple.DropRadius),
		ClickStrength: float32(cfg.Ripple.ClickStrength),
	}
}

func main() {
	config.MustInit("")
	cfg := config.Cfg()

	rl.InitWindow(windowWidth, windowHeight, "Ripple Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	params := defaultParams(cfg)

	field := systems.NewRippleField(systems.DefaultRippleParams())
	field.Resize(previewW, previewH)
	impulses := systems.NewPointerImpulses(field, systems.DefaultImpulseParams())
	palette := systems.DefaultRipplePalette()

	gw, gh := field.Size()
	img := rl.GenImageColor(gw, gh, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	rl.SetTextureFilter(texture, rl.FilterBilinear)

	var pixels []color.RGBA
	paused := false
	var rainTimer float32

	for !rl.WindowShouldClose() {
		// Apply slider values
		field.Params.Damping = float64(params.Damping)
		field.Params.Normalization = float64(params.Normalization)
		field.Params.DropRadius = float64(params.DropRadius)
		impulses.Params.ClickStrength = float64(params.ClickStrength)

		// Pointer input over the preview
		mouse := rl.GetMousePosition()
		px, py := float64(mouse.X-10), float64(mouse.Y-10)
		if px >= 0 && py >= 0 && px < previewW && py < previewH {
			delta := rl.GetMouseDelta()
			if delta.X != 0 || delta.Y != 0 {
				impulses.Move(px, py, previewW, previewH)
			}
			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
				impulses.Click(px, py, previewW, previewH)
			}
		}

		// Automatic drops
		if params.RainEvery > 0 && !paused {
			rainTimer += rl.GetFrameTime()
			if rainTimer >= params.RainEvery {
				rainTimer = 0
				x := float64(rl.GetRandomValue(0, previewW-1))
				y := float64(rl.GetRandomValue(0, previewH-1))
				impulses.Click(x, y, previewW, previewH)
			}
		}

		if !paused {
			field.Step()
		}
		pixels = field.Colorize(pixels, palette)
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(20, 20, 20, 255))

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gw), Height: float32(gh)},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		// Draw stats
		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Grid: %dx%d  Energy: %.0f", gw, gh, field.Energy()), 15, statsY, 16, rl.LightGray)
		rl.DrawText("Move the mouse over the preview, click for a drop", 15, statsY+20, 16, rl.Gray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Ripple Parameters", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35

		params.Damping = slider(&panelY, panelX, "Damping (energy kept per step)", "%.4f", params.Damping, 0.9, 0.9995)
		params.Normalization = slider(&panelY, panelX, "Normalization (full-intensity displacement)", "%.0f", params.Normalization, 10, 1000)
		params.DropRadius = slider(&panelY, panelX, "Drop radius (cells)", "%.1f", params.DropRadius, 1, 24)
		params.ClickStrength = slider(&panelY, panelX, "Click strength", "%.0f", params.ClickStrength, 50, 5000)
		params.RainEvery = slider(&panelY, panelX, "Rain interval (s, 0 = off)", "%.2f", params.RainEvery, 0, 2)

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Clear") {
			field.Reset()
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			field.Reset()
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Print YAML") {
			fmt.Printf("ripple:\n  damping: %.4f\n  normalization: %.0f\n  drop_radius: %.1f\n  click_strength: %.0f\n",
				params.Damping, params.Normalization, params.DropRadius, params.ClickStrength)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar, advances y, and returns the new value.
func slider(y *float32, x float32, label, format string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.LightGray)
	*y += 35
	return next
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
