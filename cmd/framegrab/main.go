// Frame grab tool - renders the ripple background and gold scene after a
// scripted click and writes the result to a PNG file.
//
// Usage: go run ./cmd/framegrab -frames 45 -out frame.png
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/camera"
	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/frame"
	"github.com/ams-law/goldsite/input"
	"github.com/ams-law/goldsite/renderer"
	"github.com/ams-law/goldsite/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "frame.png", "Output PNG path")
	width := flag.Int("width", 1280, "Render width")
	height := flag.Int("height", 720, "Render height")
	frames := flag.Int("frames", 45, "Frames to simulate after the click")
	clickX := flag.Float64("click-x", 0.5, "Click position as a fraction of the width")
	clickY := flag.Float64("click-y", 0.5, "Click position as a fraction of the height")
	seed := flag.Int64("seed", 1, "Scene RNG seed")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	w, h := *width, *height

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(w), int32(h), "Frame Grab")
	defer rl.CloseWindow()

	// Ripple layer on a private loop
	bus := input.NewBus()
	loop := frame.NewLoop()
	var clock frame.Clock
	layer := systems.NewRippleLayer(systems.NewRippleField(systems.DefaultRippleParams()), systems.DefaultImpulseParams())
	layer.Mount(loop, bus, w, h)
	defer layer.Unmount()

	scene := systems.NewSceneElements(cfg.Scene, cfg.Derived.SceneGold, rand.New(rand.NewSource(*seed)))
	scene.Generate()
	rig := camera.FromConfig(cfg.Scene.Camera, float32(w), float32(h))

	px, py := *clickX*float64(w), *clickY*float64(h)
	tracker := input.NewTracker(input.DefaultTrackerParams())
	tracker.PointerMove(px, py, w, h)
	bus.Push(input.Event{Kind: input.EventPointerClick, X: px, Y: py, W: w, H: h})

	for i := 0; i < *frames; i++ {
		bus.Dispatch()
		clock.Advance(cfg.Derived.DT)
		loop.Tick(cfg.Derived.DT)
		tracker.Update()
		rig.Update(tracker.Current)
		scene.Update(&clock, tracker.Current, input.DevicePointer)
	}

	ripple := renderer.NewRippleRenderer(int32(w), int32(h), systems.DefaultRipplePalette())
	defer ripple.Unload()
	sceneRenderer := renderer.NewSceneRenderer(cfg.Scene, cfg.Derived.FloorColor)
	sceneRenderer.Init()
	defer sceneRenderer.Unload()

	// Create render texture
	target := rl.LoadRenderTexture(int32(w), int32(h))
	defer rl.UnloadRenderTexture(target)

	ripple.Update(layer.Field)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	ripple.Draw()
	sceneRenderer.Draw(scene, rig, renderer.AllLayers)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	// Export to PNG
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Frame %d rendered to: %s (%dx%d, energy %.0f)\n", *frames, *outPath, w, h, layer.Field.Energy())
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
