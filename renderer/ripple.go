package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/systems"
)

// RippleRenderer uploads the ripple field at grid resolution and draws it
// upscaled to the viewport with bilinear filtering.
type RippleRenderer struct {
	Palette systems.RipplePalette

	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	screenW, screenH float32
	initialized      bool
}

// NewRippleRenderer creates a renderer for a screenW x screenH viewport.
func NewRippleRenderer(screenW, screenH int32, pal systems.RipplePalette) *RippleRenderer {
	return &RippleRenderer{
		Palette: pal,
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init creates the texture (must be called after raylib window is created).
// Without a window or with an empty grid the renderer stays disabled.
func (r *RippleRenderer) Init(gridW, gridH int) {
	if r.initialized && gridW == r.texW && gridH == r.texH {
		return
	}
	r.Unload()
	if gridW <= 0 || gridH <= 0 || !rl.IsWindowReady() {
		return
	}

	r.texW = gridW
	r.texH = gridH

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if r.tex.ID == 0 {
		return
	}

	// Smooth upscale from grid cells to screen pixels
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)

	r.initialized = true
}

// Resize updates the destination viewport.
func (r *RippleRenderer) Resize(screenW, screenH float32) {
	r.screenW = screenW
	r.screenH = screenH
}

// Update colorizes the field and uploads it, recreating the texture when
// the grid size changed.
func (r *RippleRenderer) Update(field *systems.RippleField) {
	w, h := field.Size()
	r.Init(w, h)
	if !r.initialized {
		return
	}
	r.pixels = field.Colorize(r.pixels, r.Palette)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the texture over the full viewport.
func (r *RippleRenderer) Draw() {
	if !r.initialized {
		return
	}
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Ready reports whether a texture is bound.
func (r *RippleRenderer) Ready() bool { return r.initialized }

// Unload frees resources.
func (r *RippleRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.tex)
		r.initialized = false
	}
}
