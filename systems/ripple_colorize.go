package systems

import (
	"image/color"
	"math"

	"github.com/ams-law/goldsite/config"
)

// RipplePalette maps displacement magnitude to a gold tone.
type RipplePalette struct {
	Base         [3]float64 // 0-255 channels
	Coefficients [3]float64
}

// DefaultRipplePalette returns the palette from the global config.
func DefaultRipplePalette() RipplePalette {
	cfg := config.Cfg()
	return RipplePalette{
		Base:         cfg.Derived.RippleGold,
		Coefficients: cfg.Ripple.Palette.Coefficients,
	}
}

// Shade returns the color for a normalized intensity v.
func (p RipplePalette) Shade(v float64) color.RGBA {
	return color.RGBA{
		R: channel(v * p.Base[0] * p.Coefficients[0]),
		G: channel(v * p.Base[1] * p.Coefficients[1]),
		B: channel(v * p.Base[2] * p.Coefficients[2]),
		A: 255,
	}
}

func channel(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return uint8(v)
}

// Colorize writes one opaque pixel per cell into dst, growing it as needed,
// and returns the slice. Row-major, same layout as the field.
func (f *RippleField) Colorize(dst []color.RGBA, pal RipplePalette) []color.RGBA {
	n := len(f.current)
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]

	norm := f.Params.Normalization
	if norm <= 0 {
		norm = 1
	}
	for i, v := range f.current {
		dst[i] = pal.Shade(math.Abs(v) / norm)
	}
	return dst
}

// Intensity writes one byte per cell: |v|/Normalization scaled to 0-255.
// Used by the stream encoder, where the client applies its own palette.
func (f *RippleField) Intensity(dst []byte) []byte {
	n := len(f.current)
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	norm := f.Params.Normalization
	if norm <= 0 {
		norm = 1
	}
	for i, v := range f.current {
		dst[i] = channel(math.Abs(v) / norm * 255)
	}
	return dst
}
