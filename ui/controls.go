package ui

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists the overlay toggles and their keys.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// Draw renders one line per overlay and returns the bottom Y.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := 0
	for _, cat := range categories {
		rows += len(overlays.ByCategory(cat)) + 1
	}
	r.DrawPanel(c.x, c.y, c.width, int32(rows)*lineHeight+padding*2+int32(len(categories))*4)

	y := c.y + padding
	for _, cat := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, strings.ToUpper(cat[:1])+cat[1:])
		for _, desc := range overlays.ByCategory(cat) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}
	return y
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer
	statusColor, nameColor := r.Theme.ToggleOff, r.Theme.LabelColor
	if enabled {
		statusColor, nameColor = r.Theme.ToggleOn, rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, r.Theme.LabelColor)
	}
}

// Slider binds one tunable value to a raygui slider bar.
type Slider struct {
	Label  string
	Format string
	Min    float32
	Max    float32
	Get    func() float64
	Set    func(float64)
}

// TuningPanel edits live parameters with sliders.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	Sliders  []Slider
}

// NewTuningPanel creates a panel for the given sliders.
func NewTuningPanel(x, y, width int32, sliders []Slider) *TuningPanel {
	return &TuningPanel{renderer: NewRenderer(), x: x, y: y, width: width, Sliders: sliders}
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the sliders, applies changes, and reports whether any value
// moved this frame.
func (p *TuningPanel) Draw() bool {
	r := p.renderer
	padding := r.Theme.Padding
	rowHeight := int32(38)
	height := padding*2 + r.Theme.LineHeight + int32(len(p.Sliders))*rowHeight

	r.DrawPanel(p.x, p.y, p.width, height)
	y := r.DrawSectionHeader(p.x+padding, p.y+padding, "Tuning")

	changed := false
	for _, s := range p.Sliders {
		cur := float32(s.Get())
		format := s.Format
		if format == "" {
			format = "%.3f"
		}
		rl.DrawText(s.Label, p.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		rl.DrawText(fmt.Sprintf(format, cur), p.x+p.width-padding-60, y, r.Theme.FontSize, r.Theme.ValueColor)

		bounds := rl.Rectangle{
			X:      float32(p.x + padding),
			Y:      float32(y + 16),
			Width:  float32(p.width - padding*2),
			Height: 14,
		}
		next := gui.SliderBar(bounds, "", "", cur, s.Min, s.Max)
		if next != cur {
			s.Set(float64(next))
			changed = true
		}
		y += rowHeight
	}
	return changed
}
