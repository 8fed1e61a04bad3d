package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/systems"
	"github.com/ams-law/goldsite/telemetry"
)

// HUDData holds the values shown by the HUD and stats panel.
type HUDData struct {
	Title        string
	Frame        int32
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32

	GridW, GridH  int
	Energy        float64
	Normalization float64
	Steps         uint64

	Device    string
	PointerX  float32
	PointerY  float32
	BeamTilt  float32
	MaxTilt   float32
	Sparks    int
	SparkPool int
	Gold      rl.Color
}

// HUD renders the title line and the stats panel.
type HUD struct {
	renderer *Renderer
	sections []SectionDescriptor
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), sections: statsSections()}
}

func hud(d any) HUDData { return d.(HUDData) }

func statsSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			Title: "Ripple",
			Fields: []FieldDescriptor{
				{Label: "Grid", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d x %d", hud(d).GridW, hud(d).GridH)
				}},
				{Label: "Steps", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", hud(d).Steps)
				}},
				{Label: "Energy", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
					return float32(hud(d).Energy)
				}},
				{Label: "Mean |v|", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
					h := hud(d)
					cells := h.GridW * h.GridH
					if cells == 0 || h.Normalization <= 0 {
						return 0
					}
					return float32(h.Energy / float64(cells) / h.Normalization)
				}},
			},
		},
		{
			Title: "Scene",
			Fields: []FieldDescriptor{
				{Label: "Device", Widget: WidgetText, TextGetter: func(d any) string { return hud(d).Device }},
				{Label: "Pointer X", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 { return hud(d).PointerX }},
				{Label: "Pointer Y", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 { return hud(d).PointerY }},
				{Label: "Beam", Widget: WidgetCenteredBar, Getter: func(d any) float32 { return hud(d).BeamTilt },
					Visible: func(d any) bool { return hud(d).MaxTilt > 0 }},
				{Label: "Sparks", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
					h := hud(d)
					if h.SparkPool == 0 {
						return 0
					}
					return float32(h.Sparks) / float32(h.SparkPool)
				}, Visible: func(d any) bool { return hud(d).SparkPool > 0 }},
				{Label: "Gold", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color { return hud(d).Gold }},
			},
		},
	}
}

// Draw renders the title line.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, h.renderer.Theme.SectionHeader)

	status := fmt.Sprintf("Frame: %d | FPS: %d", data.Frame, data.FPS)
	if data.Paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, 10, 35, 16, h.renderer.Theme.LabelColor)
}

// DrawStats renders the stats panel at (x, y) and returns its bottom Y.
func (h *HUD) DrawStats(x, y, width int32, data HUDData) int32 {
	r := h.renderer
	// Beam bars are scaled to the configured maximum tilt.
	for i := range h.sections[1].Fields {
		if h.sections[1].Fields[i].Label == "Beam" {
			h.sections[1].Fields[i].Range = FieldRange{Min: -data.MaxTilt, Max: data.MaxTilt}
		}
	}

	height := r.Theme.Padding * 2
	for _, sd := range h.sections {
		height += r.SectionHeight(sd, data)
	}
	r.DrawPanel(x, y, width, height)

	cy := y + r.Theme.Padding
	for _, sd := range h.sections {
		cy = r.DrawSection(x+r.Theme.Padding, cy, sd, data, width-r.Theme.Padding*2)
	}
	return y + height
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.renderer.Theme.LabelColor)
}

// PerfPanel renders per-phase frame timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	Registry *systems.SystemRegistry
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32, reg *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, Registry: reg}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	width := int32(260)
	height := r.Theme.Padding*2 + 36 + int32(len(telemetry.Phases))*14
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Frame Timing")

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 12, r.Theme.ValueColor)
	y += 18

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := r.Theme.LabelColor
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		name := phase
		if p.Registry != nil {
			name = p.Registry.GetName(phase)
		}
		rl.DrawText(
			fmt.Sprintf("%-16s %8s %5.1f%%", name, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
