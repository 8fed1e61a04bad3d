// Package ui draws the viewer's debug overlay: stats, layer toggles,
// parameter sliders and frame timing. Panels are described by data so the
// layout follows the values they show.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetCenteredBar                   // Bar growing from zero, for signed values
	WidgetColorSwatch                   // Color preview square
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// CenteredRange returns a [-1, +1] range.
func CenteredRange() FieldRange {
	return FieldRange{Min: -1, Max: 1}
}

// FieldDescriptor defines how to display a single value.
type FieldDescriptor struct {
	Label       string
	Widget      WidgetType
	Format      string // Printf format for numeric text
	Range       FieldRange
	Visible     func(any) bool     // nil = always visible
	Getter      func(any) float32  // Numeric fields
	TextGetter  func(any) string   // Text fields
	ColorGetter func(any) rl.Color // Color swatches
}

// SectionDescriptor groups fields under a header.
type SectionDescriptor struct {
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	ToggleOn        rl.Color
	ToggleOff       rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the black-and-gold theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 10, G: 10, B: 10, A: 225},
		PanelBorder:     rl.Color{R: 120, G: 100, B: 50, A: 255},
		SectionHeader:   rl.Color{R: 201, G: 169, B: 98, A: 255},
		LabelColor:      rl.Color{R: 170, G: 170, B: 170, A: 255},
		ValueColor:      rl.Color{R: 230, G: 230, B: 230, A: 255},
		BarBg:           rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:         rl.Color{R: 201, G: 169, B: 98, A: 255},
		BarFillNegative: rl.Color{R: 150, G: 110, B: 60, A: 255},
		BarFillPositive: rl.Color{R: 230, G: 200, B: 120, A: 255},
		ToggleOn:        rl.Color{R: 201, G: 169, B: 98, A: 255},
		ToggleOff:       rl.Color{R: 70, G: 70, B: 70, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      90,
		BarHeight:       10,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}
