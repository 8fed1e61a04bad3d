package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies a toggleable layer or panel.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayRipple     OverlayID = "ripple"
	OverlayWall       OverlayID = "wall"
	OverlayScales     OverlayID = "scales"
	OverlaySparks     OverlayID = "sparks"
	OverlayReflection OverlayID = "reflection"
	OverlayStats      OverlayID = "stats"
	OverlayPerf       OverlayID = "perf"
	OverlayTuning     OverlayID = "tuning"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // Keyboard key to toggle (0 = no key)
	KeyLabel  string // Key label for display
	Category  string // "layers" or "panels"
	Default   bool   // Enabled at startup
	Exclusive []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default layers and panels.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{ID: OverlayRipple, Name: "Ripple", Key: rl.KeyR, KeyLabel: "R", Category: "layers", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayWall, Name: "Cube Wall", Key: rl.KeyW, KeyLabel: "W", Category: "layers", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayScales, Name: "Scales", Key: rl.KeyS, KeyLabel: "S", Category: "layers", Default: true})
	r.Register(OverlayDescriptor{ID: OverlaySparks, Name: "Sparks", Key: rl.KeyP, KeyLabel: "P", Category: "layers", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayReflection, Name: "Reflection", Key: rl.KeyF, KeyLabel: "F", Category: "layers", Default: true})

	r.Register(OverlayDescriptor{ID: OverlayStats, Name: "Stats", Key: rl.KeyH, KeyLabel: "H", Category: "panels", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Frame Timing", Key: rl.KeyT, KeyLabel: "T", Category: "panels",
		Exclusive: []OverlayID{OverlayTuning}})
	r.Register(OverlayDescriptor{ID: OverlayTuning, Name: "Tuning", Key: rl.KeyG, KeyLabel: "G", Category: "panels",
		Exclusive: []OverlayID{OverlayPerf}})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on or off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled sets an overlay's state. Enabling turns off its exclusives.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays in a category, in registration order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
