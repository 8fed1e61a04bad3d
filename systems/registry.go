package systems

// SystemInfo describes a simulation system for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "visual", "ai")
}

// SystemRegistry holds metadata about every per-frame phase.
// IDs match the telemetry phase names so the perf panel can label them.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems to the registry.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "input", Name: "Input", Description: "Polls the host and dispatches pointer events", Category: "core"})

	r.Register(SystemInfo{ID: "ripple_step", Name: "Ripple Step", Description: "Propagates the damped wave field", Category: "ripple"})
	r.Register(SystemInfo{ID: "ripple_colorize", Name: "Colorize", Description: "Maps displacement to gold pixels", Category: "ripple"})

	r.Register(SystemInfo{ID: "scene_update", Name: "Scene Update", Description: "Eases wall, scales and sparks toward their goals", Category: "scene"})
	r.Register(SystemInfo{ID: "scene_draw", Name: "Scene Draw", Description: "Draws wall, floor reflection, scales and sparks", Category: "scene"})

	r.Register(SystemInfo{ID: "hud", Name: "HUD", Description: "Draws stats, tuning and perf panels", Category: "ui"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// Categories returns all unique categories.
func (r *SystemRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, info := range r.systems {
		if !seen[info.Category] {
			seen[info.Category] = true
			cats = append(cats, info.Category)
		}
	}
	return cats
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
