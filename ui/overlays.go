package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies a view toggle.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayTree      OverlayID = "tree"
	OverlayLeaves    OverlayID = "leaves"
	OverlayWire      OverlayID = "wire"
	OverlayGrid      OverlayID = "grid"
	OverlayBillboard OverlayID = "billboard"
	OverlayHUD       OverlayID = "hud"
	OverlayPerf      OverlayID = "perf"
	OverlayControls  OverlayID = "controls"
)

// OverlayDescriptor defines a view element that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "T", "L")
	Category    string      // Grouping (e.g., "scene", "panels")
	Default     bool        // Enabled on registration
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	// Scene
	r.Register(OverlayDescriptor{
		ID:          OverlayTree,
		Name:        "Tree",
		Description: "Draw the filled branch mesh",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "scene",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayLeaves,
		Name:        "Leaves",
		Description: "Draw leaf quads on deep branches",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "scene",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayWire,
		Name:        "Wireframe",
		Description: "Draw mesh edges",
		Key:         rl.KeyW,
		KeyLabel:    "W",
		Category:    "scene",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayGrid,
		Name:        "Ground Grid",
		Description: "Draw a grid on the ground plane",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "scene",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayBillboard,
		Name:        "Billboard Leaves",
		Description: "Turn leaves to face the camera",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "scene",
		Default:     true,
	})

	// Panels
	r.Register(OverlayDescriptor{
		ID:          OverlayControls,
		Name:        "Tree Controller",
		Description: "Show the parameter panel",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "panels",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayHUD,
		Name:        "HUD",
		Description: "Show tick, branch and leaf counts",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "panels",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Performance",
		Description: "Show per-phase frame timing",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "panels",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	if _, dup := r.byID[desc.ID]; !dup {
		r.descriptors = append(r.descriptors, desc)
		r.order = append(r.order, desc.ID)
	}
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
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

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
