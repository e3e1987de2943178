// Package game provides the main game loop and state management.
package game

// State represents the current game state.
type State int

const (
	// StateGenerating shows the wave collapsing step by step.
	StateGenerating State = iota
	// StateExplore is the default mode where the explorer walks the map.
	StateExplore
	// StateFinished is a halted preview waiting for a key before exiting.
	StateFinished
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StateExplore:
		return "explore"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}
