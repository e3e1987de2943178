package wfc

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("wfc: invalid configuration")
	ErrUnknownTile   = errors.New("wfc: unknown tile id")
	ErrNoCandidates  = errors.New("wfc: no candidate tiles to pick from")
	ErrContradiction = errors.New("wfc: contradiction - no valid tiles for cell")
	ErrIncomplete    = errors.New("wfc: wave is not fully collapsed")
)

// ConfigurationError reports a malformed ruleset or engine setup. For
// reciprocity failures ID allows Neighbor in Direction, but Neighbor does not
// allow ID in the opposite direction.
type ConfigurationError struct {
	ID        any
	Neighbor  any
	Direction Direction
	Reason    string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Reason != "" && e.ID != nil:
		return fmt.Sprintf("wfc: invalid rule %v: %s", e.ID, e.Reason)
	case e.Reason != "":
		return "wfc: invalid configuration: " + e.Reason
	default:
		return fmt.Sprintf("wfc: missing reverse rule: %v allows %v to the %s but %v does not allow %v to the %s",
			e.ID, e.Neighbor, e.Direction, e.Neighbor, e.ID, e.Direction.Opposite())
	}
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// LookupError reports a tile id that was never registered.
type LookupError struct {
	ID any
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("wfc: unknown tile id %v", e.ID)
}

func (e *LookupError) Unwrap() error { return ErrUnknownTile }

// ContradictionError reports the cell whose possible states ran out while
// propagating the collapse made in Step.
type ContradictionError struct {
	X, Y int
	Step int
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("wfc: contradiction at (%d,%d) during step %d", e.X, e.Y, e.Step)
}

func (e *ContradictionError) Unwrap() error { return ErrContradiction }

func formatID(id any) string {
	return fmt.Sprint(id)
}
