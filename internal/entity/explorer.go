// Package entity provides the things that move around a map.
package entity

// Explorer is the player's character.
type Explorer struct {
	X, Y   int  // Current position on the map
	Symbol rune // Display symbol
	Steps  int  // Successful moves so far
}

// NewExplorer creates an explorer at the given position.
func NewExplorer(x, y int) *Explorer {
	return &Explorer{
		X:      x,
		Y:      y,
		Symbol: '@',
	}
}

// MoveTo places the explorer at a new position and counts the step.
func (e *Explorer) MoveTo(x, y int) {
	e.X, e.Y = x, y
	e.Steps++
}

// Position returns the current x, y coordinates.
func (e *Explorer) Position() (int, int) {
	return e.X, e.Y
}
