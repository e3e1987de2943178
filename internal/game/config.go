package game

import (
	"time"

	"github.com/samdwyer/shoreline/internal/world"
)

// Config holds game configuration options.
type Config struct {
	// Map is passed to world.Generate. Its seed must already be resolved;
	// the game never picks one itself.
	Map world.Options

	// Frame is the delay between preview steps.
	Frame time.Duration

	// LogLines bounds the on-screen message log.
	LogLines int
}
