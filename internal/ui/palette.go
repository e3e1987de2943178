package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Entropy gradient stops, from nearly decided to wide open.
var entropyStops = []colorful.Color{
	{R: 0.20, G: 0.80, B: 0.20}, // green
	{R: 0.90, G: 0.85, B: 0.15}, // yellow
	{R: 0.85, G: 0.15, B: 0.15}, // red
	{R: 0.80, G: 0.20, B: 0.80}, // magenta
}

// EntropyColor shades an uncollapsed cell by how many states it has left.
// Two states maps to the first stop and maxEntropy or more to the last.
func EntropyColor(entropy, maxEntropy int) tcell.Color {
	t := 1.0
	if maxEntropy > 2 {
		t = float64(entropy-2) / float64(maxEntropy-2)
	}
	t = max(0, min(1, t))

	segments := len(entropyStops) - 1
	pos := t * float64(segments)
	i := min(int(pos), segments-1)
	c := entropyStops[i].BlendLab(entropyStops[i+1], pos-float64(i)).Clamped()

	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// EntropyRune is the digit shown for an uncollapsed cell; counts of ten or
// more show as '+'.
func EntropyRune(entropy int) rune {
	if entropy < 0 {
		return '?'
	}
	if entropy > 9 {
		return '+'
	}
	return rune('0' + entropy)
}
