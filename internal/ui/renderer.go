package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shoreline/internal/entity"
	"github.com/samdwyer/shoreline/internal/wfc"
	"github.com/samdwyer/shoreline/internal/world"
)

const (
	logPanelWidth    = 28
	minWidthForPanel = 60
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
	camera Camera
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Camera returns the viewport used by the last RenderMap.
func (r *Renderer) Camera() Camera {
	return r.camera
}

// layout splits the screen into the map viewport and the message panel.
// The panel is dropped on narrow terminals.
func (r *Renderer) layout() (viewWidth, viewHeight, panelX int) {
	width, height := r.screen.Size()
	viewHeight = max(0, height-1)
	if width < minWidthForPanel {
		return width, viewHeight, -1
	}
	return width - logPanelWidth - 1, viewHeight, width - logPanelWidth
}

// RenderMap draws the part of the map around the explorer, the message log
// and a status line.
func (r *Renderer) RenderMap(m *world.Map, explorer *entity.Explorer, log *MessageLog, status string) {
	r.screen.Clear()

	viewWidth, viewHeight, panelX := r.layout()
	r.camera.Width, r.camera.Height = viewWidth, viewHeight
	px, py := explorer.Position()
	r.camera.Follow(px, py, m.Width, m.Height, m.Wrap)

	for sy := 0; sy < viewHeight; sy++ {
		for sx := 0; sx < viewWidth; sx++ {
			tile := m.GetTile(r.camera.ToMap(sx, sy))
			r.screen.SetContent(sx, sy, tile.Rune(), tcell.StyleDefault.Foreground(tile.Color()))
		}
	}

	if sx, sy, ok := r.camera.ToScreen(px, py, m.Width, m.Height, m.Wrap); ok {
		playerStyle := tcell.StyleDefault.
			Foreground(tcell.ColorYellow).
			Bold(true)
		r.screen.SetContent(sx, sy, explorer.Symbol, playerStyle)
	}

	r.drawLog(log, panelX, viewHeight)
	r.drawStatus(status, viewHeight)
	r.screen.Show()
}

// RenderWave draws a wave mid-generation: collapsed cells as the terrain
// they mostly expand to, open cells as their entropy.
func (r *Renderer) RenderWave(wave *wfc.Wave[int], glyphs map[int]world.Terrain, status string) {
	r.screen.Clear()

	viewWidth, viewHeight, _ := r.layout()
	maxEntropy := len(glyphs)

	for y := 0; y < min(wave.Height(), viewHeight); y++ {
		for x := 0; x < min(wave.Width(), viewWidth); x++ {
			cell := wave.At(x, y)
			switch {
			case cell.IsCollapsed():
				tile := glyphs[cell.State()]
				r.screen.SetContent(x, y, tile.Rune(), tcell.StyleDefault.Foreground(tile.Color()))
			case cell.IsInvalid():
				r.screen.SetContent(x, y, 'X', tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed))
			default:
				entropy := cell.Entropy()
				style := tcell.StyleDefault.Foreground(EntropyColor(entropy, maxEntropy))
				r.screen.SetContent(x, y, EntropyRune(entropy), style)
			}
		}
	}

	r.drawStatus(status, viewHeight)
	r.screen.Show()
}

func (r *Renderer) drawLog(log *MessageLog, panelX, height int) {
	if log == nil || panelX < 0 {
		return
	}

	border := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	for y := 0; y < height; y++ {
		r.screen.SetContent(panelX-1, y, '│', border)
	}

	// Newest messages at the bottom of the panel.
	lines := log.Lines()
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	top := height - len(lines)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, line := range lines {
		r.screen.DrawText(panelX, top+i, logPanelWidth, line, style)
	}
}

func (r *Renderer) drawStatus(status string, y int) {
	width, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, ' ', style)
	}
	r.screen.DrawText(0, y, width, status, style)
}
