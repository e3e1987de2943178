package ui

import (
	"context"
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/shoreline/internal/entity"
	"github.com/samdwyer/shoreline/internal/gamedata"
	"github.com/samdwyer/shoreline/internal/wfc"
	"github.com/samdwyer/shoreline/internal/world"
)

func simScreen(t *testing.T, width, height int) *Screen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim)
	require.NoError(t, err)
	sim.SetSize(width, height)
	t.Cleanup(screen.Close)
	return screen
}

func runeAt(s *Screen, x, y int) rune {
	r, _, _, _ := s.screen.GetContent(x, y)
	return r
}

func TestCameraFollowBounded(t *testing.T) {
	tests := []struct {
		name       string
		px, py     int
		wantX      int
		wantY      int
		mapW, mapH int
	}{
		{"centered", 50, 30, 40, 25, 100, 60},
		{"clamped top-left", 2, 1, 0, 0, 100, 60},
		{"clamped bottom-right", 99, 59, 80, 50, 100, 60},
		{"small map centered", 3, 3, -5, -2, 10, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Camera{Width: 20, Height: 10}
			c.Follow(tt.px, tt.py, tt.mapW, tt.mapH, false)
			assert.Equal(t, tt.wantX, c.X)
			assert.Equal(t, tt.wantY, c.Y)
		})
	}
}

func TestCameraFollowWrapped(t *testing.T) {
	c := Camera{Width: 20, Height: 10}
	c.Follow(2, 1, 100, 60, true)
	assert.Equal(t, -8, c.X)
	assert.Equal(t, -4, c.Y)

	sx, sy, ok := c.ToScreen(2, 1, 100, 60, true)
	assert.True(t, ok)
	assert.Equal(t, 10, sx)
	assert.Equal(t, 5, sy)

	// A position across the seam still lands on screen.
	sx, _, ok = c.ToScreen(95, 1, 100, 60, true)
	assert.True(t, ok)
	assert.Equal(t, 3, sx)

	_, _, ok = c.ToScreen(50, 30, 100, 60, true)
	assert.False(t, ok)
}

func TestMessageLogBounded(t *testing.T) {
	log := NewMessageLog(3)
	assert.Equal(t, "", log.Last())

	for _, msg := range []string{"moved east", "moved east", "location blocked", "moved north"} {
		log.Add(msg)
	}

	assert.Equal(t, 3, log.Len())
	assert.Equal(t, []string{"moved east", "location blocked", "moved north"}, log.Lines())
	assert.Equal(t, "moved north", log.Last())

	assert.Equal(t, 1, NewMessageLog(0).limit)
}

func TestEntropyColor(t *testing.T) {
	green := EntropyColor(2, 15)
	magenta := EntropyColor(15, 15)

	assert.NotEqual(t, green, magenta)
	assert.Equal(t, magenta, EntropyColor(40, 15), "entropy above the maximum clamps")
	assert.Equal(t, green, EntropyColor(1, 15), "entropy below two clamps")

	r, g, b := green.RGB()
	assert.Greater(t, g, r)
	assert.Greater(t, g, b)
}

func TestEntropyRune(t *testing.T) {
	assert.Equal(t, '2', EntropyRune(2))
	assert.Equal(t, '9', EntropyRune(9))
	assert.Equal(t, '+', EntropyRune(15))
	assert.Equal(t, '?', EntropyRune(-1))
}

func TestRenderMap(t *testing.T) {
	m, err := world.Generate(context.Background(),
		world.Options{Height: 6, Width: 8, Seed: 11, MaxAttempts: 20},
		gamedata.MustLoadTerrain())
	require.NoError(t, err)

	px, py, ok := m.RandomSpawn(rand.New(rand.NewSource(1)))
	require.True(t, ok)

	screen := simScreen(t, 80, 24)
	r := NewRenderer(screen)
	log := NewMessageLog(10)
	log.Add("moved east")
	r.RenderMap(m, entity.NewExplorer(px, py), log, "seed 11")

	cam := r.Camera()
	sx, sy, visible := cam.ToScreen(px, py, m.Width, m.Height, m.Wrap)
	require.True(t, visible)
	assert.Equal(t, '@', runeAt(screen, sx, sy))
	assert.Equal(t, 's', runeAt(screen, 0, 23))
	assert.Equal(t, '│', runeAt(screen, 80-logPanelWidth-1, 0))
	assert.Equal(t, 'm', runeAt(screen, 80-logPanelWidth, 22))
}

func TestRenderWave(t *testing.T) {
	terrain := gamedata.MustLoadTerrain()
	e, err := wfc.NewEngine(rand.New(rand.NewSource(2)), 4, 5, terrain.Rules, false)
	require.NoError(t, err)

	screen := simScreen(t, 40, 10)
	r := NewRenderer(screen)

	r.RenderWave(e.Wave(), nil, "step 0")
	assert.Equal(t, '+', runeAt(screen, 0, 0), "fifteen open states")

	_, err = e.Next()
	require.NoError(t, err)
	r.RenderWave(e.Wave(), map[int]world.Terrain{}, "step 1")

	wave := e.Wave()
	for y := 0; y < wave.Height(); y++ {
		for x := 0; x < wave.Width(); x++ {
			if c := wave.At(x, y); !c.IsCollapsed() {
				assert.Equal(t, EntropyRune(c.Entropy()), runeAt(screen, x, y))
			}
		}
	}
}
