package ui

// Camera is the viewport onto a map, in map coordinates.
type Camera struct {
	X, Y          int // top-left map position shown at screen (0, 0)
	Width, Height int // viewport size in cells
}

// Follow centers the camera on (px, py). Wrapping maps scroll freely since
// every offset is a valid position. Bounded maps clamp at their edges, and a
// map smaller than the viewport is centered in it.
func (c *Camera) Follow(px, py, mapWidth, mapHeight int, wrap bool) {
	c.X = px - c.Width/2
	c.Y = py - c.Height/2
	if wrap {
		return
	}
	c.X = clampAxis(c.X, c.Width, mapWidth)
	c.Y = clampAxis(c.Y, c.Height, mapHeight)
}

// ToMap converts a screen cell to the map position it shows. Callers on
// wrapping maps normalize the result.
func (c *Camera) ToMap(sx, sy int) (int, int) {
	return c.X + sx, c.Y + sy
}

// ToScreen converts a map position to a screen cell. On wrapping maps the
// position is matched against the viewport modulo the map size.
func (c *Camera) ToScreen(mx, my, mapWidth, mapHeight int, wrap bool) (int, int, bool) {
	sx, sy := mx-c.X, my-c.Y
	if wrap {
		sx = ((sx % mapWidth) + mapWidth) % mapWidth
		sy = ((sy % mapHeight) + mapHeight) % mapHeight
	}
	visible := sx >= 0 && sx < c.Width && sy >= 0 && sy < c.Height
	return sx, sy, visible
}

func clampAxis(pos, view, size int) int {
	if size <= view {
		return -(view - size) / 2
	}
	if pos < 0 {
		return 0
	}
	if pos > size-view {
		return size - view
	}
	return pos
}
