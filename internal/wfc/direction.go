package wfc

// Direction indexes the four adjacency lists of a Rule. The engine's neighbor
// enumeration uses the same indices, so the order here is load-bearing.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in rule storage order.
var Directions = [4]Direction{North, East, South, West}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the direction facing back, (d+2) mod 4.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Offset returns the grid delta of one step in the direction. Rows grow
// downwards, so North is y-1.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// DirectionBetween classifies the position of (toX, toY) relative to
// (fromX, fromY). With wrap enabled the nearest wrap distance wins: an offset
// of more than half a dimension is read as wrapping the other way. The second
// result is false when the two cells are not orthogonally adjacent.
func DirectionBetween(fromX, fromY, toX, toY, height, width int, wrap bool) (Direction, bool) {
	dx := toX - fromX
	dy := toY - fromY
	if wrap {
		dx = nearestOffset(dx, width)
		dy = nearestOffset(dy, height)
	}

	for _, dir := range Directions {
		ox, oy := dir.Offset()
		if dx == ox && dy == oy {
			return dir, true
		}
	}
	return North, false
}

// nearestOffset reduces d modulo n into the range (-n/2, n/2].
func nearestOffset(d, n int) int {
	if n <= 0 {
		return d
	}
	d = ((d % n) + n) % n
	if d > n/2 {
		d -= n
	}
	return d
}
