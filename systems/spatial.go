// Package systems provides the spatial simulation substrate: toroidal
// coordinate arithmetic, the occupancy grid with its agent registry, and the
// per-species behavior state machines.
package systems

import (
	"github.com/FarshadAmiri/complex-systems-simulations/components"
)

// CellFilter restricts spatial query results to matching cells.
// The Grid's IsTag method builds filters over the current occupancy state.
type CellFilter func(components.Position) bool

// Wrap normalizes v to the [0, n) range of a toroidal axis.
func Wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// vonNeumann is the fixed neighbor enumeration order: up, down, left, right.
var vonNeumann = [4]components.Position{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}}

// Adjacent returns the four orthogonal neighbors of pos on an n-sized
// toroidal grid, wrapped modulo n, optionally filtered. The enumeration
// order is fixed; callers wanting an unbiased pick must choose randomly
// from the result.
func Adjacent(pos components.Position, n int, filter CellFilter) []components.Position {
	out := make([]components.Position, 0, 4)
	for _, d := range vonNeumann {
		c := components.Position{X: Wrap(pos.X+d.X, n), Y: Wrap(pos.Y+d.Y, n)}
		if filter == nil || filter(c) {
			out = append(out, c)
		}
	}
	return out
}

// InRadius returns all cells within Manhattan distance radius of pos,
// wrapped modulo n and excluding pos itself. The scan order is a fixed
// nested offset sweep. Wrapping can alias offsets once radius reaches n/2,
// so results are de-duplicated; radius values up to and beyond n are safe.
func InRadius(pos components.Position, radius, n int, filter CellFilter) []components.Position {
	if radius < 1 {
		return nil
	}
	size := 2 * radius * (radius + 1) // cells in an unwrapped Manhattan ball, sans origin
	out := make([]components.Position, 0, size)
	seen := make(map[components.Position]struct{}, size)
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if abs(dx)+abs(dy) > radius {
				continue
			}
			c := components.Position{X: Wrap(pos.X+dx, n), Y: Wrap(pos.Y+dy, n)}
			if c == pos {
				continue // wrapped alias of the origin
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			if filter == nil || filter(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
