package grid

import "math"

// Kind classifies what occupies a cell.
type Kind uint8

const (
	Empty Kind = iota
	Wall
	Start
	Goal
)

// String returns the display name for a cell kind.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Start:
		return "start"
	case Goal:
		return "goal"
	}
	return "unknown"
}

// NoParent marks a cell with no search predecessor.
const NoParent = -1

// Cell is one grid square plus its per-search scratch state.
// Scratch fields are only meaningful between a search and the next
// topology change; ResetSearch restores them.
type Cell struct {
	Row, Col int
	Kind     Kind

	// Search scratch
	G      float64 // cost from the search origin
	H      float64 // heuristic estimate to the goal
	F      float64 // priority (g+h for A*, h for greedy)
	Parent int     // flat index of the predecessor, NoParent if none

	// Derived flags for presentation layers. Traversal logic never
	// branches on these.
	InOpen   bool
	InClosed bool
	OnPath   bool
}

// Walkable reports whether a search may enter this cell.
func (c *Cell) Walkable() bool {
	return c.Kind != Wall
}

// ResetSearch clears the scratch fields without touching Kind.
func (c *Cell) ResetSearch() {
	c.G = math.Inf(1)
	c.H = 0
	c.F = math.Inf(1)
	c.Parent = NoParent
	c.InOpen = false
	c.InClosed = false
	c.OnPath = false
}
