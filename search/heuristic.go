package search

import (
	"fmt"
	"math"

	"github.com/pthm-cable/gridnav/grid"
)

// Heuristic estimates the remaining cost from a to b. Implementations must
// be pure and admissible for A* to stay optimal.
type Heuristic func(a, b *grid.Cell) float64

// Manhattan returns |dRow| + |dCol|. Admissible and consistent on a
// 4-connected unit grid; the default.
func Manhattan(a, b *grid.Cell) float64 {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return float64(dr + dc)
}

// Euclidean returns sqrt(dRow^2 + dCol^2). Admissible but weaker than
// Manhattan on orthogonal moves.
func Euclidean(a, b *grid.Cell) float64 {
	dr := float64(a.Row - b.Row)
	dc := float64(a.Col - b.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// Display names form a closed enumeration; selection layers pass them to
// HeuristicByName.
const (
	ManhattanName = "Manhattan"
	EuclideanName = "Euclidean"
)

var heuristics = map[string]Heuristic{
	ManhattanName: Manhattan,
	EuclideanName: Euclidean,
}

// HeuristicByName resolves a heuristic display name.
func HeuristicByName(name string) (Heuristic, error) {
	h, ok := heuristics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
	}
	return h, nil
}

// HeuristicNames returns the selectable heuristic names in display order.
func HeuristicNames() []string {
	return []string{ManhattanName, EuclideanName}
}
