// Package search implements informed search over an obstacle grid: A* and
// Greedy Best-First with pluggable heuristics, a deterministic tie-breaking
// frontier, and replanning from an arbitrary origin cell.
package search

import (
	"container/heap"
	"errors"
	"fmt"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/pthm-cable/gridnav/grid"
)

var (
	// ErrUnknownAlgorithm is returned for algorithm names outside the
	// closed enumeration.
	ErrUnknownAlgorithm = errors.New("search: unknown algorithm")

	// ErrUnknownHeuristic is returned for heuristic names outside the
	// closed enumeration.
	ErrUnknownHeuristic = errors.New("search: unknown heuristic")

	// ErrNoOrigin is returned when a replan is requested without a cell to
	// plan from.
	ErrNoOrigin = errors.New("search: replan origin is nil")
)

// Algorithm selects the search strategy.
type Algorithm uint8

const (
	AStar Algorithm = iota
	GreedyBFS
)

// Display names form a closed enumeration; selection layers pass them to
// AlgorithmByName.
const (
	AStarName     = "A* Search"
	GreedyBFSName = "Greedy BFS"
)

// String returns the display name for an algorithm.
func (a Algorithm) String() string {
	switch a {
	case AStar:
		return AStarName
	case GreedyBFS:
		return GreedyBFSName
	}
	return "unknown"
}

// AlgorithmByName resolves an algorithm display name.
func AlgorithmByName(name string) (Algorithm, error) {
	switch name {
	case AStarName:
		return AStar, nil
	case GreedyBFSName:
		return GreedyBFS, nil
	}
	return AStar, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// AlgorithmNames returns the selectable algorithm names in display order.
func AlgorithmNames() []string {
	return []string{AStarName, GreedyBFSName}
}

// Result is the outcome of one search. An unreachable goal is a normal
// result with Found=false, not an error.
type Result struct {
	Path         []*grid.Cell // origin to goal inclusive; nil when not found
	NodesVisited int          // cells finalized (popped and expanded)
	PathCost     float64      // the goal cell's final g; 0 when not found
	Found        bool
	Elapsed      time.Duration
}

// Planner runs searches over a grid. The frontier and the greedy visited
// set are reused between searches. Not safe for concurrent use.
type Planner struct {
	open    *frontierHeap
	visited mapset.Set[int] // greedy: finalized cells, never revisited
	seq     uint64
	nbuf    []*grid.Cell
}

// NewPlanner creates a planner with empty reusable state.
func NewPlanner() *Planner {
	return &Planner{
		open:    &frontierHeap{},
		visited: mapset.New[int](),
	}
}

// Run searches from the grid's start to its goal. The grid's search
// scratch is reset first.
func (p *Planner) Run(g *grid.Grid, alg Algorithm, h Heuristic) Result {
	return p.search(g, g.Start(), alg, h)
}

// Replan searches from an arbitrary origin (typically an agent's current
// cell) to the grid's goal. The grid's search scratch is reset first, so
// the previous path's markings do not survive.
func (p *Planner) Replan(g *grid.Grid, origin *grid.Cell, alg Algorithm, h Heuristic) (Result, error) {
	if origin == nil {
		return Result{}, ErrNoOrigin
	}
	return p.search(g, origin, alg, h), nil
}

func (p *Planner) search(g *grid.Grid, origin *grid.Cell, alg Algorithm, h Heuristic) Result {
	started := time.Now()

	g.ResetSearchState()
	*p.open = (*p.open)[:0]
	p.visited = mapset.New[int]()
	p.seq = 0

	var res Result
	switch alg {
	case GreedyBFS:
		res = p.greedy(g, origin, h)
	default:
		res = p.astar(g, origin, h)
	}
	res.Elapsed = time.Since(started)
	return res
}

// push adds a frontier entry for c with the given priority key.
func (p *Planner) push(c *grid.Cell, g *grid.Grid, key float64) {
	heap.Push(p.open, &frontierNode{key: key, seq: p.seq, cell: g.Index(c.Row, c.Col)})
	p.seq++
}

// astar runs A* with key f = g+h. Relaxation is strict (newG < g), and a
// relaxed cell is re-opened even if it was already closed; stale frontier
// entries are discarded at pop by the closed flag.
func (p *Planner) astar(g *grid.Grid, origin *grid.Cell, h Heuristic) Result {
	goal := g.Goal()

	origin.G = 0
	origin.H = h(origin, goal)
	origin.F = origin.H
	origin.InOpen = true
	p.push(origin, g, origin.F)

	nodesVisited := 0
	for p.open.Len() > 0 {
		cur := g.At(heap.Pop(p.open).(*frontierNode).cell)
		if cur.InClosed {
			continue
		}
		cur.InClosed = true
		cur.InOpen = false
		nodesVisited++

		if cur == goal {
			return Result{
				Path:         reconstructPath(g, goal),
				NodesVisited: nodesVisited,
				PathCost:     goal.G,
				Found:        true,
			}
		}

		p.nbuf = g.Neighbors(cur, p.nbuf)
		for _, nb := range p.nbuf {
			newG := cur.G + 1
			if newG < nb.G {
				nb.G = newG
				nb.H = h(nb, goal)
				nb.F = newG + nb.H
				nb.Parent = g.Index(cur.Row, cur.Col)
				nb.InOpen = true
				nb.InClosed = false
				p.push(nb, g, nb.F)
			}
		}
	}

	return Result{NodesVisited: nodesVisited}
}

// greedy runs Greedy Best-First with key h only. Finalized cells go into
// the visited set and are never touched again, even when a later route
// would improve their g; do not borrow A*'s re-opening here.
func (p *Planner) greedy(g *grid.Grid, origin *grid.Cell, h Heuristic) Result {
	goal := g.Goal()

	origin.G = 0
	origin.H = h(origin, goal)
	origin.F = origin.H
	origin.InOpen = true
	p.push(origin, g, origin.H)

	nodesVisited := 0
	for p.open.Len() > 0 {
		idx := heap.Pop(p.open).(*frontierNode).cell
		if p.visited.Has(idx) {
			continue
		}
		p.visited.Put(idx)

		cur := g.At(idx)
		cur.InClosed = true
		cur.InOpen = false
		nodesVisited++

		if cur == goal {
			return Result{
				Path:         reconstructPath(g, goal),
				NodesVisited: nodesVisited,
				PathCost:     goal.G,
				Found:        true,
			}
		}

		p.nbuf = g.Neighbors(cur, p.nbuf)
		for _, nb := range p.nbuf {
			if p.visited.Has(g.Index(nb.Row, nb.Col)) {
				continue
			}
			newG := cur.G + 1
			nb.H = h(nb, goal)
			nb.F = nb.H
			if !nb.InOpen || newG < nb.G {
				nb.G = newG
				nb.Parent = g.Index(cur.Row, cur.Col)
				nb.InOpen = true
				p.push(nb, g, nb.H)
			}
		}
	}

	return Result{NodesVisited: nodesVisited}
}

// reconstructPath walks parent links from the goal back to the origin,
// reverses the chain, and marks it for presentation.
func reconstructPath(g *grid.Grid, goal *grid.Cell) []*grid.Cell {
	var path []*grid.Cell
	for c := goal; c != nil; c = g.At(c.Parent) {
		path = append(path, c)
		c.OnPath = true
		if c.Parent == grid.NoParent {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
