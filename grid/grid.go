// Package grid provides the obstacle grid that searches and agents operate
// on: cell classification, neighbor topology, maze generation, and the
// per-search scratch state lifecycle.
package grid

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrBadDimensions is returned for grids too small to hold distinct
	// start and goal cells.
	ErrBadDimensions = errors.New("grid: need at least two cells")

	// ErrOutOfBounds is returned when a coordinate lies outside the grid.
	ErrOutOfBounds = errors.New("grid: coordinate out of bounds")

	// ErrProtectedCell is returned when a mutation targets the start or
	// goal cell.
	ErrProtectedCell = errors.New("grid: cell is protected")
)

// Grid is a fixed-size rectangular obstacle grid. Cells live in a single
// flat row-major slice; parent links and the start/goal markers are flat
// indices into it. The grid is the sole owner of its cells: searches and
// agents hold pointers into the slice, never copies.
type Grid struct {
	rows, cols int
	cells      []Cell
	start      int // flat index
	goal       int // flat index
}

// New creates a rows x cols grid of empty cells with the start at (0,0)
// and the goal at (rows-1, cols-1).
func New(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 || rows*cols < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, rows, cols)
	}

	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := &g.cells[r*cols+c]
			cell.Row = r
			cell.Col = c
			cell.ResetSearch()
		}
	}

	g.start = 0
	g.goal = rows*cols - 1
	g.cells[g.start].Kind = Start
	g.cells[g.goal].Kind = Goal

	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Index returns the flat index for (row, col). The coordinate must be in
// bounds.
func (g *Grid) Index(row, col int) int {
	return row*g.cols + col
}

// Cell returns the cell at (row, col), or nil if the coordinate is out of
// bounds. Out of range is an absent value, never clamped.
func (g *Grid) Cell(row, col int) *Cell {
	if !g.InBounds(row, col) {
		return nil
	}
	return &g.cells[g.Index(row, col)]
}

// At returns the cell at a flat index, or nil if the index is out of range.
func (g *Grid) At(i int) *Cell {
	if i < 0 || i >= len(g.cells) {
		return nil
	}
	return &g.cells[i]
}

// Start returns the start cell.
func (g *Grid) Start() *Cell { return &g.cells[g.start] }

// Goal returns the goal cell.
func (g *Grid) Goal() *Cell { return &g.cells[g.goal] }

// Neighbors appends the walkable orthogonal neighbors of c to buf and
// returns it. Order is fixed (up, down, left, right) because frontier
// tie-breaking depends on insertion order.
func (g *Grid) Neighbors(c *Cell, buf []*Cell) []*Cell {
	buf = buf[:0]
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nb := g.Cell(c.Row+d[0], c.Col+d[1])
		if nb != nil && nb.Walkable() {
			buf = append(buf, nb)
		}
	}
	return buf
}

// PlaceWall converts the cell at (row, col) into a wall. Start and goal
// cells are rejected.
func (g *Grid) PlaceWall(row, col int) error {
	c, err := g.mutable(row, col)
	if err != nil {
		return err
	}
	c.Kind = Wall
	return nil
}

// RemoveWall clears a wall at (row, col). Removing from a non-wall cell is
// a no-op.
func (g *Grid) RemoveWall(row, col int) error {
	c, err := g.mutable(row, col)
	if err != nil {
		return err
	}
	if c.Kind == Wall {
		c.Kind = Empty
	}
	return nil
}

// ToggleWall flips the cell at (row, col) between wall and empty.
func (g *Grid) ToggleWall(row, col int) error {
	c, err := g.mutable(row, col)
	if err != nil {
		return err
	}
	if c.Kind == Wall {
		c.Kind = Empty
	} else {
		c.Kind = Wall
	}
	return nil
}

// mutable resolves (row, col) to a cell that topology changes may touch.
func (g *Grid) mutable(row, col int) (*Cell, error) {
	c := g.Cell(row, col)
	if c == nil {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	if c.Kind == Start || c.Kind == Goal {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrProtectedCell, row, col)
	}
	return c, nil
}

// SetStart moves the start marker to (row, col). The previous start cell
// reverts to empty. Walls and the goal cell are rejected.
func (g *Grid) SetStart(row, col int) error {
	i, err := g.marker(row, col)
	if err != nil {
		return err
	}
	g.cells[g.start].Kind = Empty
	g.start = i
	g.cells[i].Kind = Start
	return nil
}

// SetGoal moves the goal marker to (row, col). The previous goal cell
// reverts to empty. Walls and the start cell are rejected.
func (g *Grid) SetGoal(row, col int) error {
	i, err := g.marker(row, col)
	if err != nil {
		return err
	}
	g.cells[g.goal].Kind = Empty
	g.goal = i
	g.cells[i].Kind = Goal
	return nil
}

// marker validates a cell as a start/goal destination.
func (g *Grid) marker(row, col int) (int, error) {
	c := g.Cell(row, col)
	if c == nil {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	if c.Kind == Wall || c.Kind == Start || c.Kind == Goal {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrProtectedCell, row, col)
	}
	return g.Index(row, col), nil
}

// GenerateRandomMaze repaints every non-start, non-goal cell: wall with
// probability density, empty otherwise. Connectivity is not guaranteed; a
// search over the result may legitimately find no path.
func (g *Grid) GenerateRandomMaze(rng *rand.Rand, density float64) {
	for i := range g.cells {
		c := &g.cells[i]
		if c.Kind == Start || c.Kind == Goal {
			continue
		}
		if rng.Float64() < density {
			c.Kind = Wall
		} else {
			c.Kind = Empty
		}
	}
}

// ResetSearchState clears every cell's search scratch. Must run before
// each search over a reused grid.
func (g *Grid) ResetSearchState() {
	for i := range g.cells {
		g.cells[i].ResetSearch()
	}
}

// FullReset clears all walls and all search scratch, keeping the start and
// goal markers where they are.
func (g *Grid) FullReset() {
	for i := range g.cells {
		c := &g.cells[i]
		if c.Kind != Start && c.Kind != Goal {
			c.Kind = Empty
		}
		c.ResetSearch()
	}
}

// SpawnRandomObstacle converts a uniformly chosen empty cell that is not
// on the committed path into a wall and returns it. Returns nil when no
// eligible cell exists.
func (g *Grid) SpawnRandomObstacle(rng *rand.Rand) *Cell {
	var candidates []*Cell
	for i := range g.cells {
		c := &g.cells[i]
		if c.Kind == Empty && !c.OnPath {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	c := candidates[rng.Intn(len(candidates))]
	c.Kind = Wall
	return c
}

// EachCell calls fn for every cell in row-major order.
func (g *Grid) EachCell(fn func(*Cell)) {
	for i := range g.cells {
		fn(&g.cells[i])
	}
}
