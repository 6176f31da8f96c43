package search

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/zyedidia/generic/mapset"

	"github.com/pthm-cable/gridnav/grid"
)

func mustGrid(t *testing.T, rows, cols int) *grid.Grid {
	t.Helper()
	g, err := grid.New(rows, cols)
	if err != nil {
		t.Fatalf("grid.New(%d, %d) returned error: %v", rows, cols, err)
	}
	return g
}

func wall(t *testing.T, g *grid.Grid, row, col int) {
	t.Helper()
	if err := g.PlaceWall(row, col); err != nil {
		t.Fatalf("PlaceWall(%d, %d) returned error: %v", row, col, err)
	}
}

func coords(path []*grid.Cell) [][2]int {
	out := make([][2]int, len(path))
	for i, c := range path {
		out[i] = [2]int{c.Row, c.Col}
	}
	return out
}

// bfsDistance returns the shortest path length in steps from start to goal,
// or -1 when the goal is unreachable. Plain breadth-first search, used as
// the optimality oracle.
func bfsDistance(g *grid.Grid) int {
	startIdx := g.Index(g.Start().Row, g.Start().Col)
	goalIdx := g.Index(g.Goal().Row, g.Goal().Col)

	seen := mapset.New[int]()
	seen.Put(startIdx)
	dist := map[int]int{startIdx: 0}
	queue := []int{startIdx}

	var buf []*grid.Cell
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		if idx == goalIdx {
			return dist[idx]
		}
		buf = g.Neighbors(g.At(idx), buf)
		for _, nb := range buf {
			ni := g.Index(nb.Row, nb.Col)
			if seen.Has(ni) {
				continue
			}
			seen.Put(ni)
			dist[ni] = dist[idx] + 1
			queue = append(queue, ni)
		}
	}
	return -1
}

// TestAStarEmptyGrid verifies the canonical open-grid result: cost 8 over
// 9 cells on a 5x5, and the exact deterministic route the tie-break yields.
func TestAStarEmptyGrid(t *testing.T) {
	g := mustGrid(t, 5, 5)
	p := NewPlanner()

	res := p.Run(g, AStar, Manhattan)

	if !res.Found {
		t.Fatal("expected a path on an empty grid")
	}
	if res.PathCost != 8 {
		t.Errorf("path cost = %v, want 8", res.PathCost)
	}
	if len(res.Path) != 9 {
		t.Errorf("path length = %d, want 9", len(res.Path))
	}
	if res.NodesVisited != 25 {
		t.Errorf("nodes visited = %d, want 25", res.NodesVisited)
	}

	want := [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4}}
	got := coords(res.Path)
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("path = %v, want %v", got, want)
		}
	}
	for _, c := range res.Path {
		if !c.OnPath {
			t.Errorf("path cell (%d,%d) not marked", c.Row, c.Col)
		}
	}
}

// TestSearchDeterminism verifies repeated searches yield identical paths:
// equal keys resolve by insertion order, never map iteration.
func TestSearchDeterminism(t *testing.T) {
	for _, alg := range []Algorithm{AStar, GreedyBFS} {
		t.Run(alg.String(), func(t *testing.T) {
			g := mustGrid(t, 5, 5)
			p := NewPlanner()

			first := p.Run(g, alg, Manhattan)
			if !first.Found {
				t.Fatal("expected a path on an empty grid")
			}
			firstCoords := coords(first.Path)

			for i := 0; i < 3; i++ {
				// An extra reset before the rerun must change nothing.
				g.ResetSearchState()
				res := p.Run(g, alg, Manhattan)
				if !res.Found {
					t.Fatal("repeat search found no path")
				}
				got := coords(res.Path)
				if len(got) != len(firstCoords) {
					t.Fatalf("repeat %d path length = %d, want %d", i, len(got), len(firstCoords))
				}
				for j := range got {
					if got[j] != firstCoords[j] {
						t.Fatalf("repeat %d path diverges at %d: %v vs %v", i, j, got[j], firstCoords[j])
					}
				}
			}
		})
	}
}

// TestAStarMatchesBFSOracle verifies A* path costs equal the true shortest
// distance on randomized grids, for both admissible heuristics.
func TestAStarMatchesBFSOracle(t *testing.T) {
	p := NewPlanner()

	for seed := int64(1); seed <= 10; seed++ {
		for _, h := range []struct {
			name string
			fn   Heuristic
		}{
			{ManhattanName, Manhattan},
			{EuclideanName, Euclidean},
		} {
			g := mustGrid(t, 8, 8)
			g.GenerateRandomMaze(rand.New(rand.NewSource(seed)), 0.3)

			want := bfsDistance(g)
			res := p.Run(g, AStar, h.fn)

			if want < 0 {
				if res.Found {
					t.Errorf("seed %d %s: A* found a path where BFS found none", seed, h.name)
				}
				continue
			}
			if !res.Found {
				t.Errorf("seed %d %s: A* found no path, BFS distance %d", seed, h.name, want)
				continue
			}
			if res.PathCost != float64(want) {
				t.Errorf("seed %d %s: A* cost = %v, BFS distance %d", seed, h.name, res.PathCost, want)
			}
			if len(res.Path) != want+1 {
				t.Errorf("seed %d %s: path length = %d, want %d", seed, h.name, len(res.Path), want+1)
			}
		}
	}
}

// TestGreedyNeverBeatsAStar verifies greedy costs are never below A* on
// randomized grids, and that a known trap makes greedy strictly worse.
func TestGreedyNeverBeatsAStar(t *testing.T) {
	p := NewPlanner()

	for seed := int64(1); seed <= 10; seed++ {
		g := mustGrid(t, 8, 8)
		g.GenerateRandomMaze(rand.New(rand.NewSource(seed)), 0.3)

		a := p.Run(g, AStar, Manhattan)
		gr := p.Run(g, GreedyBFS, Manhattan)

		if a.Found != gr.Found {
			t.Errorf("seed %d: A* found=%v but greedy found=%v", seed, a.Found, gr.Found)
			continue
		}
		if a.Found && gr.PathCost < a.PathCost {
			t.Errorf("seed %d: greedy cost %v beat A* cost %v", seed, gr.PathCost, a.PathCost)
		}
	}

	// A wall just before the goal traps greedy's h-only descent into a
	// detour that A* avoids.
	g := mustGrid(t, 5, 6)
	wall(t, g, 4, 4)

	a := p.Run(g, AStar, Manhattan)
	gr := p.Run(g, GreedyBFS, Manhattan)

	if !a.Found || !gr.Found {
		t.Fatalf("trap grid: found a=%v greedy=%v, want both", a.Found, gr.Found)
	}
	if a.PathCost != 9 {
		t.Errorf("trap grid: A* cost = %v, want 9", a.PathCost)
	}
	if gr.PathCost != 11 {
		t.Errorf("trap grid: greedy cost = %v, want 11", gr.PathCost)
	}
}

// TestEnclosedStart verifies an unreachable goal is a normal result and the
// search finalizes exactly the enclosed region before giving up.
func TestEnclosedStart(t *testing.T) {
	walls := [][2]int{{0, 2}, {1, 2}, {2, 2}, {2, 0}, {2, 1}}

	for _, alg := range []Algorithm{AStar, GreedyBFS} {
		t.Run(alg.String(), func(t *testing.T) {
			g := mustGrid(t, 5, 5)
			for _, w := range walls {
				wall(t, g, w[0], w[1])
			}

			res := NewPlanner().Run(g, alg, Manhattan)

			if res.Found {
				t.Fatal("expected no path out of the enclosure")
			}
			if res.Path != nil {
				t.Errorf("path = %v, want nil", coords(res.Path))
			}
			if res.PathCost != 0 {
				t.Errorf("path cost = %v, want 0", res.PathCost)
			}
			// The enclosure holds (0,0), (0,1), (1,0), (1,1).
			if res.NodesVisited != 4 {
				t.Errorf("nodes visited = %d, want 4", res.NodesVisited)
			}
		})
	}
}

// TestReplanFromOrigin verifies replanning starts at the given cell, not
// the grid's start marker.
func TestReplanFromOrigin(t *testing.T) {
	g := mustGrid(t, 5, 5)
	p := NewPlanner()

	res, err := p.Replan(g, g.Cell(2, 2), AStar, Manhattan)
	if err != nil {
		t.Fatalf("Replan returned error: %v", err)
	}
	if !res.Found {
		t.Fatal("expected a path from (2,2)")
	}
	if res.PathCost != 4 {
		t.Errorf("path cost = %v, want 4", res.PathCost)
	}
	if first := res.Path[0]; first.Row != 2 || first.Col != 2 {
		t.Errorf("path starts at (%d,%d), want (2,2)", first.Row, first.Col)
	}
	if last := res.Path[len(res.Path)-1]; last != g.Goal() {
		t.Errorf("path ends at (%d,%d), want the goal", last.Row, last.Col)
	}

	if _, err := p.Replan(g, nil, AStar, Manhattan); !errors.Is(err, ErrNoOrigin) {
		t.Errorf("Replan(nil origin) error = %v, want ErrNoOrigin", err)
	}
}

// TestReplanClearsPreviousMarks verifies the previous path's cell marks do
// not survive into the next search.
func TestReplanClearsPreviousMarks(t *testing.T) {
	g := mustGrid(t, 5, 5)
	p := NewPlanner()

	first := p.Run(g, AStar, Manhattan)
	if !first.Found {
		t.Fatal("expected a path on an empty grid")
	}

	res, err := p.Replan(g, g.Cell(0, 4), AStar, Manhattan)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected a path from (0,4)")
	}

	marked := 0
	g.EachCell(func(c *grid.Cell) {
		if c.OnPath {
			marked++
		}
	})
	if marked != len(res.Path) {
		t.Errorf("%d cells marked on path, want %d (stale marks survived)", marked, len(res.Path))
	}
}

// TestSearchFromGoal verifies the degenerate single-cell search.
func TestSearchFromGoal(t *testing.T) {
	g := mustGrid(t, 4, 4)
	p := NewPlanner()

	res, err := p.Replan(g, g.Goal(), AStar, Manhattan)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected the trivial path")
	}
	if len(res.Path) != 1 || res.Path[0] != g.Goal() {
		t.Errorf("path = %v, want just the goal cell", coords(res.Path))
	}
	if res.PathCost != 0 {
		t.Errorf("path cost = %v, want 0", res.PathCost)
	}
	if res.NodesVisited != 1 {
		t.Errorf("nodes visited = %d, want 1", res.NodesVisited)
	}
}

// TestMovedMarkersRespected verifies searches honor relocated start and
// goal cells.
func TestMovedMarkersRespected(t *testing.T) {
	g := mustGrid(t, 5, 5)
	if err := g.SetStart(2, 2); err != nil {
		t.Fatal(err)
	}
	if err := g.SetGoal(2, 4); err != nil {
		t.Fatal(err)
	}

	res := NewPlanner().Run(g, AStar, Manhattan)
	if !res.Found {
		t.Fatal("expected a path between moved markers")
	}
	if res.PathCost != 2 {
		t.Errorf("path cost = %v, want 2", res.PathCost)
	}
	if first := res.Path[0]; first.Row != 2 || first.Col != 2 {
		t.Errorf("path starts at (%d,%d), want (2,2)", first.Row, first.Col)
	}
}

// TestAlgorithmNames verifies the closed algorithm enumeration.
func TestAlgorithmNames(t *testing.T) {
	tests := []struct {
		name    string
		want    Algorithm
		wantErr bool
	}{
		{AStarName, AStar, false},
		{GreedyBFSName, GreedyBFS, false},
		{"Dijkstra", AStar, true},
		{"", AStar, true},
		{"a* search", AStar, true},
	}

	for _, tt := range tests {
		got, err := AlgorithmByName(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownAlgorithm) {
				t.Errorf("AlgorithmByName(%q) error = %v, want ErrUnknownAlgorithm", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("AlgorithmByName(%q) returned error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AlgorithmByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
		if got.String() != tt.name {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.name)
		}
	}

	names := AlgorithmNames()
	if len(names) != 2 || names[0] != AStarName || names[1] != GreedyBFSName {
		t.Errorf("AlgorithmNames() = %v", names)
	}
}
