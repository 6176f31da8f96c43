// Package agent implements the traversal state machine that walks a
// computed path one cell at a time and reports obstruction so a
// coordinator can replan.
package agent

import "github.com/pthm-cable/gridnav/grid"

// State is the agent's traversal state.
type State uint8

const (
	Idle State = iota
	Moving
	Blocked
	Arrived
)

// String returns the display name for a state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Blocked:
		return "blocked"
	case Arrived:
		return "arrived"
	}
	return "unknown"
}

// Agent walks a path of grid cells. Its position is always path[pathIndex];
// it decides everything from the path and cell kinds, never from the
// per-cell search flags.
type Agent struct {
	path      []*grid.Cell
	pathIndex int
	state     State

	reached    bool // set once the goal has been reached
	replanning bool // set while a blocked step awaits a replan
}

// New creates an idle agent with no path.
func New() *Agent {
	return &Agent{state: Idle}
}

// SetPath installs a freshly computed path and starts traversal at its
// first cell. An empty path leaves the agent idle.
func (a *Agent) SetPath(path []*grid.Cell) {
	a.install(path)
}

// AcceptReplan replaces the path after a replan. A non-empty path resumes
// traversal from its first cell; an empty path (no route remains) returns
// the agent to idle.
func (a *Agent) AcceptReplan(path []*grid.Cell) {
	a.install(path)
}

func (a *Agent) install(path []*grid.Cell) {
	a.pathIndex = 0
	a.reached = false
	a.replanning = false
	if len(path) == 0 {
		a.path = nil
		a.state = Idle
		return
	}
	a.path = path
	a.state = Moving
}

// Step advances one cell along the path. Stepping past the last cell
// transitions to Arrived. Stepping into a cell that has become a wall
// transitions to Blocked without consuming the step, so the same move is
// retried after a replan. Returns whether the call advanced the agent or
// completed the traversal; calls in any state other than Moving return
// false and change nothing.
func (a *Agent) Step() bool {
	if a.state != Moving {
		return false
	}

	next := a.pathIndex + 1
	if next >= len(a.path) {
		a.state = Arrived
		a.reached = true
		return true
	}
	if a.path[next].Kind == grid.Wall {
		a.state = Blocked
		a.replanning = true
		return false
	}

	a.pathIndex = next
	return true
}

// IsPathBlocked reports whether any cell in the unconsumed remainder of
// the path (pathIndex+1 through the end) has become a wall.
func (a *Agent) IsPathBlocked() bool {
	for i := a.pathIndex + 1; i < len(a.path); i++ {
		if a.path[i].Kind == grid.Wall {
			return true
		}
	}
	return false
}

// Reset returns the agent to idle with no path.
func (a *Agent) Reset() {
	a.path = nil
	a.pathIndex = 0
	a.state = Idle
	a.reached = false
	a.replanning = false
}

// Cell returns the agent's current cell, or nil when it holds no path.
func (a *Agent) Cell() *grid.Cell {
	if len(a.path) == 0 {
		return nil
	}
	return a.path[a.pathIndex]
}

// State returns the current traversal state.
func (a *Agent) State() State { return a.state }

// Path returns the installed path.
func (a *Agent) Path() []*grid.Cell { return a.path }

// PathIndex returns the index of the agent's current cell.
func (a *Agent) PathIndex() int { return a.pathIndex }

// Reached reports whether the agent has arrived at the goal.
func (a *Agent) Reached() bool { return a.reached }

// Replanning reports whether a blocked step is waiting on a replan.
func (a *Agent) Replanning() bool { return a.replanning }
