package sim

import (
	"github.com/pthm-cable/gridnav/grid"
	"github.com/pthm-cable/gridnav/telemetry"
)

// CellState is one cell's presentation-facing state.
type CellState struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Kind     string `json:"kind"`
	InOpen   bool   `json:"in_open"`
	InClosed bool   `json:"in_closed"`
	OnPath   bool   `json:"on_path"`
}

// AgentState is the agent's presentation-facing state. Present is false
// when the agent holds no path and therefore occupies no cell.
type AgentState struct {
	Present    bool   `json:"present"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	State      string `json:"state"`
	Reached    bool   `json:"reached"`
	Replanning bool   `json:"replanning"`
}

// Snapshot is a point-in-time view of the simulation for presentation
// layers and dumps. It copies everything it reports and holds no
// references into live state.
type Snapshot struct {
	Tick    int               `json:"tick"`
	Rows    int               `json:"rows"`
	Cols    int               `json:"cols"`
	Status  string            `json:"status"`
	Cells   []CellState       `json:"cells"`
	Agent   AgentState        `json:"agent"`
	Metrics telemetry.Metrics `json:"metrics"`
}

// Snapshot builds the current view, cells in row-major order.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    s.tick,
		Rows:    s.grid.Rows(),
		Cols:    s.grid.Cols(),
		Status:  s.status.String(),
		Cells:   make([]CellState, 0, s.grid.Rows()*s.grid.Cols()),
		Metrics: s.collector.Totals(),
	}

	s.grid.EachCell(func(c *grid.Cell) {
		snap.Cells = append(snap.Cells, CellState{
			Row:      c.Row,
			Col:      c.Col,
			Kind:     c.Kind.String(),
			InOpen:   c.InOpen,
			InClosed: c.InClosed,
			OnPath:   c.OnPath,
		})
	})

	snap.Agent = AgentState{
		State:      s.agent.State().String(),
		Reached:    s.agent.Reached(),
		Replanning: s.agent.Replanning(),
	}
	if c := s.agent.Cell(); c != nil {
		snap.Agent.Present = true
		snap.Agent.Row = c.Row
		snap.Agent.Col = c.Col
	}
	return snap
}
