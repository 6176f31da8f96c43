// Package sim orchestrates the pathfinding simulation: it owns the grid,
// the planner, the agent, and the telemetry collector, exposes the command
// surface that drivers and presentation layers consume, and coordinates
// replanning so the agent never holds a path with a wall in its unconsumed
// remainder.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/gridnav/agent"
	"github.com/pthm-cable/gridnav/config"
	"github.com/pthm-cable/gridnav/grid"
	"github.com/pthm-cable/gridnav/search"
	"github.com/pthm-cable/gridnav/telemetry"
)

// Status describes the run for presentation layers.
type Status uint8

const (
	StatusReady Status = iota
	StatusPathFound
	StatusNoPath
	StatusTraversing
	StatusArrived
)

// String returns the display name for a status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusPathFound:
		return "path_found"
	case StatusNoPath:
		return "no_path"
	case StatusTraversing:
		return "traversing"
	case StatusArrived:
		return "arrived"
	}
	return "unknown"
}

// Options configures a simulation.
type Options struct {
	Rows, Cols int
	Algorithm  string // display name; empty = A*
	Heuristic  string // display name; empty = Manhattan
	Density    float64

	Dynamic          bool
	ObstacleInterval int // ticks between obstacle spawns
	StepInterval     int // ticks between agent steps

	Seed int64
}

// FromConfig maps the loaded configuration onto simulation options.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Rows:             cfg.Grid.Rows,
		Cols:             cfg.Grid.Cols,
		Algorithm:        cfg.Search.Algorithm,
		Heuristic:        cfg.Search.Heuristic,
		Density:          cfg.Maze.Density,
		Dynamic:          cfg.Dynamic.Enabled,
		ObstacleInterval: cfg.Dynamic.ObstacleInterval,
		StepInterval:     cfg.Dynamic.StepInterval,
		Seed:             cfg.Run.Seed,
	}
}

// Simulation holds the complete run state. Calls must be serialized; the
// simulation takes no locks.
type Simulation struct {
	grid      *grid.Grid
	planner   *search.Planner
	agent     *agent.Agent
	collector *telemetry.Collector
	rng       *rand.Rand

	alg      search.Algorithm
	heur     search.Heuristic
	heurName string

	dynamic          bool
	obstacleInterval int
	stepInterval     int

	tick   int
	status Status
}

// New creates a simulation from options. Unknown algorithm or heuristic
// names are rejected here rather than at first search.
func New(opts Options) (*Simulation, error) {
	g, err := grid.New(opts.Rows, opts.Cols)
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}

	algName := opts.Algorithm
	if algName == "" {
		algName = search.AStarName
	}
	alg, err := search.AlgorithmByName(algName)
	if err != nil {
		return nil, err
	}

	heurName := opts.Heuristic
	if heurName == "" {
		heurName = search.ManhattanName
	}
	heur, err := search.HeuristicByName(heurName)
	if err != nil {
		return nil, err
	}

	obstacleInterval := opts.ObstacleInterval
	if obstacleInterval < 1 {
		obstacleInterval = 1
	}
	stepInterval := opts.StepInterval
	if stepInterval < 1 {
		stepInterval = 1
	}

	return &Simulation{
		grid:             g,
		planner:          search.NewPlanner(),
		agent:            agent.New(),
		collector:        telemetry.NewCollector(),
		rng:              rand.New(rand.NewSource(opts.Seed)),
		alg:              alg,
		heur:             heur,
		heurName:         heurName,
		dynamic:          opts.Dynamic,
		obstacleInterval: obstacleInterval,
		stepInterval:     stepInterval,
		status:           StatusReady,
	}, nil
}

// SetAlgorithm selects the search algorithm by display name.
func (s *Simulation) SetAlgorithm(name string) error {
	alg, err := search.AlgorithmByName(name)
	if err != nil {
		return err
	}
	s.alg = alg
	return nil
}

// SetHeuristic selects the heuristic by display name.
func (s *Simulation) SetHeuristic(name string) error {
	heur, err := search.HeuristicByName(name)
	if err != nil {
		return err
	}
	s.heur = heur
	s.heurName = name
	return nil
}

// RunSearch plans from the grid's start to its goal and hands the path to
// the agent. Non-empty algorithm/heuristic names switch the selection
// first; empty strings keep the current one. An unreachable goal is a
// normal outcome recorded with Found=false, not an error.
func (s *Simulation) RunSearch(algorithm, heuristic string) (telemetry.SearchRecord, error) {
	if algorithm != "" {
		if err := s.SetAlgorithm(algorithm); err != nil {
			return telemetry.SearchRecord{}, err
		}
	}
	if heuristic != "" {
		if err := s.SetHeuristic(heuristic); err != nil {
			return telemetry.SearchRecord{}, err
		}
	}

	s.agent.Reset()
	res := s.planner.Run(s.grid, s.alg, s.heur)
	rec := s.record(res, false)

	if !res.Found {
		s.status = StatusNoPath
		return rec, nil
	}
	s.agent.SetPath(res.Path)
	s.status = StatusPathFound
	return rec, nil
}

// ReplanIfBlocked replans from the agent's current cell when the
// unconsumed remainder of its path is obstructed. On success the agent
// resumes on the new path; when no path remains the agent goes idle and
// the status reports it. Returns whether a replan ran.
func (s *Simulation) ReplanIfBlocked() (bool, error) {
	st := s.agent.State()
	if st != agent.Moving && st != agent.Blocked {
		return false, nil
	}
	if !s.agent.IsPathBlocked() {
		return false, nil
	}

	res, err := s.planner.Replan(s.grid, s.agent.Cell(), s.alg, s.heur)
	if err != nil {
		return false, err
	}
	s.record(res, true)

	if !res.Found {
		s.agent.AcceptReplan(nil)
		s.status = StatusNoPath
		return true, nil
	}
	s.agent.AcceptReplan(res.Path)
	s.status = StatusTraversing
	return true, nil
}

// AgentStep advances the agent one cell. A step into a freshly walled cell
// blocks and triggers an immediate replan.
func (s *Simulation) AgentStep() (bool, error) {
	advanced := s.agent.Step()

	switch s.agent.State() {
	case agent.Arrived:
		s.status = StatusArrived
	case agent.Moving:
		if advanced {
			s.status = StatusTraversing
		}
	case agent.Blocked:
		if _, err := s.ReplanIfBlocked(); err != nil {
			return advanced, err
		}
	}
	return advanced, nil
}

// PlaceWall adds a wall and replans immediately if it cut the agent's
// remaining path, so the command never returns leaving the agent on a
// blocked path.
func (s *Simulation) PlaceWall(row, col int) error {
	if err := s.grid.PlaceWall(row, col); err != nil {
		return err
	}
	_, err := s.ReplanIfBlocked()
	return err
}

// RemoveWall clears a wall. Removing a wall cannot obstruct a path, so no
// replan check runs.
func (s *Simulation) RemoveWall(row, col int) error {
	return s.grid.RemoveWall(row, col)
}

// ToggleWall flips a cell between wall and empty, replanning if the flip
// obstructed the agent.
func (s *Simulation) ToggleWall(row, col int) error {
	if err := s.grid.ToggleWall(row, col); err != nil {
		return err
	}
	_, err := s.ReplanIfBlocked()
	return err
}

// SpawnRandomObstacle walls a random empty cell off the committed path.
// Returns nil when no eligible cell exists.
func (s *Simulation) SpawnRandomObstacle() (*grid.Cell, error) {
	c := s.grid.SpawnRandomObstacle(s.rng)
	if c == nil {
		return nil, nil
	}
	if _, err := s.ReplanIfBlocked(); err != nil {
		return nil, err
	}
	return c, nil
}

// GenerateRandomMaze repaints the grid with random walls and drops any
// in-progress traversal; stale paths must not survive a topology rewrite.
func (s *Simulation) GenerateRandomMaze(density float64) {
	s.agent.Reset()
	s.grid.GenerateRandomMaze(s.rng, density)
	s.grid.ResetSearchState()
	s.status = StatusReady
}

// FullReset clears walls, search scratch, the agent, metrics, and the tick
// counter.
func (s *Simulation) FullReset() {
	s.agent.Reset()
	s.grid.FullReset()
	s.collector.Reset()
	s.tick = 0
	s.status = StatusReady
}

// Update advances one driver tick: in dynamic mode obstacles spawn on the
// configured cadence, then the agent steps. Returns false once the run has
// drained (arrived or no path remains).
func (s *Simulation) Update() (bool, error) {
	s.tick++

	if s.dynamic && s.tick%s.obstacleInterval == 0 {
		if _, err := s.SpawnRandomObstacle(); err != nil {
			return false, err
		}
	}
	if s.tick%s.stepInterval == 0 {
		if _, err := s.AgentStep(); err != nil {
			return false, err
		}
	}

	return s.status != StatusArrived && s.status != StatusNoPath, nil
}

// ToggleDynamic flips dynamic obstacle mode and returns the new value.
func (s *Simulation) ToggleDynamic() bool {
	s.dynamic = !s.dynamic
	return s.dynamic
}

// SetDynamic sets dynamic obstacle mode.
func (s *Simulation) SetDynamic(on bool) { s.dynamic = on }

// Dynamic reports whether dynamic obstacle mode is on.
func (s *Simulation) Dynamic() bool { return s.dynamic }

// record converts a search result into a telemetry record and stores it.
func (s *Simulation) record(res search.Result, replan bool) telemetry.SearchRecord {
	rec := telemetry.SearchRecord{
		Tick:         s.tick,
		Algorithm:    s.alg.String(),
		Heuristic:    s.heurName,
		Replan:       replan,
		Found:        res.Found,
		NodesVisited: res.NodesVisited,
		PathCost:     res.PathCost,
		PathLen:      len(res.Path),
		ElapsedMS:    res.Elapsed.Seconds() * 1000,
	}
	s.collector.Record(rec)
	return rec
}

// Grid returns the simulation's grid.
func (s *Simulation) Grid() *grid.Grid { return s.grid }

// Agent returns the simulation's agent.
func (s *Simulation) Agent() *agent.Agent { return s.agent }

// Tick returns the current driver tick.
func (s *Simulation) Tick() int { return s.tick }

// Status returns the current run status.
func (s *Simulation) Status() Status { return s.status }

// Algorithm returns the selected algorithm's display name.
func (s *Simulation) Algorithm() string { return s.alg.String() }

// Heuristic returns the selected heuristic's display name.
func (s *Simulation) Heuristic() string { return s.heurName }

// Metrics returns the totals accumulated across this run's searches.
func (s *Simulation) Metrics() telemetry.Metrics { return s.collector.Totals() }

// Records returns every search record of this run.
func (s *Simulation) Records() []telemetry.SearchRecord { return s.collector.Records() }

// Stats aggregates this run's search records.
func (s *Simulation) Stats() telemetry.RunStats { return telemetry.Stats(s.collector.Records()) }
