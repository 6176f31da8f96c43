package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/gridnav/config"
	"github.com/pthm-cable/gridnav/sim"
	"github.com/pthm-cable/gridnav/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	algorithm := flag.String("algorithm", "", `Search algorithm, "A* Search" or "Greedy BFS" (empty = use config)`)
	heuristic := flag.String("heuristic", "", `Heuristic, "Manhattan" or "Euclidean" (empty = use config)`)
	rows := flag.Int("rows", 0, "Grid rows (0 = use config)")
	cols := flag.Int("cols", 0, "Grid columns (0 = use config)")
	density := flag.Float64("density", -1, "Random maze wall density in [0,1] (negative = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config; config 0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = use config)")
	dynamic := flag.String("dynamic", "", `Dynamic obstacles, "on" or "off" (empty = use config)`)
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and run snapshot (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output run stats via slog")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI flags override config
	if *algorithm != "" {
		cfg.Search.Algorithm = *algorithm
	}
	if *heuristic != "" {
		cfg.Search.Heuristic = *heuristic
	}
	if *rows > 0 {
		cfg.Grid.Rows = *rows
	}
	if *cols > 0 {
		cfg.Grid.Cols = *cols
	}
	if *density >= 0 {
		cfg.Maze.Density = *density
	}
	if *seed != 0 {
		cfg.Run.Seed = *seed
	}
	if *maxTicks > 0 {
		cfg.Run.MaxTicks = *maxTicks
	}
	switch *dynamic {
	case "on":
		cfg.Dynamic.Enabled = true
	case "off":
		cfg.Dynamic.Enabled = false
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *logStats {
		cfg.Telemetry.LogStats = true
	}

	if cfg.Run.Seed == 0 {
		cfg.Run.Seed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	s, err := sim.New(sim.FromConfig(cfg))
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	slog.Info("starting simulation",
		"seed", cfg.Run.Seed,
		"rows", cfg.Grid.Rows,
		"cols", cfg.Grid.Cols,
		"algorithm", s.Algorithm(),
		"heuristic", s.Heuristic(),
		"density", cfg.Maze.Density,
		"dynamic", cfg.Dynamic.Enabled,
		"max_ticks", cfg.Run.MaxTicks,
	)

	s.GenerateRandomMaze(cfg.Maze.Density)

	rec, err := s.RunSearch("", "")
	if err != nil {
		slog.Error("search failed", "error", err)
		os.Exit(1)
	}
	slog.Info("initial search",
		"found", rec.Found,
		"nodes_visited", rec.NodesVisited,
		"path_cost", rec.PathCost,
		"path_len", rec.PathLen,
		"elapsed_ms", rec.ElapsedMS,
	)

	if rec.Found {
		for {
			running, err := s.Update()
			if err != nil {
				slog.Error("update failed", "error", err)
				os.Exit(1)
			}
			if !running {
				break
			}
			if cfg.Run.MaxTicks > 0 && s.Tick() >= cfg.Run.MaxTicks {
				slog.Info("max ticks reached", "tick", s.Tick())
				break
			}
		}
	}

	for _, r := range s.Records() {
		if err := out.WriteSearch(r); err != nil {
			slog.Error("failed to write search record", "error", err)
			break
		}
	}
	stats := s.Stats()
	if err := out.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := out.WriteSnapshot(s.Snapshot()); err != nil {
		slog.Error("failed to write snapshot", "error", err)
	}

	// An unreachable goal is a normal outcome, not a failure exit.
	slog.Info("run complete",
		"status", s.Status().String(),
		"tick", s.Tick(),
		"agent_state", s.Agent().State().String(),
		"metrics", s.Metrics(),
	)
	if cfg.Telemetry.LogStats {
		stats.LogStats()
	}
}
