// Package main provides a batch comparison harness: it sweeps algorithm,
// heuristic, and maze density scenarios over a set of seeds and reports
// which configuration searches least and pathfinds best.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/gridnav/config"
	"github.com/pthm-cable/gridnav/search"
	"github.com/pthm-cable/gridnav/sim"
	"github.com/pthm-cable/gridnav/telemetry"
)

// scenarioResult is one row of compare.csv: a scenario aggregated over all
// of its seed runs.
type scenarioResult struct {
	Algorithm   string  `csv:"algorithm"`
	Heuristic   string  `csv:"heuristic"`
	Density     float64 `csv:"density"`
	Runs        int     `csv:"runs"`
	Arrivals    int     `csv:"arrivals"`
	Replans     int     `csv:"replans"`
	FoundRate   float64 `csv:"found_rate"`
	CostMean    float64 `csv:"path_cost_mean"`
	NodesMean   float64 `csv:"nodes_mean"`
	NodesStd    float64 `csv:"nodes_std"`
	NodesP90    float64 `csv:"nodes_p90"`
	ElapsedMean float64 `csv:"elapsed_mean_ms"`
}

// formatDuration formats a duration as h/m/s for progress lines.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func parseDensities(list string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(list, ",") {
		d, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing density %q: %w", part, err)
		}
		if d < 0 || d > 1 {
			return nil, fmt.Errorf("density %v outside [0,1]", d)
		}
		out = append(out, d)
	}
	return out, nil
}

// runScenario runs one full dynamic simulation per seed and folds every
// search record from every run into a single aggregate.
func runScenario(cfg *config.Config, alg, heur string, density float64, seeds []int64) (scenarioResult, error) {
	var records []telemetry.SearchRecord
	arrivals := 0

	for _, seed := range seeds {
		opts := sim.FromConfig(cfg)
		opts.Algorithm = alg
		opts.Heuristic = heur
		opts.Density = density
		opts.Seed = seed

		s, err := sim.New(opts)
		if err != nil {
			return scenarioResult{}, err
		}

		s.GenerateRandomMaze(density)
		if _, err := s.RunSearch("", ""); err != nil {
			return scenarioResult{}, err
		}

		if s.Status() == sim.StatusPathFound {
			for {
				running, err := s.Update()
				if err != nil {
					return scenarioResult{}, err
				}
				if !running {
					break
				}
				if cfg.Run.MaxTicks > 0 && s.Tick() >= cfg.Run.MaxTicks {
					break
				}
			}
		}

		if s.Status() == sim.StatusArrived {
			arrivals++
		}
		records = append(records, s.Records()...)
	}

	st := telemetry.Stats(records)
	return scenarioResult{
		Algorithm:   alg,
		Heuristic:   heur,
		Density:     density,
		Runs:        len(seeds),
		Arrivals:    arrivals,
		Replans:     st.Replans,
		FoundRate:   st.FoundRate,
		CostMean:    st.PathCostMean,
		NodesMean:   st.NodesMean,
		NodesStd:    st.NodesStd,
		NodesP90:    st.NodesP90,
		ElapsedMean: st.ElapsedMeanMS,
	}, nil
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	rows := flag.Int("rows", 0, "Grid rows (0 = use config)")
	cols := flag.Int("cols", 0, "Grid columns (0 = use config)")
	seeds := flag.Int("seeds", 5, "Number of seeds per scenario")
	maxTicks := flag.Int("max-ticks", 0, "Tick cap per run (0 = use config)")
	densities := flag.String("densities", "0.2,0.3,0.4", "Comma-separated wall densities to sweep")
	output := flag.String("output", "", "Output directory for compare.csv (empty = stdout only)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	if *rows > 0 {
		cfg.Grid.Rows = *rows
	}
	if *cols > 0 {
		cfg.Grid.Cols = *cols
	}
	if *maxTicks > 0 {
		cfg.Run.MaxTicks = *maxTicks
	}

	densityList, err := parseDensities(*densities)
	if err != nil {
		log.Fatalf("invalid -densities: %v", err)
	}

	// Deterministic seed set so sweeps are reproducible run to run.
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	total := len(search.AlgorithmNames()) * len(search.HeuristicNames()) * len(densityList)
	fmt.Printf("Comparing %d scenarios on a %dx%d grid, %d seeds each\n",
		total, cfg.Grid.Rows, cfg.Grid.Cols, *seeds)

	start := time.Now()
	var results []scenarioResult
	n := 0
	for _, alg := range search.AlgorithmNames() {
		for _, heur := range search.HeuristicNames() {
			for _, d := range densityList {
				res, err := runScenario(cfg, alg, heur, d, evalSeeds)
				if err != nil {
					log.Fatalf("scenario %s/%s density=%.2f: %v", alg, heur, d, err)
				}
				results = append(results, res)
				n++
				fmt.Printf("[%d/%d] %-10s %-9s density=%.2f: found=%3.0f%% cost=%.1f nodes=%.1f | elapsed: %s\n",
					n, total, alg, heur, d,
					res.FoundRate*100, res.CostMean, res.NodesMean,
					formatDuration(time.Since(start)))
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FoundRate != results[j].FoundRate {
			return results[i].FoundRate > results[j].FoundRate
		}
		return results[i].CostMean < results[j].CostMean
	})

	fmt.Println("\nRanked by found rate, then mean path cost:")
	for i, r := range results {
		fmt.Printf("  %2d. %-10s %-9s density=%.2f found=%3.0f%% cost=%.1f nodes=%.1f (std %.1f) arrivals=%d/%d\n",
			i+1, r.Algorithm, r.Heuristic, r.Density,
			r.FoundRate*100, r.CostMean, r.NodesMean, r.NodesStd,
			r.Arrivals, r.Runs)
	}

	if *output != "" {
		if err := os.MkdirAll(*output, 0755); err != nil {
			log.Fatalf("failed to create output directory: %v", err)
		}
		path := filepath.Join(*output, "compare.csv")
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("failed to create %s: %v", path, err)
		}
		defer f.Close()
		if err := gocsv.Marshal(results, f); err != nil {
			log.Fatalf("failed to write results: %v", err)
		}
		fmt.Printf("\nResults saved to %s\n", path)
	}
}
