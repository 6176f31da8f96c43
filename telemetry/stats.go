package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RunStats holds aggregate statistics over every search of a run.
type RunStats struct {
	Searches  int     `csv:"searches"`
	Replans   int     `csv:"replans"`
	FoundRate float64 `csv:"found_rate"`

	NodesMean float64 `csv:"nodes_mean"`
	NodesStd  float64 `csv:"nodes_std"`
	NodesMin  float64 `csv:"nodes_min"`
	NodesMax  float64 `csv:"nodes_max"`
	NodesP50  float64 `csv:"nodes_p50"`
	NodesP90  float64 `csv:"nodes_p90"`

	ElapsedMeanMS float64 `csv:"elapsed_mean_ms"`
	ElapsedMinMS  float64 `csv:"elapsed_min_ms"`
	ElapsedMaxMS  float64 `csv:"elapsed_max_ms"`

	PathCostMean float64 `csv:"path_cost_mean"` // over found searches only
}

// Stats aggregates per-search records. Returns the zero value when there
// are no records.
func Stats(records []SearchRecord) RunStats {
	n := len(records)
	if n == 0 {
		return RunStats{}
	}

	nodes := make([]float64, n)
	elapsed := make([]float64, n)
	var costs []float64
	var found, replans int

	for i, rec := range records {
		nodes[i] = float64(rec.NodesVisited)
		elapsed[i] = rec.ElapsedMS
		if rec.Found {
			found++
			costs = append(costs, rec.PathCost)
		}
		if rec.Replan {
			replans++
		}
	}

	s := RunStats{
		Searches:      n,
		Replans:       replans,
		FoundRate:     float64(found) / float64(n),
		NodesMean:     stat.Mean(nodes, nil),
		ElapsedMeanMS: stat.Mean(elapsed, nil),
		ElapsedMinMS:  floats.Min(elapsed),
		ElapsedMaxMS:  floats.Max(elapsed),
	}

	if n > 1 {
		s.NodesStd = stat.StdDev(nodes, nil)
	}

	sort.Float64s(nodes)
	s.NodesMin = nodes[0]
	s.NodesMax = nodes[n-1]
	s.NodesP50 = stat.Quantile(0.5, stat.Empirical, nodes, nil)
	s.NodesP90 = stat.Quantile(0.9, stat.Empirical, nodes, nil)

	if len(costs) > 0 {
		s.PathCostMean = stat.Mean(costs, nil)
	}

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("searches", s.Searches),
		slog.Int("replans", s.Replans),
		slog.Float64("found_rate", s.FoundRate),
		slog.Float64("nodes_mean", s.NodesMean),
		slog.Float64("nodes_std", s.NodesStd),
		slog.Float64("nodes_min", s.NodesMin),
		slog.Float64("nodes_max", s.NodesMax),
		slog.Float64("nodes_p50", s.NodesP50),
		slog.Float64("nodes_p90", s.NodesP90),
		slog.Float64("elapsed_mean_ms", s.ElapsedMeanMS),
		slog.Float64("elapsed_min_ms", s.ElapsedMinMS),
		slog.Float64("elapsed_max_ms", s.ElapsedMaxMS),
		slog.Float64("path_cost_mean", s.PathCostMean),
	)
}

// LogStats logs the aggregate stats using slog.
func (s RunStats) LogStats() {
	slog.Info("stats",
		"searches", s.Searches,
		"replans", s.Replans,
		"found_rate", s.FoundRate,
		"nodes_mean", s.NodesMean,
		"nodes_std", s.NodesStd,
		"nodes_min", s.NodesMin,
		"nodes_max", s.NodesMax,
		"nodes_p50", s.NodesP50,
		"nodes_p90", s.NodesP90,
		"elapsed_mean_ms", s.ElapsedMeanMS,
		"elapsed_min_ms", s.ElapsedMinMS,
		"elapsed_max_ms", s.ElapsedMaxMS,
		"path_cost_mean", s.PathCostMean,
	)
}
