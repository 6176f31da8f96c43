// Package telemetry records search outcomes: per-search records, running
// totals across a run, aggregate statistics, and CSV export.
package telemetry

import "log/slog"

// SearchRecord is one row of searches.csv: the outcome of a single search
// or replan.
type SearchRecord struct {
	Tick         int     `csv:"tick"`
	Algorithm    string  `csv:"algorithm"`
	Heuristic    string  `csv:"heuristic"`
	Replan       bool    `csv:"replan"`
	Found        bool    `csv:"found"`
	NodesVisited int     `csv:"nodes_visited"`
	PathCost     float64 `csv:"path_cost"`
	PathLen      int     `csv:"path_len"`
	ElapsedMS    float64 `csv:"elapsed_ms"`
}

// Metrics holds totals accumulated across the initial search and every
// replan of a run.
type Metrics struct {
	Searches     int     `json:"searches"`
	Replans      int     `json:"replans"`
	NodesVisited int     `json:"nodes_visited"`
	PathCost     float64 `json:"path_cost"`
	ElapsedMS    float64 `json:"elapsed_ms"`
}

// LogValue implements slog.LogValuer for structured logging.
func (m Metrics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("searches", m.Searches),
		slog.Int("replans", m.Replans),
		slog.Int("nodes_visited", m.NodesVisited),
		slog.Float64("path_cost", m.PathCost),
		slog.Float64("elapsed_ms", m.ElapsedMS),
	)
}

// Collector accumulates search records and their running totals.
type Collector struct {
	records []SearchRecord
	totals  Metrics
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record stores one search outcome and folds it into the totals. Path cost
// only accumulates for found paths; visited nodes and elapsed time count
// search effort whether or not a path exists.
func (c *Collector) Record(rec SearchRecord) {
	c.records = append(c.records, rec)

	c.totals.Searches++
	if rec.Replan {
		c.totals.Replans++
	}
	c.totals.NodesVisited += rec.NodesVisited
	if rec.Found {
		c.totals.PathCost += rec.PathCost
	}
	c.totals.ElapsedMS += rec.ElapsedMS
}

// Totals returns the accumulated metrics.
func (c *Collector) Totals() Metrics {
	return c.totals
}

// Records returns every recorded search in order.
func (c *Collector) Records() []SearchRecord {
	return c.records
}

// Reset discards all records and totals.
func (c *Collector) Reset() {
	c.records = nil
	c.totals = Metrics{}
}
