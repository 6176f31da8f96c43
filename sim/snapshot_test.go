package sim

import (
	"encoding/json"
	"testing"
)

// TestSnapshotShape verifies the snapshot covers every cell in row-major
// order and mirrors the agent and metrics.
func TestSnapshotShape(t *testing.T) {
	s := mustSim(t, Options{Rows: 4, Cols: 6})
	rec, err := s.RunSearch("", "")
	if err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()

	if snap.Rows != 4 || snap.Cols != 6 {
		t.Errorf("snapshot dims = %dx%d, want 4x6", snap.Rows, snap.Cols)
	}
	if len(snap.Cells) != 24 {
		t.Fatalf("snapshot has %d cells, want 24", len(snap.Cells))
	}
	if snap.Status != "path_found" {
		t.Errorf("status = %q, want path_found", snap.Status)
	}

	var starts, goals, onPath int
	for i, c := range snap.Cells {
		if wantRow, wantCol := i/6, i%6; c.Row != wantRow || c.Col != wantCol {
			t.Fatalf("cell %d = (%d,%d), want row-major (%d,%d)", i, c.Row, c.Col, wantRow, wantCol)
		}
		switch c.Kind {
		case "start":
			starts++
		case "goal":
			goals++
		}
		if c.OnPath {
			onPath++
		}
	}
	if starts != 1 || goals != 1 {
		t.Errorf("markers = %d starts, %d goals, want exactly one of each", starts, goals)
	}
	if onPath != rec.PathLen {
		t.Errorf("%d cells marked on path, want %d", onPath, rec.PathLen)
	}

	if !snap.Agent.Present {
		t.Fatal("agent should be present after a successful search")
	}
	if snap.Agent.Row != 0 || snap.Agent.Col != 0 {
		t.Errorf("agent at (%d,%d), want (0,0)", snap.Agent.Row, snap.Agent.Col)
	}
	if snap.Agent.State != "moving" {
		t.Errorf("agent state = %q, want moving", snap.Agent.State)
	}
	if snap.Metrics.Searches != 1 {
		t.Errorf("snapshot metrics searches = %d, want 1", snap.Metrics.Searches)
	}
}

// TestSnapshotAbsentAgent verifies an idle run reports no agent position.
func TestSnapshotAbsentAgent(t *testing.T) {
	s := mustSim(t, Options{Rows: 3, Cols: 3})

	snap := s.Snapshot()

	if snap.Agent.Present {
		t.Error("agent present before any search")
	}
	if snap.Status != "ready" {
		t.Errorf("status = %q, want ready", snap.Status)
	}

	// The snapshot is a JSON surface for dumps; it must marshal cleanly.
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("snapshot does not marshal: %v", err)
	}
	var round map[string]any
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("snapshot JSON does not parse: %v", err)
	}
	if _, ok := round["cells"]; !ok {
		t.Error("snapshot JSON missing cells key")
	}
}
