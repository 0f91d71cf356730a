package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elowan/kinetix/internal/odes"
)

func testResult() *odes.Result {
	return &odes.Result{
		States: []odes.State{
			{1, 0, 0},
			{0.9, 0.1, 0},
			{0.8, 0.15, 0.05},
		},
		Times:      []float64{0, 0.1, 0.2},
		Metrics:    map[string]float64{"steps": 2},
		TotalDrift: 1e-12,
	}
}

func testMeta() RunMetadata {
	return RunMetadata{
		System:     "decay2",
		Species:    []string{"x", "y", "z"},
		Dt:         0.1,
		Duration:   0.2,
		Integrator: "rk4",
		Params:     map[string]float64{"l1": 2, "l2": 1},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runID, err := store.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("ID = %q, want %q", meta.ID, runID)
	}
	if meta.System != "decay2" {
		t.Errorf("System = %q", meta.System)
	}
	if len(meta.Species) != 3 {
		t.Errorf("Species = %v", meta.Species)
	}
	if meta.Metrics["steps"] != 2 {
		t.Errorf("Metrics = %v", meta.Metrics)
	}
}

func TestLoadSeries(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := store.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	states, times, err := store.LoadSeries(runID)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(states) != 3 || len(times) != 3 {
		t.Fatalf("got %d states, %d times", len(states), len(times))
	}
	if times[1] != 0.1 {
		t.Errorf("times[1] = %v", times[1])
	}
	if states[2][2] != 0.05 {
		t.Errorf("states[2][2] = %v", states[2][2])
	}
}

func TestLoadSeriesDropsCorruptRows(t *testing.T) {
	base := t.TempDir()
	runDir := filepath.Join(base, "decay2_1")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	csv := "time,x,y\n" +
		"0,1,0\n" +
		"0.1,oops,0.1\n" +
		"0.2,0.8,0.2\n"
	if err := os.WriteFile(filepath.Join(runDir, "trajectory.csv"), []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	store := New(base)
	states, times, err := store.LoadSeries("decay2_1")
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("got %d states, %d times; corrupt row should be dropped whole", len(states), len(times))
	}
	for i, s := range states {
		if len(s) != 2 {
			t.Errorf("states[%d] has %d fields, want 2", i, len(s))
		}
	}
	if times[1] != 0.2 {
		t.Errorf("times[1] = %v, want 0.2", times[1])
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := store.Save(testMeta(), testResult()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	runs, err = store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].System != "decay2" {
		t.Errorf("System = %q", runs[0].System)
	}
}

func TestListMissingBaseDir(t *testing.T) {
	store := New(t.TempDir() + "/does-not-exist")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("missing_123"); err == nil {
		t.Error("expected error")
	}
	if _, _, err := store.LoadSeries("missing_123"); err == nil {
		t.Error("expected error")
	}
}
