package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/monitor"
	"github.com/san-kum/neurodyn/internal/neuro"
)

func recordedMonitor(t *testing.T) *monitor.Monitor {
	t.Helper()

	typ := &component.NeuType{
		Name:   "passive",
		Fields: []neuro.Field{{Name: "V", Init: -65.0}},
		Mode:   neuro.ModeVector,
	}
	g, err := component.NewGroup("grp", typ, 2)
	if err != nil {
		t.Fatalf("group: %v", err)
	}

	mon := monitor.New()
	if err := mon.Attach(g, "V", 1); err != nil {
		t.Fatalf("attach: %v", err)
	}

	mon.Sample(0, 0.0)
	g.ST().Fill("V", -64.5)
	mon.Sample(1, 0.1)
	return mon
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	meta := RunMetadata{
		Model:    "hh",
		Synapse:  "gabaa",
		Seed:     42,
		Dt:       0.05,
		Duration: 100.0,
		Neurons:  2,
		Metrics:  map[string]float64{"firing_rate": 0.03},
	}

	runID, err := st.Save(meta, recordedMonitor(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model != "hh" || loaded.Synapse != "gabaa" {
		t.Errorf("model/synapse mismatch: %s/%s", loaded.Model, loaded.Synapse)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.Metrics["firing_rate"] != 0.03 {
		t.Errorf("expected firing_rate 0.03, got %f", loaded.Metrics["firing_rate"])
	}
	if len(loaded.Fields) != 1 || loaded.Fields[0] != "grp.V" {
		t.Errorf("fields mismatch: %v", loaded.Fields)
	}

	values, times, err := st.LoadSeries(runID, "grp.V")
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if len(values) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 rows, got %d values / %d times", len(values), len(times))
	}
	if values[0][0] != -65.0 || values[1][1] != -64.5 {
		t.Errorf("unexpected series values: %v", values)
	}
	if times[1] != 0.1 {
		t.Errorf("expected time 0.1, got %f", times[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{Model: "lif"}, recordedMonitor(t)); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := st.Save(RunMetadata{Model: "lif"}, recordedMonitor(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	runDir := filepath.Join(dir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "grp_V.csv")); os.IsNotExist(err) {
		t.Error("grp_V.csv not created")
	}
}
