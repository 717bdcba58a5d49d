package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/chernoby/internal/reactor"
)

func sampleResult() *reactor.Result {
	return &reactor.Result{
		Stats: []reactor.Stats{
			{Step: 0, Time: 0, Particles: 10, Atoms: 8, Neutrons: 2, Energy: 420.5},
			{Step: 1, Time: 0.05, Particles: 13, Atoms: 9, Neutrons: 4, Energy: 431.25,
				Fissions: 1, Captures: 1, NeutronsBorn: 3, NeutronsLost: 1},
		},
		Metrics:    map[string]float64{"population": 11.5},
		StepsTaken: 1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "test", Seed: 42, Dt: 0.05, Duration: 0.05}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "test" {
		t.Errorf("expected scenario 'test', got '%s'", meta.Scenario)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Steps != 1 {
		t.Errorf("expected 1 step, got %d", meta.Steps)
	}
	if meta.Final.Fissions != 1 {
		t.Errorf("expected final fissions 1, got %d", meta.Final.Fissions)
	}
	if meta.Metrics["population"] != 11.5 {
		t.Errorf("expected population 11.5, got %f", meta.Metrics["population"])
	}

	stats, err := st.LoadStats(runID)
	if err != nil {
		t.Fatalf("load stats failed: %v", err)
	}
	want := sampleResult().Stats
	if len(stats) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(stats))
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], stats[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	clock := time.Unix(1700000000, 0)
	st.now = func() time.Time { return clock }
	first, err := st.Save(RunMetadata{Scenario: "test"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunMetadata{Scenario: "test"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("runs saved in the same second share id %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "test"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "stats.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestReadStats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		wantErr bool
	}{
		{"header only", "step,time\n", 0, false},
		{"reordered columns", "time,step,extra\n0.5,3,x\n", 1, false},
		{"bad number", "step,time\nabc,0\n", 0, true},
	}

	for _, tt := range tests {
		stats, err := ReadStats(strings.NewReader(tt.input))
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: unexpected error state: %v", tt.name, err)
			continue
		}
		if !tt.wantErr && len(stats) != tt.rows {
			t.Errorf("%s: expected %d rows, got %d", tt.name, tt.rows, len(stats))
		}
	}

	stats, _ := ReadStats(strings.NewReader("time,step,extra\n0.5,3,x\n"))
	if stats[0].Step != 3 || stats[0].Time != 0.5 {
		t.Errorf("columns not matched by name: %+v", stats[0])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "x_1", Scenario: "x", Seed: 3}
	if err := ExportJSON(&buf, meta, sampleResult().Stats); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got struct {
		ID    string `json:"id"`
		Seed  int64  `json:"seed"`
		Stats []struct {
			Fissions int `json:"fissions"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != "x_1" || got.Seed != 3 {
		t.Errorf("metadata not exported: %+v", got)
	}
	if len(got.Stats) != 2 || got.Stats[1].Fissions != 1 {
		t.Errorf("stats not exported: %+v", got.Stats)
	}
}
