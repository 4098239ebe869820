package storage

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"flightdyn/internal/fdm"
	"flightdyn/internal/mathx"
	"flightdyn/internal/scenario"
)

func sampleResult() *scenario.Result {
	return &scenario.Result{
		Times: []float64{0, 0.02},
		States: []fdm.State{
			{
				PositionEnuM:   mathx.Vec3{Z: 500},
				VelocityEnuMps: mathx.Vec3{X: 40},
				Orientation:    mathx.IdentityQuat(),
			},
			{
				PositionEnuM:   mathx.Vec3{X: 0.8, Z: 499.9},
				VelocityEnuMps: mathx.Vec3{X: 40, Z: -0.2},
				Orientation:    mathx.IdentityQuat(),
				YawRad:         0.01,
			},
		},
		Controls: []fdm.Controls{
			{},
			{Throttle: 0.5, Elevator: -0.1},
		},
		Metrics: map[string]float64{"peak_speed_mps": 40.0},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("climb", "trainer", 0.02, 13, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "climb" {
		t.Errorf("expected scenario climb, got %s", meta.Scenario)
	}
	if meta.Aircraft != "trainer" {
		t.Errorf("expected aircraft trainer, got %s", meta.Aircraft)
	}
	if meta.Metrics["peak_speed_mps"] != 40.0 {
		t.Errorf("expected peak speed 40, got %f", meta.Metrics["peak_speed_mps"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if math.Abs(samples[0].State.PositionEnuM.Z-500) > 1e-6 {
		t.Errorf("altitude should round-trip, got %f", samples[0].State.PositionEnuM.Z)
	}
	if math.Abs(samples[1].Controls.Throttle-0.5) > 1e-6 {
		t.Errorf("controls should round-trip, got %f", samples[1].Controls.Throttle)
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

	if _, err := st.Save("stall", "trainer", 0.02, 8, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("turn", "sport", 0.02, 12, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "telemetry.csv")); os.IsNotExist(err) {
		t.Error("telemetry.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	if err := ExportJSON(path, "climb", "trainer", 0.02, 13, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("export should be valid JSON: %v", err)
	}
	if data.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", data.Steps)
	}
	if data.States[0].PositionEnuM[2] != 500 {
		t.Errorf("altitude should export, got %f", data.States[0].PositionEnuM[2])
	}
}
