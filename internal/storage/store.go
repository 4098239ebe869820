// Package storage persists flight runs as per-run directories holding
// metadata.json and a telemetry.csv trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"flightdyn/internal/fdm"
	"flightdyn/internal/mathx"
	"flightdyn/internal/scenario"
	"flightdyn/internal/telemetry"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Aircraft  string             `json:"aircraft"`
	Metrics   map[string]float64 `json:"metrics"`
}

var csvHeader = []string{
	"time",
	"east_m", "north_m", "alt_m",
	"ve_mps", "vn_mps", "vu_mps",
	"qx", "qy", "qz", "qw",
	"yaw_deg", "pitch_deg", "roll_deg",
	"elevator", "ailerons", "rudder", "throttle",
}

func (s *Store) Save(scenarioName, aircraft string, dt, duration float64, result *scenario.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenarioName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenarioName,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Aircraft:  aircraft,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "telemetry.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for i := range result.States {
		st := result.States[i]
		var c fdm.Controls
		if i < len(result.Controls) {
			c = result.Controls[i]
		}
		row := []string{
			ff(result.Times[i]),
			ff(st.PositionEnuM.X), ff(st.PositionEnuM.Y), ff(st.PositionEnuM.Z),
			ff(st.VelocityEnuMps.X), ff(st.VelocityEnuMps.Y), ff(st.VelocityEnuMps.Z),
			ff(st.Orientation.X), ff(st.Orientation.Y), ff(st.Orientation.Z), ff(st.Orientation.W),
			ff(mathx.RadToDeg(st.YawRad)), ff(mathx.RadToDeg(st.PitchRad)), ff(mathx.RadToDeg(st.RollRad)),
			ff(c.Elevator), ff(c.Ailerons), ff(c.Rudder), ff(c.Throttle),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSamples reads a run's trajectory back. Angular rates are not stored
// and come back zero.
func (s *Store) LoadSamples(runID string) ([]telemetry.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "telemetry.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []telemetry.Sample{}, nil
	}

	samples := make([]telemetry.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(csvHeader) {
			continue
		}

		vals := make([]float64, len(csvHeader))
		bad := false
		for i := range vals {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				bad = true
				break
			}
			vals[i] = v
		}
		if bad {
			continue
		}

		st := fdm.State{
			PositionEnuM:   mathx.Vec3{X: vals[1], Y: vals[2], Z: vals[3]},
			VelocityEnuMps: mathx.Vec3{X: vals[4], Y: vals[5], Z: vals[6]},
			Orientation:    mathx.Quat{X: vals[7], Y: vals[8], Z: vals[9], W: vals[10]},
			YawRad:         mathx.DegToRad(vals[11]),
			PitchRad:       mathx.DegToRad(vals[12]),
			RollRad:        mathx.DegToRad(vals[13]),
		}
		c := fdm.Controls{Elevator: vals[14], Ailerons: vals[15], Rudder: vals[16], Throttle: vals[17]}
		samples = append(samples, telemetry.Sample{T: vals[0], State: st, Controls: c})
	}

	return samples, nil
}
