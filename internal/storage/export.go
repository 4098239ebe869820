package storage

import (
	"encoding/json"
	"io"
	"os"

	"flightdyn/internal/mathx"
	"flightdyn/internal/scenario"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Aircraft string             `json:"aircraft"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	States   []ExportState      `json:"states"`
	Controls []ExportControls   `json:"controls"`
	Metrics  map[string]float64 `json:"metrics"`
}

type ExportState struct {
	PositionEnuM [3]float64 `json:"position_enu_m"`
	VelocityMps  [3]float64 `json:"velocity_enu_mps"`
	Quat         [4]float64 `json:"orientation_xyzw"`
	YawDeg       float64    `json:"yaw_deg"`
	PitchDeg     float64    `json:"pitch_deg"`
	RollDeg      float64    `json:"roll_deg"`
}

type ExportControls struct {
	Elevator float64 `json:"elevator"`
	Ailerons float64 `json:"ailerons"`
	Rudder   float64 `json:"rudder"`
	Throttle float64 `json:"throttle"`
}

func exportData(scenarioName, aircraft string, dt, duration float64, result *scenario.Result) ExportData {
	data := ExportData{
		Scenario: scenarioName,
		Aircraft: aircraft,
		Dt:       dt,
		Duration: duration,
		Steps:    len(result.Times),
		Times:    result.Times,
		States:   make([]ExportState, len(result.States)),
		Controls: make([]ExportControls, len(result.Controls)),
		Metrics:  result.Metrics,
	}

	for i, st := range result.States {
		data.States[i] = ExportState{
			PositionEnuM: [3]float64{st.PositionEnuM.X, st.PositionEnuM.Y, st.PositionEnuM.Z},
			VelocityMps:  [3]float64{st.VelocityEnuMps.X, st.VelocityEnuMps.Y, st.VelocityEnuMps.Z},
			Quat:         [4]float64{st.Orientation.X, st.Orientation.Y, st.Orientation.Z, st.Orientation.W},
			YawDeg:       mathx.RadToDeg(st.YawRad),
			PitchDeg:     mathx.RadToDeg(st.PitchRad),
			RollDeg:      mathx.RadToDeg(st.RollRad),
		}
	}
	for i, c := range result.Controls {
		data.Controls[i] = ExportControls{
			Elevator: c.Elevator, Ailerons: c.Ailerons, Rudder: c.Rudder, Throttle: c.Throttle,
		}
	}
	return data
}

func writeJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path, scenarioName, aircraft string, dt, duration float64, result *scenario.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, exportData(scenarioName, aircraft, dt, duration, result))
}

func ExportJSONStdout(scenarioName, aircraft string, dt, duration float64, result *scenario.Result) error {
	return writeJSON(os.Stdout, exportData(scenarioName, aircraft, dt, duration, result))
}
