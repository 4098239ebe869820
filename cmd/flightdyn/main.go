package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"flightdyn/internal/config"
	"flightdyn/internal/export"
	"flightdyn/internal/fdm"
	"flightdyn/internal/mathx"
	"flightdyn/internal/scenario"
	"flightdyn/internal/storage"
	"flightdyn/internal/telemetry"
	"flightdyn/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	altitude   float64
	speed      float64
	heading    float64
	pitch      float64
	windEast   float64
	windNorth  float64
	windUp     float64
	elevator   float64
	ailerons   float64
	rudder     float64
	throttle   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flightdyn",
		Short: "six degree of freedom flight dynamics simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flightdyn", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario, or a free flight with fixed controls",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFlight,
	}
	addFlightFlags(runCmd)
	runCmd.Flags().Float64Var(&elevator, "elevator", 0, "fixed elevator deflection [-1,1]")
	runCmd.Flags().Float64Var(&ailerons, "ailerons", 0, "fixed aileron deflection [-1,1]")
	runCmd.Flags().Float64Var(&rudder, "rudder", 0, "fixed rudder deflection [-1,1]")
	runCmd.Flags().Float64Var(&throttle, "throttle", 0.5, "fixed throttle [0,1]")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run telemetry to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run telemetry to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export ground track and altitude profile as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly interactively in the terminal",
		RunE:  runLive,
	}
	addFlightFlags(liveCmd)

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range scenario.Names() {
				s, err := scenario.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", name, s.Description)
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list aircraft presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMASS\tWING AREA\tSPAN\tTHRUST")
			for _, name := range config.ListPresets() {
				a, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.0f kg\t%.1f m2\t%.1f m\t%.0f N\n",
					name, a.MassKg, a.WingAreaM2, a.WingSpanM, a.MaxThrustN)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, liveCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFlightFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&altitude, "altitude", config.DefaultAltitude, "initial altitude (m)")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "initial airspeed (m/s)")
	cmd.Flags().Float64Var(&heading, "heading", 0, "initial heading (deg, 0=east 90=north)")
	cmd.Flags().Float64Var(&pitch, "pitch", 0, "initial pitch (deg)")
	cmd.Flags().Float64Var(&windEast, "wind-east", 0, "wind east component (m/s)")
	cmd.Flags().Float64Var(&windNorth, "wind-north", 0, "wind north component (m/s)")
	cmd.Flags().Float64Var(&windUp, "wind-up", 0, "wind vertical component (m/s)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "aircraft preset")
}

// resolveConfig layers preset, config file and flags in that order: the
// preset replaces the aircraft block, the config file fills anything the
// flags did not set, and changed flags always win.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		aircraft, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Aircraft = aircraft
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("altitude") {
		cfg.InitState.AltitudeM = altitude
	}
	if cmd.Flags().Changed("speed") {
		cfg.InitState.SpeedMps = speed
	}
	if cmd.Flags().Changed("heading") {
		cfg.InitState.HeadingDeg = heading
	}
	if cmd.Flags().Changed("pitch") {
		cfg.InitState.PitchDeg = pitch
	}
	if cmd.Flags().Changed("wind-east") {
		cfg.Wind.EastMps = windEast
	}
	if cmd.Flags().Changed("wind-north") {
		cfg.Wind.NorthMps = windNorth
	}
	if cmd.Flags().Changed("wind-up") {
		cfg.Wind.UpMps = windUp
	}

	return cfg, nil
}

func runFlight(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var s scenario.Scenario
	name := "free"
	if len(args) == 1 {
		name = args[0]
	} else if cfg.Scenario != "" {
		name = cfg.Scenario
	}

	if name == "free" {
		s = scenario.Scenario{
			Name:        "free",
			Parameters:  cfg.Parameters(),
			Config:      cfg.FlightConfig(),
			Initial:     cfg.InitialState(),
			WindEnuMps:  cfg.WindVector(),
			Program:     scenario.Steady{C: clampedControls()},
			DurationSec: cfg.Duration,
			DtSec:       cfg.Dt,
		}
	} else {
		s, err = scenario.Get(name)
		if err != nil {
			return err
		}
		if preset != "" {
			s.Parameters = cfg.Parameters()
		}
		if cmd.Flags().Changed("dt") {
			s.DtSec = cfg.Dt
		}
		if cmd.Flags().Changed("time") {
			s.DurationSec = cfg.Duration
		}
		s.WindEnuMps = cfg.WindVector()
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s flight...\n", s.Name)
	start := time.Now()

	result, err := scenario.Run(context.Background(), s, telemetry.DefaultMetrics())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	aircraft := preset
	if aircraft == "" {
		aircraft = "trainer"
	}
	runID, err := st.Save(s.Name, aircraft, s.DtSec, s.DurationSec, result)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.States))
	fmt.Printf("final altitude: %.1f m\n", final.PositionEnuM.Z)
	fmt.Printf("final speed: %.1f m/s\n", final.VelocityEnuMps.Norm())
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func clampedControls() (c fdm.Controls) {
	c.Elevator = mathx.Clamp(elevator, -1, 1)
	c.Ailerons = mathx.Clamp(ailerons, -1, 1)
	c.Rudder = mathx.Clamp(rudder, -1, 1)
	c.Throttle = mathx.Clamp(throttle, 0, 1)
	return c
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tAIRCRAFT\tTIME\tDURATION\tDT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\n",
			run.ID,
			run.Scenario,
			run.Aircraft,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(samples))

	channels := []struct {
		caption string
		extract func(telemetry.Sample) float64
	}{
		{"altitude (m)", telemetry.AltitudeM},
		{"speed (m/s)", telemetry.SpeedMps},
		{"pitch (deg)", telemetry.PitchDeg},
		{"roll (deg)", func(s telemetry.Sample) float64 { return mathx.RadToDeg(s.State.RollRad) }},
		{"heading (deg)", func(s telemetry.Sample) float64 { return mathx.RadToDeg(s.State.YawRad) }},
		{"throttle", func(s telemetry.Sample) float64 { return s.Controls.Throttle }},
	}

	for _, ch := range channels {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ch.extract(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ch.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "east_m", "north_m", "alt_m", "speed_mps", "yaw_deg", "pitch_deg", "roll_deg", "throttle"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.T, 'f', 6, 64),
			strconv.FormatFloat(s.State.PositionEnuM.X, 'f', 6, 64),
			strconv.FormatFloat(s.State.PositionEnuM.Y, 'f', 6, 64),
			strconv.FormatFloat(s.State.PositionEnuM.Z, 'f', 6, 64),
			strconv.FormatFloat(s.State.VelocityEnuMps.Norm(), 'f', 6, 64),
			strconv.FormatFloat(mathx.RadToDeg(s.State.YawRad), 'f', 6, 64),
			strconv.FormatFloat(mathx.RadToDeg(s.State.PitchRad), 'f', 6, 64),
			strconv.FormatFloat(mathx.RadToDeg(s.State.RollRad), 'f', 6, 64),
			strconv.FormatFloat(s.Controls.Throttle, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	result := &scenario.Result{Metrics: meta.Metrics}
	for _, s := range samples {
		result.Times = append(result.Times, s.T)
		result.States = append(result.States, s.State)
		result.Controls = append(result.Controls, s.Controls)
	}

	return storage.ExportJSONStdout(meta.Scenario, meta.Aircraft, meta.Dt, meta.Duration, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("not enough data to draw")
	}

	trackPath := runID + "_track.svg"
	if err := os.WriteFile(trackPath, []byte(export.GroundTrackSVG(samples, 600, 450)), 0644); err != nil {
		return err
	}
	altPath := runID + "_altitude.svg"
	if err := os.WriteFile(altPath, []byte(export.AltitudeProfileSVG(samples, 600, 300)), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", trackPath)
	fmt.Printf("wrote %s\n", altPath)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	f := viz.NewFlight(cfg.Parameters(), cfg.FlightConfig(), cfg.InitialState(), cfg.WindVector())
	p := tea.NewProgram(f)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
