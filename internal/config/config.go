package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"flightdyn/internal/fdm"
	"flightdyn/internal/mathx"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 30.0
	DefaultAltitude = 500.0
	DefaultSpeed    = 40.0
)

type Config struct {
	Scenario  string          `yaml:"scenario"`
	Dt        float64         `yaml:"dt"`
	Duration  float64         `yaml:"duration"`
	Aircraft  AircraftConfig  `yaml:"aircraft"`
	Handling  HandlingConfig  `yaml:"handling"`
	InitState InitStateConfig `yaml:"init_state"`
	Wind      WindConfig      `yaml:"wind"`
}

type AircraftConfig struct {
	MassKg           float64 `yaml:"mass_kg"`
	WingAreaM2       float64 `yaml:"wing_area_m2"`
	WingSpanM        float64 `yaml:"wing_span_m"`
	MaxThrustN       float64 `yaml:"max_thrust_n"`
	ParasiteDrag     float64 `yaml:"parasite_drag"`
	LiftSlopePerRad  float64 `yaml:"lift_slope_per_rad"`
	OswaldEfficiency float64 `yaml:"oswald_efficiency"`
}

type HandlingConfig struct {
	MaxRollRate          float64 `yaml:"max_roll_rate"`
	MaxPitchRate         float64 `yaml:"max_pitch_rate"`
	MaxYawRate           float64 `yaml:"max_yaw_rate"`
	RollGain             float64 `yaml:"roll_gain"`
	PitchGain            float64 `yaml:"pitch_gain"`
	YawGain              float64 `yaml:"yaw_gain"`
	StallAlphaDeg        float64 `yaml:"stall_alpha_deg"`
	TurnCoordinationGain float64 `yaml:"turn_coordination_gain"`
	SideforceCoeff       float64 `yaml:"sideforce_coeff"`
}

type InitStateConfig struct {
	AltitudeM  float64 `yaml:"altitude_m"`
	SpeedMps   float64 `yaml:"speed_mps"`
	HeadingDeg float64 `yaml:"heading_deg"`
	PitchDeg   float64 `yaml:"pitch_deg"`
}

type WindConfig struct {
	EastMps  float64 `yaml:"east_mps"`
	NorthMps float64 `yaml:"north_mps"`
	UpMps    float64 `yaml:"up_mps"`
}

func DefaultConfig() *Config {
	p := fdm.DefaultParameters()
	h := fdm.DefaultConfig()
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Aircraft: AircraftConfig{
			MassKg:           p.MassKg,
			WingAreaM2:       p.WingAreaM2,
			WingSpanM:        p.WingSpanM,
			MaxThrustN:       p.MaxThrustN,
			ParasiteDrag:     p.ParasiteDragCoeff,
			LiftSlopePerRad:  p.LiftSlopePerRad,
			OswaldEfficiency: p.OswaldEfficiency,
		},
		Handling: HandlingConfig{
			MaxRollRate:          h.MaxRollRate,
			MaxPitchRate:         h.MaxPitchRate,
			MaxYawRate:           h.MaxYawRate,
			RollGain:             h.RollGain,
			PitchGain:            h.PitchGain,
			YawGain:              h.YawGain,
			StallAlphaDeg:        mathx.RadToDeg(h.StallAlphaRad),
			TurnCoordinationGain: h.TurnCoordinationGain,
			SideforceCoeff:       h.SideforceCoeffPerRad,
		},
		InitState: InitStateConfig{
			AltitudeM: DefaultAltitude,
			SpeedMps:  DefaultSpeed,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Parameters() fdm.Parameters {
	return fdm.Parameters{
		MassKg:            c.Aircraft.MassKg,
		WingAreaM2:        c.Aircraft.WingAreaM2,
		WingSpanM:         c.Aircraft.WingSpanM,
		MaxThrustN:        c.Aircraft.MaxThrustN,
		ParasiteDragCoeff: c.Aircraft.ParasiteDrag,
		LiftSlopePerRad:   c.Aircraft.LiftSlopePerRad,
		OswaldEfficiency:  c.Aircraft.OswaldEfficiency,
	}
}

func (c *Config) FlightConfig() fdm.Config {
	return fdm.Config{
		MaxRollRate:          c.Handling.MaxRollRate,
		MaxPitchRate:         c.Handling.MaxPitchRate,
		MaxYawRate:           c.Handling.MaxYawRate,
		RollGain:             c.Handling.RollGain,
		PitchGain:            c.Handling.PitchGain,
		YawGain:              c.Handling.YawGain,
		StallAlphaRad:        mathx.DegToRad(c.Handling.StallAlphaDeg),
		TurnCoordinationGain: c.Handling.TurnCoordinationGain,
		SideforceCoeffPerRad: c.Handling.SideforceCoeff,
	}
}

func (c *Config) InitialState() fdm.State {
	return fdm.LevelState(
		mathx.Vec3{Z: c.InitState.AltitudeM},
		c.InitState.SpeedMps,
		mathx.DegToRad(c.InitState.HeadingDeg),
		mathx.DegToRad(c.InitState.PitchDeg),
	)
}

func (c *Config) WindVector() mathx.Vec3 {
	return mathx.Vec3{X: c.Wind.EastMps, Y: c.Wind.NorthMps, Z: c.Wind.UpMps}
}
