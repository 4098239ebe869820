package config

// Aircraft presets. Each preset replaces the aircraft block of a config;
// timing, initial state and wind stay whatever the caller set.
var Presets = map[string]AircraftConfig{
	"trainer": {
		MassKg:           1100,
		WingAreaM2:       16.2,
		WingSpanM:        11,
		MaxThrustN:       13000,
		ParasiteDrag:     0.028,
		LiftSlopePerRad:  5.5,
		OswaldEfficiency: 0.8,
	},
	"sport": {
		MassKg:           900,
		WingAreaM2:       12.5,
		WingSpanM:        9,
		MaxThrustN:       18000,
		ParasiteDrag:     0.024,
		LiftSlopePerRad:  5.2,
		OswaldEfficiency: 0.78,
	},
	"glider": {
		MassKg:           450,
		WingAreaM2:       14,
		WingSpanM:        18,
		MaxThrustN:       900,
		ParasiteDrag:     0.012,
		LiftSlopePerRad:  6.0,
		OswaldEfficiency: 0.92,
	},
}

func GetPreset(name string) (AircraftConfig, bool) {
	a, ok := Presets[name]
	return a, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
