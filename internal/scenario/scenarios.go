package scenario

import (
	"fmt"
	"sort"

	"flightdyn/internal/aero"
	"flightdyn/internal/fdm"
	"flightdyn/internal/mathx"
)

// Scenario is a complete, reproducible flight setup: aircraft, initial
// state, environment and control program.
type Scenario struct {
	Name        string
	Description string
	Parameters  fdm.Parameters
	Config      fdm.Config
	Initial     fdm.State
	WindEnuMps  mathx.Vec3
	AeroScale   fdm.AeroScale
	Program     Program
	DurationSec float64
	DtSec       float64
}

// NewModel builds a model in the scenario's initial condition.
func (s Scenario) NewModel() *fdm.Model {
	m := fdm.New(s.Parameters, s.Initial, s.Config)
	m.SetWindEnuMps(s.WindEnuMps)
	if s.AeroScale != (fdm.AeroScale{}) {
		m.SetAeroScale(s.AeroScale)
	}
	return m
}

// trimPitchRad is the pitch angle at which scaled lift balances weight in
// level flight at the given airspeed. In level flight pitch equals angle
// of attack, so a linear lift slope inverts directly.
func trimPitchRad(p fdm.Parameters, speedMps, liftScale float64) float64 {
	cl := p.MassKg * fdm.GravityMps2 / (liftScale * aero.DynamicPressure(speedMps) * p.WingAreaM2)
	return cl / p.LiftSlopePerRad
}

// cruiseThrottle is the throttle fraction balancing scaled drag in level
// flight at the given airspeed and trim pitch.
func cruiseThrottle(p fdm.Parameters, speedMps, pitchRad, dragScale float64) float64 {
	cl := p.LiftSlopePerRad * pitchRad
	cd := aero.DragCoefficient(cl, p.ParasiteDragCoeff, p.AspectRatio(), p.OswaldEfficiency)
	d := aero.DragForce(cd, speedMps, p.WingAreaM2) * dragScale
	return mathx.Clamp(d/p.MaxThrustN, 0, 1)
}

// Climb accelerates level under full power for 5 s, pulls the nose up
// hard for 2 s, then holds +20 deg pitch. With the boosted lift the
// aircraft climbs steadily through the hold.
func Climb() Scenario {
	p := fdm.DefaultParameters()
	scale := fdm.AeroScale{Lift: 6, Drag: 0.5}
	speed := 30.0
	trim := trimPitchRad(p, speed, scale.Lift)

	return Scenario{
		Name:        "climb",
		Description: "full-power acceleration, nose-up pulse, 20 deg pitch hold",
		Parameters:  p,
		Config:      fdm.DefaultConfig(),
		Initial:     fdm.LevelState(mathx.Vec3{Z: 500}, speed, 0, trim),
		AeroScale:   scale,
		Program: Sequence{
			{Until: 5, Program: PitchHold{TargetPitchRad: trim, Gain: 4, Throttle: 1}},
			{Until: 7, Program: Steady{C: fdm.Controls{Elevator: -1, Throttle: 1}}},
			{Until: 13, Program: PitchHold{TargetPitchRad: mathx.DegToRad(20), Gain: 4, Throttle: 1}},
		},
		DurationSec: 13,
		DtSec:       0.02,
	}
}

// Stall climbs under moderate power for 3 s, then cuts the throttle to
// near idle and levels the nose. The heavy drag bleeds airspeed below
// what level lift can support and the aircraft sinks away.
func Stall() Scenario {
	p := fdm.DefaultParameters()
	scale := fdm.AeroScale{Lift: 1.2, Drag: 3}

	return Scenario{
		Name:        "stall",
		Description: "powered climb, throttle cut, speed decay and sink",
		Parameters:  p,
		Config:      fdm.DefaultConfig(),
		Initial:     fdm.LevelState(mathx.Vec3{Z: 600}, 35, 0, mathx.DegToRad(8)),
		AeroScale:   scale,
		Program: Sequence{
			{Until: 3, Program: PitchHold{TargetPitchRad: mathx.DegToRad(8), Gain: 3, Throttle: 0.55}},
			{Until: 8, Program: PitchHold{TargetPitchRad: 0, Gain: 3, Throttle: 0.03}},
		},
		DurationSec: 8,
		DtSec:       0.02,
	}
}

// CoordinatedTurn trims for level cruise, banks gently left with a small
// aileron deflection for 6 s, then neutralizes and lets the coordination
// term carry the turn.
func CoordinatedTurn() Scenario {
	p := fdm.DefaultParameters()
	speed := 50.0
	trim := trimPitchRad(p, speed, 1)
	throttle := cruiseThrottle(p, speed, trim, 1)

	return Scenario{
		Name:        "turn",
		Description: "gentle left bank held 6 s, then coordinated roll-out",
		Parameters:  p,
		Config:      fdm.DefaultConfig(),
		Initial:     fdm.LevelState(mathx.Vec3{Z: 800}, speed, 0, trim),
		Program: Sequence{
			{Until: 6, Program: Steady{C: fdm.Controls{Ailerons: 0.06, Throttle: throttle}}},
			{Until: 12, Program: Steady{C: fdm.Controls{Throttle: throttle}}},
		},
		DurationSec: 12,
		DtSec:       0.02,
	}
}

var builtins = map[string]func() Scenario{
	"climb": Climb,
	"stall": Stall,
	"turn":  CoordinatedTurn,
}

// Names lists the built-in scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named built-in scenario.
func Get(name string) (Scenario, error) {
	build, ok := builtins[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario %q (available: %v)", name, Names())
	}
	return build(), nil
}
