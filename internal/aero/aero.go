// Package aero provides the simplified aerodynamic coefficient and force
// model: a linear lift curve saturating at stall, parasite plus induced
// drag, and a crude sideslip-opposing fin force. All functions are pure and
// operate on scalar inputs; zero airspeed yields zero force.
package aero

import "math"

// SeaLevelDensity is the constant air density (kg/m³) used throughout.
// Density variation with altitude is out of scope.
const SeaLevelDensity = 1.225

// LiftCoefficient is linear in the angle of attack up to the stall bound;
// beyond it the coefficient saturates at the boundary value rather than
// dropping off. Not a true post-stall model.
func LiftCoefficient(alphaRad, slopePerRad, stallAlphaRad float64) float64 {
	if alphaRad > stallAlphaRad {
		alphaRad = stallAlphaRad
	} else if alphaRad < -stallAlphaRad {
		alphaRad = -stallAlphaRad
	}
	return slopePerRad * alphaRad
}

// InducedDragFactor returns k in Cd = Cd0 + k*Cl².
func InducedDragFactor(aspectRatio, oswaldEfficiency float64) float64 {
	return 1.0 / (math.Pi * aspectRatio * oswaldEfficiency)
}

// DragCoefficient combines parasite and lift-induced drag.
func DragCoefficient(cl, parasiteCd, aspectRatio, oswaldEfficiency float64) float64 {
	return parasiteCd + InducedDragFactor(aspectRatio, oswaldEfficiency)*cl*cl
}

// DynamicPressure is 0.5*ρ*V².
func DynamicPressure(airspeed float64) float64 {
	return 0.5 * SeaLevelDensity * airspeed * airspeed
}

// LiftForce returns the lift magnitude in newtons.
func LiftForce(cl, airspeed, wingAreaM2 float64) float64 {
	if airspeed <= 0 {
		return 0
	}
	return cl * DynamicPressure(airspeed) * wingAreaM2
}

// DragForce returns the drag magnitude in newtons.
func DragForce(cd, airspeed, wingAreaM2 float64) float64 {
	if airspeed <= 0 {
		return 0
	}
	return cd * DynamicPressure(airspeed) * wingAreaM2
}

// SideForce returns the body-lateral fin/fuselage force opposing sideslip.
// Positive sideslip (airflow from the right) produces a negative (leftward)
// force.
func SideForce(betaRad, airspeed, wingAreaM2, coeffPerRad float64) float64 {
	if airspeed <= 0 {
		return 0
	}
	return -coeffPerRad * betaRad * DynamicPressure(airspeed) * wingAreaM2
}
