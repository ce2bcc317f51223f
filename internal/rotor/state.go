package rotor

import "math"

// State is the mutable simulation state. It is advanced exclusively by Step;
// a fault reset replaces it wholesale with NewState.
type State struct {
	Theta float64 // rotor angle [rad], always in [0, 2π)
	Omega float64 // angular velocity [rad/s], signed
	Tcoil float64 // coil temperature [K]
	T     float64 // elapsed simulation time [s]
}

// NewState returns the rest state: zero angle and velocity, coil at ambient,
// clock at zero.
func NewState(p Params) State {
	return State{Tcoil: p.TAmb}
}

// IsValid reports whether every state component is finite.
func (s State) IsValid() bool {
	for _, v := range []float64{s.Theta, s.Omega, s.Tcoil, s.T} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
