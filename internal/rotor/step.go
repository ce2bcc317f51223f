package rotor

import "math"

// Step advances the state by one forward-Euler substep of length dt, then
// evaluates the fault conditions. The angle is wrapped with a true modulo so
// it stays in [0, 2π). The returned mode is Fault if the substep crossed the
// overspeed or overtemperature limit or produced a non-finite velocity;
// otherwise the input mode passes through unchanged.
func Step(s State, mode Mode, targetRPM float64, p Params, dt float64) (State, Mode) {
	dTheta, dOmega, dT := Derivatives(s, mode, targetRPM, p)

	s.Theta = wrapAngle(s.Theta + dTheta*dt)
	s.Omega += dOmega * dt
	s.Tcoil += dT * dt
	s.T += dt

	if RPM(s.Omega) > p.RPMLimit || s.Tcoil > p.TLimit || math.IsNaN(s.Omega) || math.IsInf(s.Omega, 0) {
		return s, Fault
	}
	return s, mode
}

// wrapAngle reduces an angle to [0, 2π). math.Mod keeps the sign of the
// dividend, so a negative result needs one more turn added.
func wrapAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
