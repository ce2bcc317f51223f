package rotor

import "math"

// RPM converts angular velocity in rad/s to revolutions per minute.
func RPM(omega float64) float64 {
	return omega * 60 / (2 * math.Pi)
}

// OmegaFromRPM converts revolutions per minute to rad/s.
func OmegaFromRPM(rpm float64) float64 {
	return rpm * 2 * math.Pi / 60
}

// Losses is the loss-power breakdown at a given speed, for display and for
// the advisory panel.
type Losses struct {
	EddyGas float64 // (Ke+Kg)·ω² [W]
	Viscous float64 // Kv·|ω³| [W]
	Mech    float64 // |sign(ω)·CMech·ω| [W]
}

// Total is the summed parasitic loss power.
func (l Losses) Total() float64 {
	return l.EddyGas + l.Viscous + l.Mech
}

// LossPowers computes the parasitic loss powers at angular velocity omega.
func LossPowers(omega float64, p Params) Losses {
	return Losses{
		EddyGas: (p.Ke + p.Kg) * omega * omega,
		Viscous: p.Kv * math.Abs(omega*omega*omega),
		Mech:    math.Abs(sign(omega) * p.CMech * omega),
	}
}

// LossTorque is the parasitic torque magnitude at angular velocity omega,
// used by the advisor to judge whether a target speed can be held.
func LossTorque(omega float64, p Params) float64 {
	s := sign(omega)
	if s == 0 {
		s = 1
	}
	return (p.Ke+p.Kg)*omega + p.Kv*omega*math.Abs(omega) + s*p.CMech
}
