package rotor

import "math"

// Derivatives evaluates the continuous-time plant model: dθ/dt, dω/dt and
// dTcoil/dt at the given state.
//
// The coil resistance is corrected for temperature using the coil
// temperature at the start of the substep; the resistance-to-heating
// feedback is resolved explicitly rather than with an implicit solve, which
// the small fixed step makes acceptable.
func Derivatives(s State, mode Mode, targetRPM float64, p Params) (dTheta, dOmega, dT float64) {
	iCmd, duty := PulseCommand(s.Theta, s.Omega, mode, targetRPM, p)

	rT := p.R * (1 + p.AlphaR*(s.Tcoil-p.TRef))
	i := clamp(iCmd, -p.IMax, p.IMax)

	// Pulse-averaged drive torque: active only a duty fraction of the time.
	tauDrive := p.Kt * i * duty

	// Parasitic torque: linear eddy and gas drag, quadratic viscous drag,
	// constant mechanical friction opposing motion. sign(0) contributes no
	// friction torque at rest.
	tauPar := (p.Ke+p.Kg)*s.Omega + p.Kv*s.Omega*math.Abs(s.Omega) + sign(s.Omega)*p.CMech

	dOmega = (tauDrive - tauPar) / p.Inertia
	dTheta = s.Omega

	// Pulse-averaged Joule heating against single-node RC cooling to ambient.
	pJoule := i * i * rT * duty
	dT = (pJoule - p.HTh*(s.Tcoil-p.TAmb)) / p.CTh

	return dTheta, dOmega, dT
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
