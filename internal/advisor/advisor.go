// Package advisor estimates feasibility of a configuration and target speed
// from static first-order formulas: available average torque, loss torque at
// target, naive spin-up time, and the thermal equilibrium of the coil at max
// drive. It consumes the plant parameters and current state the core exposes
// and never touches the simulation itself.
package advisor

import (
	"fmt"
	"math"

	"github.com/san-kum/magspin/internal/rotor"
)

// Report is the advisory evaluation for one (params, state, target) triple.
type Report struct {
	TauMax        float64 // max average drive torque Kt·IMax·DutyMax [N·m]
	Alpha0        float64 // spin-up acceleration at max torque [rad/s²]
	OmegaNow      float64 // [rad/s]
	OmegaTarget   float64 // [rad/s]
	TauLossTarget float64 // parasitic torque at the target speed [N·m]
	TimeToTarget  float64 // naive time to target ignoring losses [s]; +Inf if unreachable
	TEq           float64 // steady-state coil temperature at max drive [K]; +Inf without cooling
	TimeToTLimit  float64 // first-order RC time until TLimit [s]; 0 when not applicable
	ThermalBreach bool    // TEq exceeds TLimit
	Overspeed     bool    // target within 10% of the rpm limit
}

// Evaluate computes the advisory report. omegaNow and tcoilNow are the
// current rotor speed and coil temperature.
func Evaluate(p rotor.Params, omegaNow, tcoilNow, targetRPM float64) Report {
	r := Report{
		TauMax:      p.Kt * p.IMax * p.DutyMax,
		OmegaNow:    omegaNow,
		OmegaTarget: rotor.OmegaFromRPM(targetRPM),
	}
	r.Alpha0 = r.TauMax / math.Max(p.Inertia, 1e-12)
	r.TauLossTarget = rotor.LossTorque(r.OmegaTarget, p)

	r.TimeToTarget = math.Inf(1)
	if r.Alpha0 > 1e-9 && r.OmegaTarget > omegaNow {
		r.TimeToTarget = (r.OmegaTarget - omegaNow) / r.Alpha0
	}

	// Steady-state coil temperature at max drive, with resistance evaluated
	// at the current temperature.
	rT := p.R * (1 + p.AlphaR*(tcoilNow-p.TRef))
	pJoule := p.IMax * p.IMax * rT * p.DutyMax
	if p.HTh > 1e-9 {
		r.TEq = p.TAmb + pJoule/p.HTh
	} else {
		r.TEq = math.Inf(1)
	}

	r.ThermalBreach = r.TEq > p.TLimit
	if r.ThermalBreach && p.HTh > 1e-9 && tcoilNow < p.TLimit {
		// T(t) = TEq + (T0-TEq)·exp(-t/tau); solve T(t) = TLimit.
		tauTh := p.CTh / p.HTh
		ratio := (p.TLimit - r.TEq) / (tcoilNow - r.TEq)
		if ratio > 0 {
			r.TimeToTLimit = -tauTh * math.Log(ratio)
		}
	}

	r.Overspeed = targetRPM > 0.9*p.RPMLimit
	return r
}

// Messages renders the operator-facing advisory lines.
func (r Report) Messages() []string {
	msgs := []string{fmt.Sprintf("tau_max≈%.3g N·m, alpha≈%.3g rad/s², omega_now≈%.3g rad/s",
		r.TauMax, r.Alpha0, r.OmegaNow)}

	if r.TauMax <= 0 {
		msgs = append(msgs, "max drive torque is zero: increase Kt, i_max, or duty")
	} else {
		if r.TauMax < r.TauLossTarget {
			msgs = append(msgs, "max torque is below loss torque at target: the target rpm cannot be reached or held")
		}
		switch {
		case !math.IsInf(r.TimeToTarget, 1) && r.TimeToTarget > 300:
			msgs = append(msgs, fmt.Sprintf("very slow spin-up: est. %.0f s to target (ignoring losses)", r.TimeToTarget))
		case !math.IsInf(r.TimeToTarget, 1) && r.TimeToTarget > 60:
			msgs = append(msgs, fmt.Sprintf("slow spin-up: est. %.0f s to target (ignoring losses)", r.TimeToTarget))
		case math.IsInf(r.TimeToTarget, 1):
			msgs = append(msgs, "cannot estimate time to target (target at or below current speed, or accel ~ 0)")
		}
	}

	if r.ThermalBreach {
		if r.TimeToTLimit > 0 {
			msgs = append(msgs, fmt.Sprintf("thermal limit breach at max drive: Teq≈%.1f K, time to T_limit ≈ %.0f s", r.TEq, r.TimeToTLimit))
		} else {
			msgs = append(msgs, fmt.Sprintf("thermal limit breach at max drive: Teq≈%.1f K", r.TEq))
		}
	} else {
		msgs = append(msgs, fmt.Sprintf("thermal ok at max drive (Teq≈%.1f K)", r.TEq))
	}

	if r.Overspeed {
		msgs = append(msgs, "target rpm is within 10% of the rpm limit")
	}

	return msgs
}
