package rotor

import "fmt"

// Params describes the physical plant. A Params value is built once per
// configuration and passed by value through the step batch; nothing in this
// package mutates it, so a session's physics cannot drift mid-run from host
// edits.
type Params struct {
	Inertia     float64 // rotor inertia [kg·m²]
	Kt          float64 // torque constant [N·m/A]
	R           float64 // coil resistance at TRef [Ω]
	AlphaR      float64 // resistance tempco [1/K]
	TRef        float64 // reference coil temperature [K]
	CTh         float64 // coil thermal capacity [J/K]
	HTh         float64 // thermal loss coefficient to ambient [W/K]
	TAmb        float64 // ambient temperature [K]
	Ke          float64 // eddy drag coefficient, tau = Ke·ω [N·m·s]
	Kg          float64 // gas drag coefficient, tau = Kg·ω [N·m·s]
	Kv          float64 // viscous drag coefficient, tau = Kv·ω² [N·m·s²]
	CMech       float64 // speed-independent friction torque [N·m]
	RPMLimit    float64 // overspeed fault threshold [rpm]
	TLimit      float64 // overtemperature fault threshold [K]
	IMax        float64 // driver current limit [A]
	DutyMax     float64 // max fractional on-time per revolution (0..1)
	PulsesPerRev int    // drive windows per revolution (>= 1)
}

// DefaultParams returns the small lab rotor the original rig was tuned
// around: 20 g·m² inertia, copper coil with a 70 K thermal margin, light
// eddy and gas drag, one drive pulse per revolution.
func DefaultParams() Params {
	return Params{
		Inertia:      0.02,
		Kt:           0.05,
		R:            2.0,
		AlphaR:       0.0039,
		TRef:         293.15,
		CTh:          200.0,
		HTh:          0.8,
		TAmb:         293.15,
		Ke:           1e-4,
		Kg:           5e-5,
		Kv:           0.0,
		CMech:        0.0,
		RPMLimit:     12000,
		TLimit:       363.15,
		IMax:         5.0,
		DutyMax:      0.02,
		PulsesPerRev: 1,
	}
}

// Validate reports the first invalid field. All magnitude parameters must be
// non-negative and at least one drive window per revolution must exist.
func (p Params) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"inertia", p.Inertia},
		{"kt", p.Kt},
		{"r", p.R},
		{"t_ref", p.TRef},
		{"c_th", p.CTh},
		{"h_th", p.HTh},
		{"t_amb", p.TAmb},
		{"ke", p.Ke},
		{"kg", p.Kg},
		{"kv", p.Kv},
		{"c_mech", p.CMech},
		{"rpm_limit", p.RPMLimit},
		{"t_limit", p.TLimit},
		{"i_max", p.IMax},
		{"duty_max", p.DutyMax},
	}
	for _, c := range checks {
		if c.val < 0 {
			return fmt.Errorf("rotor: %s must be non-negative, got %g", c.name, c.val)
		}
	}
	if p.DutyMax > 1 {
		return fmt.Errorf("rotor: duty_max must be at most 1, got %g", p.DutyMax)
	}
	if p.PulsesPerRev < 1 {
		return fmt.Errorf("rotor: pulses_per_rev must be at least 1, got %d", p.PulsesPerRev)
	}
	return nil
}
