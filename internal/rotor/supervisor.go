package rotor

// Commands is the per-tick snapshot of operator commands and safety inputs.
// The command booleans are edge-triggered by the host; InterlocksOK is a
// level.
type Commands struct {
	Start        bool
	Brake        bool
	Stop         bool
	Reset        bool
	InterlocksOK bool
	TargetRPM    float64
	HoldBand     float64 // rpm tolerance around target, default 50
	MinRPM       float64 // rpm floor below which braking completes, default 100
}

const (
	DefaultHoldBand = 50.0
	DefaultMinRPM   = 100.0
)

// DefaultCommands returns an all-clear snapshot with interlocks satisfied
// and the standard hold band and braking floor.
func DefaultCommands(targetRPM float64) Commands {
	return Commands{
		InterlocksOK: true,
		TargetRPM:    targetRPM,
		HoldBand:     DefaultHoldBand,
		MinRPM:       DefaultMinRPM,
	}
}

// NextMode computes the mode for the coming tick. Rules apply in strict
// precedence: an interlock failure forces Fault from any mode, overriding an
// in-flight start or brake command. NextMode is never consulted while the
// mode is Fault; clearing a fault is the session's reset path.
func NextMode(mode Mode, s State, targetRPM float64, cmds Commands) Mode {
	if !cmds.InterlocksOK {
		return Fault
	}

	rpm := RPM(s.Omega)

	if mode == Idle && cmds.Start {
		return Spinup
	}
	if mode == Spinup && rpm >= max(0, targetRPM-cmds.HoldBand) {
		return Hold
	}
	if (mode == Spinup || mode == Hold) && cmds.Brake {
		return Brake
	}
	if mode == Brake && (rpm <= cmds.MinRPM || cmds.Stop) {
		return Idle
	}
	return mode
}
