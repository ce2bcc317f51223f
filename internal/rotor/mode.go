package rotor

// Mode is the operating state of the drive.
//
// Fault is latched: once entered it is left only through the session's reset
// path (explicit reset command with interlocks restored), never through
// NextMode.
type Mode int

const (
	Idle Mode = iota
	Spinup
	Hold
	Brake
	Fault
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "IDLE"
	case Spinup:
		return "SPINUP"
	case Hold:
		return "HOLD"
	case Brake:
		return "BRAKE"
	case Fault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}
