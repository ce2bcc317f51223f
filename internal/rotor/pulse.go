package rotor

import "math"

// Drive gains and thresholds for the pulsed control law.
const (
	spinupGain = 0.01 // A per rpm of speed error
	holdGain   = 0.02 // A per rpm of speed error, tighter hold regulation
	brakeGain  = 0.02 // A per rpm of current speed, reverse drive

	// Below this speed the rotor counts as stopped and the command window is
	// forced open so a resting rotor parked outside every window still gets
	// its first kick.
	omegaRest = 1e-3 // rad/s

	// Fraction of the sector width on each side of the sector midpoint that
	// the command window spans.
	windowFrac = 0.10

	// Duty floor applied during spin-up from rest, capped by DutyMax.
	restKickDuty = 0.02
)

// PulseCommand computes the commanded coil current and duty cycle for one
// evaluation of the control law. The rotor is divided into PulsesPerRev
// equal angular sectors; current is commanded only inside a window centered
// on each sector midpoint, modeling a pulsed rather than continuously
// energized driver.
func PulseCommand(theta, omega float64, mode Mode, targetRPM float64, p Params) (iCmd, duty float64) {
	rpm := RPM(omega)

	forceWindow := math.Abs(omega) < omegaRest

	sector := 2 * math.Pi / float64(p.PulsesPerRev)
	thInSector := math.Mod(theta, sector)
	center := 0.5 * sector
	windowHalf := windowFrac * sector
	inWindow := math.Abs(thInSector-center) < windowHalf || forceWindow

	if inWindow {
		switch mode {
		case Spinup:
			iCmd = clamp(spinupGain*(targetRPM-rpm), 0, p.IMax)
		case Hold:
			iCmd = clamp(holdGain*(targetRPM-rpm), 0, p.IMax)
		case Brake:
			iCmd = -math.Min(p.IMax, brakeGain*rpm)
		}
	}

	// Nominal duty is the window's share of the full revolution.
	duty = 2 * windowHalf / (2 * math.Pi)
	if mode == Spinup && forceWindow {
		duty = math.Max(duty, math.Min(restKickDuty, p.DutyMax))
	}
	duty = math.Min(duty, p.DutyMax)
	return iCmd, duty
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
