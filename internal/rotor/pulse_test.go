package rotor

import (
	"math"
	"testing"
)

func TestPulseCommandWindow(t *testing.T) {
	p := DefaultParams()
	p.DutyMax = 0.5
	target := 3000.0
	omega := OmegaFromRPM(1000) // moving, no rest override

	// At the sector midpoint the window is open.
	i, _ := PulseCommand(math.Pi, omega, Spinup, target, p)
	if i <= 0 {
		t.Errorf("expected positive current at sector center, got %f", i)
	}

	// Near the sector start the window is closed.
	i, _ = PulseCommand(0.01, omega, Spinup, target, p)
	if i != 0 {
		t.Errorf("expected zero current outside window, got %f", i)
	}
}

func TestPulseCommandMultiSector(t *testing.T) {
	p := DefaultParams()
	p.PulsesPerRev = 4
	p.DutyMax = 0.5
	omega := OmegaFromRPM(1000)

	// Midpoint of the second of four sectors.
	sector := 2 * math.Pi / 4
	i, duty := PulseCommand(1.5*sector, omega, Spinup, 3000, p)
	if i <= 0 {
		t.Errorf("expected positive current in second sector window, got %f", i)
	}
	// Nominal duty is the window fraction of a revolution: 0.2/pulses.
	if math.Abs(duty-0.2/4) > 1e-12 {
		t.Errorf("duty = %f, want %f", duty, 0.2/4)
	}
}

func TestPulseCommandStartFromRest(t *testing.T) {
	p := DefaultParams()

	// Park the rotor well outside any window; at rest the window is forced
	// open so the first kick can happen.
	i, duty := PulseCommand(0.01, 0, Spinup, 3000, p)
	if i <= 0 {
		t.Errorf("expected kick current at rest, got %f", i)
	}
	// Duty floored to min(0.02, DutyMax).
	if duty < math.Min(restKickDuty, p.DutyMax)-1e-15 {
		t.Errorf("duty %f below rest-kick floor", duty)
	}
	if duty > p.DutyMax {
		t.Errorf("duty %f exceeds duty_max %f", duty, p.DutyMax)
	}
}

func TestPulseCommandGains(t *testing.T) {
	p := DefaultParams()
	p.IMax = 100 // no clamping
	target := 3000.0
	omega := OmegaFromRPM(1000)
	errRPM := target - 1000

	i, _ := PulseCommand(math.Pi, omega, Spinup, target, p)
	if math.Abs(i-0.01*errRPM) > 1e-9 {
		t.Errorf("spinup current = %f, want %f", i, 0.01*errRPM)
	}

	i, _ = PulseCommand(math.Pi, omega, Hold, target, p)
	if math.Abs(i-0.02*errRPM) > 1e-9 {
		t.Errorf("hold current = %f, want %f", i, 0.02*errRPM)
	}
}

func TestPulseCommandClampsToIMax(t *testing.T) {
	p := DefaultParams()
	omega := OmegaFromRPM(100)

	i, _ := PulseCommand(math.Pi, omega, Spinup, 60000, p)
	if i != p.IMax {
		t.Errorf("expected clamp at i_max %f, got %f", p.IMax, i)
	}
}

func TestPulseCommandDriveOnly(t *testing.T) {
	// Above target the proportional law clamps at zero, never reverses.
	p := DefaultParams()
	omega := OmegaFromRPM(4000)

	for _, mode := range []Mode{Spinup, Hold} {
		if i, _ := PulseCommand(math.Pi, omega, mode, 3000, p); i != 0 {
			t.Errorf("%v above target: current = %f, want 0", mode, i)
		}
	}
}

func TestPulseCommandBrake(t *testing.T) {
	p := DefaultParams()
	rpm := 1000.0
	omega := OmegaFromRPM(rpm)

	i, _ := PulseCommand(math.Pi, omega, Brake, 0, p)
	want := -math.Min(p.IMax, 0.02*rpm)
	if math.Abs(i-want) > 1e-9 {
		t.Errorf("brake current = %f, want %f", i, want)
	}
}

func TestPulseCommandIdleAndFault(t *testing.T) {
	p := DefaultParams()
	for _, mode := range []Mode{Idle, Fault} {
		if i, _ := PulseCommand(math.Pi, OmegaFromRPM(1000), mode, 3000, p); i != 0 {
			t.Errorf("%v: current should be zero, got %f", mode, i)
		}
	}
}

func TestPulseCommandDutyNeverExceedsMax(t *testing.T) {
	p := DefaultParams()
	p.DutyMax = 0.01 // tighter than both the window duty and the rest kick

	for _, theta := range []float64{0, math.Pi / 2, math.Pi} {
		for _, omega := range []float64{0, OmegaFromRPM(500)} {
			if _, duty := PulseCommand(theta, omega, Spinup, 3000, p); duty > p.DutyMax {
				t.Errorf("duty %f exceeds duty_max %f", duty, p.DutyMax)
			}
		}
	}
}
