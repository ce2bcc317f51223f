// Package session owns the mutable simulation state across ticks and drives
// the pure rotor core: one supervision call followed by a bounded batch of
// fixed-step integrations per tick. Hosts (CLI runner, live dashboard, test
// harness) call Advance from whatever scheduling mechanism they own; the
// package itself is single-threaded and callers must serialize ticks.
package session

import (
	"fmt"

	"github.com/san-kum/magspin/internal/rotor"
)

const (
	// DefaultDt is the micro-step used inside a tick.
	DefaultDt = 0.001
	// DefaultSubsteps of DefaultDt per tick, 50 ms of simulated time.
	DefaultSubsteps = 50

	historyCap  = 5000
	historyKeep = 4000
)

// Sample is one telemetry record, appended once per tick.
type Sample struct {
	T     float64 // elapsed simulation time [s]
	RPM   float64
	Tcoil float64 // coil temperature [K]
	PLoss float64 // total parasitic loss power [W]
	Mode  rotor.Mode
}

// Snapshot is the per-tick readback for display or assertions.
type Snapshot struct {
	State  rotor.State
	Mode   rotor.Mode
	RPM    float64
	Losses rotor.Losses
}

// Session is one simulation run: plant parameters frozen at creation, the
// evolving state and mode, and a bounded telemetry history.
type Session struct {
	Dt       float64
	Substeps int
	Paused   bool

	params  rotor.Params
	state   rotor.State
	mode    rotor.Mode
	history []Sample
}

// New validates the parameters and returns a session at rest in IDLE.
func New(p rotor.Params) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Session{
		Dt:       DefaultDt,
		Substeps: DefaultSubsteps,
		params:   p,
		state:    rotor.NewState(p),
		mode:     rotor.Idle,
	}, nil
}

func (s *Session) Params() rotor.Params { return s.params }
func (s *Session) State() rotor.State   { return s.state }
func (s *Session) Mode() rotor.Mode     { return s.mode }

// History returns the retained telemetry samples, oldest first. The slice is
// owned by the session; callers must not mutate it.
func (s *Session) History() []Sample { return s.history }

// ResetHistory discards retained samples and rewinds the elapsed-time clock,
// without touching angle, speed or temperature.
func (s *Session) ResetHistory() {
	s.history = s.history[:0]
	s.state.T = 0
}

// Advance runs one tick: supervise once, then integrate up to Substeps
// micro-steps, then record a telemetry sample.
//
// Fault handling follows the latch contract. A fault freezes the state at
// the substep that tripped it. The latch clears only when the reset command
// and healthy interlocks arrive together, reinitializing the state to rest;
// a reset while interlocks remain failed has no effect. When paused, the
// tick neither supervises nor integrates.
func (s *Session) Advance(cmds rotor.Commands) Snapshot {
	if s.Paused {
		return s.snapshot()
	}

	if s.mode == rotor.Fault {
		if cmds.Reset && cmds.InterlocksOK {
			s.state = rotor.NewState(s.params)
			s.mode = rotor.Idle
		} else {
			s.record()
			return s.snapshot()
		}
	}

	s.mode = rotor.NextMode(s.mode, s.state, cmds.TargetRPM, cmds)

	for i := 0; i < s.Substeps; i++ {
		s.state, s.mode = rotor.Step(s.state, s.mode, cmds.TargetRPM, s.params, s.Dt)
		if s.mode != rotor.Fault {
			continue
		}
		if cmds.Reset && cmds.InterlocksOK {
			s.state = rotor.NewState(s.params)
			s.mode = rotor.Idle
			continue
		}
		break
	}

	s.record()
	return s.snapshot()
}

func (s *Session) record() {
	s.history = append(s.history, Sample{
		T:     s.state.T,
		RPM:   rotor.RPM(s.state.Omega),
		Tcoil: s.state.Tcoil,
		PLoss: rotor.LossPowers(s.state.Omega, s.params).Total(),
		Mode:  s.mode,
	})
	if len(s.history) > historyCap {
		kept := s.history[len(s.history)-historyKeep:]
		s.history = append(s.history[:0], kept...)
	}
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		State:  s.state,
		Mode:   s.mode,
		RPM:    rotor.RPM(s.state.Omega),
		Losses: rotor.LossPowers(s.state.Omega, s.params),
	}
}
