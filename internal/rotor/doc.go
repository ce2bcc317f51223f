// Package rotor implements the plant model of a pulsed-drive, magnetically
// levitated rotor: a windowed pulse-current control law, lumped torque and
// single-node thermal dynamics, fixed-step integration with safety fault
// detection, and the supervisory mode state machine.
//
// Everything here is pure: functions take values in and return values out,
// never retaining state between calls. The host owns the simulation session
// (see package session) and drives stepping at whatever cadence it likes:
//
//	mode = rotor.NextMode(mode, st, target, cmds)
//	for i := 0; i < substeps; i++ {
//	    st, mode = rotor.Step(st, mode, target, p, dt)
//	}
//
// # Units
//
// All quantities are SI: radians, rad/s, kelvin, seconds, amperes, N·m.
// Rotor speed crosses the API boundary as rpm only where the operator-facing
// contract demands it (targets, limits, hold band).
package rotor
