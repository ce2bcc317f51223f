package session_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/magspin/internal/rotor"
	"github.com/san-kum/magspin/internal/session"
)

// losslessParams is a frictionless bench rotor: no drag of any kind, no
// resistance tempco, so spin-up behavior is driven purely by the pulse law.
func losslessParams() rotor.Params {
	p := rotor.DefaultParams()
	p.AlphaR = 0
	p.Ke = 0
	p.Kg = 0
	p.Kv = 0
	p.CMech = 0
	return p
}

// run advances until pred holds or the tick budget runs out.
func run(s *session.Session, cmds rotor.Commands, maxTicks int, pred func(session.Snapshot) bool) (session.Snapshot, bool) {
	var snap session.Snapshot
	for i := 0; i < maxTicks; i++ {
		snap = s.Advance(cmds)
		if pred(snap) {
			return snap, true
		}
	}
	return snap, false
}

var _ = Describe("Session", func() {
	var (
		p rotor.Params
		s *session.Session
	)

	BeforeEach(func() {
		p = losslessParams()
		var err error
		s, err = session.New(p)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects invalid parameters", func() {
		bad := p
		bad.PulsesPerRev = 0
		_, err := session.New(bad)
		Expect(err).To(HaveOccurred())
	})

	It("stays idle at rest without a start command", func() {
		snap := s.Advance(rotor.DefaultCommands(3000))
		Expect(snap.Mode).To(Equal(rotor.Idle))
		Expect(snap.RPM).To(BeZero())
	})

	Describe("spin-up lifecycle", func() {
		It("enters SPINUP on start and never loses speed while spinning up", func() {
			cmds := rotor.DefaultCommands(3000)
			cmds.Start = true
			snap := s.Advance(cmds)
			Expect(snap.Mode).To(Equal(rotor.Spinup))

			cmds.Start = false
			prev := snap.RPM
			for i := 0; i < 2000 && snap.Mode == rotor.Spinup; i++ {
				snap = s.Advance(cmds)
				Expect(snap.RPM).To(BeNumerically(">=", prev-1e-9))
				prev = snap.RPM
			}
		})

		It("reaches HOLD near the target and settles inside the hold band", func() {
			cmds := rotor.DefaultCommands(3000)
			cmds.Start = true
			s.Advance(cmds)
			cmds.Start = false

			snap, ok := run(s, cmds, 300000, func(sn session.Snapshot) bool {
				return sn.Mode == rotor.Hold
			})
			Expect(ok).To(BeTrue(), "never reached HOLD")
			Expect(snap.RPM).To(BeNumerically(">=", 3000-cmds.HoldBand))

			// Settle and verify the hold band contains the speed.
			for i := 0; i < 20000; i++ {
				snap = s.Advance(cmds)
				Expect(snap.RPM).To(BeNumerically("<=", p.RPMLimit))
			}
			Expect(snap.Mode).To(Equal(rotor.Hold))
			Expect(snap.RPM).To(BeNumerically("~", 3000, cmds.HoldBand))
			// ω ≈ 3000·2π/60
			Expect(snap.State.Omega).To(BeNumerically("~", 314.16, 6))
		})

		It("brakes down to the floor and returns to IDLE", func() {
			cmds := rotor.DefaultCommands(3000)
			cmds.Start = true
			s.Advance(cmds)
			cmds.Start = false

			_, ok := run(s, cmds, 300000, func(sn session.Snapshot) bool {
				return sn.Mode == rotor.Hold
			})
			Expect(ok).To(BeTrue())

			cmds.Brake = true
			snap := s.Advance(cmds)
			Expect(snap.Mode).To(Equal(rotor.Brake))
			cmds.Brake = false

			snap, ok = run(s, cmds, 300000, func(sn session.Snapshot) bool {
				return sn.Mode == rotor.Idle
			})
			Expect(ok).To(BeTrue(), "braking never completed")
			Expect(snap.RPM).To(BeNumerically("<=", cmds.MinRPM+1))
		})
	})

	Describe("fault latching", func() {
		It("faults on overspeed when the target exceeds the limit, and stays latched", func() {
			cmds := rotor.DefaultCommands(15000)
			cmds.Start = true
			s.Advance(cmds)
			cmds.Start = false

			snap, ok := run(s, cmds, 600000, func(sn session.Snapshot) bool {
				return sn.Mode == rotor.Fault
			})
			Expect(ok).To(BeTrue(), "never tripped overspeed")
			Expect(snap.RPM).To(BeNumerically(">", p.RPMLimit))

			frozen := snap.State
			for i := 0; i < 10; i++ {
				snap = s.Advance(cmds)
				Expect(snap.Mode).To(Equal(rotor.Fault))
				Expect(snap.State).To(Equal(frozen))
			}
		})

		It("faults on overtemperature and resets to rest within one tick", func() {
			hot := p
			hot.Inertia = 1e6             // rotor too heavy to move: stays in the forced rest window, driven continuously
			hot.TLimit = hot.TAmb + 0.001 // trips within a few ticks of drive
			var err error
			s, err = session.New(hot)
			Expect(err).NotTo(HaveOccurred())

			cmds := rotor.DefaultCommands(3000)
			cmds.Start = true
			s.Advance(cmds)
			cmds.Start = false

			snap, ok := run(s, cmds, 1000, func(sn session.Snapshot) bool {
				return sn.Mode == rotor.Fault
			})
			Expect(ok).To(BeTrue(), "never tripped overtemperature")

			// Persists while reset is not commanded.
			snap = s.Advance(cmds)
			Expect(snap.Mode).To(Equal(rotor.Fault))

			faultTime := snap.State.T

			cmds.Reset = true
			snap = s.Advance(cmds)
			Expect(snap.Mode).To(Equal(rotor.Idle))
			Expect(snap.State.Theta).To(BeZero())
			Expect(snap.State.Omega).To(BeZero())
			Expect(snap.State.Tcoil).To(Equal(hot.TAmb))
			// The clock restarts at reinitialization; substepping then runs out
			// the rest of the tick, so at most one tick has elapsed since.
			Expect(snap.State.T).To(BeNumerically("~", float64(s.Substeps)*s.Dt, 1e-9))
			Expect(snap.State.T).To(BeNumerically("<", faultTime))
		})

		It("forces FAULT from any mode when interlocks fail, even mid-spinup with brake asserted", func() {
			cmds := rotor.DefaultCommands(3000)
			cmds.Start = true
			s.Advance(cmds)
			cmds.Start = false

			for i := 0; i < 100; i++ {
				s.Advance(cmds)
			}

			cmds.InterlocksOK = false
			cmds.Brake = true
			snap := s.Advance(cmds)
			Expect(snap.Mode).To(Equal(rotor.Fault))
		})

		It("ignores reset while interlocks remain failed", func() {
			cmds := rotor.DefaultCommands(3000)
			cmds.InterlocksOK = false
			snap := s.Advance(cmds)
			Expect(snap.Mode).To(Equal(rotor.Fault))

			cmds.Reset = true
			snap = s.Advance(cmds)
			Expect(snap.Mode).To(Equal(rotor.Fault))

			cmds.InterlocksOK = true
			snap = s.Advance(cmds)
			Expect(snap.Mode).To(Equal(rotor.Idle))
		})
	})

	Describe("time and history", func() {
		It("advances the clock by dt·substeps per tick and never runs backward", func() {
			cmds := rotor.DefaultCommands(0)
			prev := 0.0
			for i := 0; i < 20; i++ {
				snap := s.Advance(cmds)
				Expect(snap.State.T).To(BeNumerically(">=", prev))
				prev = snap.State.T
			}
			Expect(prev).To(BeNumerically("~", 20*session.DefaultDt*session.DefaultSubsteps, 1e-9))
		})

		It("keeps the angle wrapped across ticks", func() {
			cmds := rotor.DefaultCommands(3000)
			cmds.Start = true
			s.Advance(cmds)
			cmds.Start = false
			for i := 0; i < 5000; i++ {
				snap := s.Advance(cmds)
				Expect(snap.State.Theta).To(BeNumerically(">=", 0))
				Expect(snap.State.Theta).To(BeNumerically("<", 2*math.Pi))
			}
		})

		It("records one sample per tick and trims the ring", func() {
			cmds := rotor.DefaultCommands(0)
			for i := 0; i < 10; i++ {
				s.Advance(cmds)
			}
			Expect(s.History()).To(HaveLen(10))

			for i := 0; i < 5500; i++ {
				s.Advance(cmds)
			}
			Expect(len(s.History())).To(BeNumerically("<=", 5000))
		})

		It("clears samples and rewinds the clock on history reset", func() {
			cmds := rotor.DefaultCommands(0)
			for i := 0; i < 5; i++ {
				s.Advance(cmds)
			}
			s.ResetHistory()
			Expect(s.History()).To(BeEmpty())
			Expect(s.State().T).To(BeZero())
		})

		It("does not advance while paused", func() {
			cmds := rotor.DefaultCommands(3000)
			cmds.Start = true
			s.Advance(cmds)
			cmds.Start = false
			before := s.State()

			s.Paused = true
			snap := s.Advance(cmds)
			Expect(snap.State).To(Equal(before))
			Expect(s.History()).To(HaveLen(1))
		})
	})
})
