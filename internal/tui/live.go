// Package tui is the live terminal dashboard: a bubbletea program that
// drives one simulation session at a fixed tick cadence and renders speed
// and temperature history, the mode badge, loss telemetry and the advisory
// panel.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/magspin/internal/advisor"
	"github.com/san-kum/magspin/internal/rotor"
	"github.com/san-kum/magspin/internal/session"
)

const (
	graphWidth  = 70
	graphHeight = 8
	rpmStep     = 250 // target adjustment per keypress
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	faultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	advisoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model holds the session, the pending command edges, and display buffers.
type Model struct {
	sess      *session.Session
	targetRPM float64
	tick      time.Duration

	// Edge-triggered commands armed by keypresses, consumed by the next tick.
	start, brake, stop, reset bool
	interlocksOK              bool

	snap session.Snapshot
}

// NewModel builds a dashboard around a fresh session.
func NewModel(sess *session.Session, targetRPM float64, tick time.Duration) Model {
	return Model{
		sess:         sess,
		targetRPM:    targetRPM,
		tick:         tick,
		interlocksOK: true,
		snap: session.Snapshot{
			State: sess.State(),
			Mode:  sess.Mode(),
		},
	}
}

// Run starts the dashboard and blocks until quit.
func Run(sess *session.Session, targetRPM float64, tick time.Duration) error {
	p := tea.NewProgram(NewModel(sess, targetRPM, tick))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.start = true
			m.sess.Paused = false
		case "b":
			m.brake = true
		case "x":
			m.stop = true
		case "r":
			m.reset = true
		case "i":
			m.interlocksOK = !m.interlocksOK
		case "p":
			m.sess.Paused = !m.sess.Paused
		case "c":
			m.sess.ResetHistory()
		case "+", "=":
			m.targetRPM += rpmStep
		case "-":
			if m.targetRPM >= rpmStep {
				m.targetRPM -= rpmStep
			}
		}
		return m, nil

	case TickMsg:
		cmds := rotor.Commands{
			Start:        m.start,
			Brake:        m.brake,
			Stop:         m.stop,
			Reset:        m.reset,
			InterlocksOK: m.interlocksOK,
			TargetRPM:    m.targetRPM,
			HoldBand:     rotor.DefaultHoldBand,
			MinRPM:       rotor.DefaultMinRPM,
		}
		m.start, m.brake, m.stop, m.reset = false, false, false, false
		m.snap = m.sess.Advance(cmds)
		return m, m.tickCmd()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("magspin — pulsed-drive rotor"))
	b.WriteString("  ")
	b.WriteString(m.modeBadge())
	if m.sess.Paused {
		b.WriteString(idleStyle.Render("  (paused)"))
	}
	b.WriteString("\n\n")

	st := m.snap.State
	rows := []struct{ label, value string }{
		{"target", fmt.Sprintf("%.0f rpm", m.targetRPM)},
		{"speed", fmt.Sprintf("%.1f rpm  (%.2f rad/s)", m.snap.RPM, st.Omega)},
		{"coil temp", fmt.Sprintf("%.2f K", st.Tcoil)},
		{"loss power", fmt.Sprintf("%.3g W  (eddy+gas %.3g, visc %.3g, mech %.3g)",
			m.snap.Losses.Total(), m.snap.Losses.EddyGas, m.snap.Losses.Viscous, m.snap.Losses.Mech)},
		{"sim time", fmt.Sprintf("%.2f s", st.T)},
		{"interlocks", map[bool]string{true: "ok", false: "FAILED"}[m.interlocksOK]},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}

	if rpm := history(m.sess.History(), func(s session.Sample) float64 { return s.RPM }); len(rpm) >= 2 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(rpm,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("rpm"))))
		b.WriteString("\n")
	}
	if temp := history(m.sess.History(), func(s session.Sample) float64 { return s.Tcoil }); len(temp) >= 2 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(temp,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("coil temperature [K]"))))
		b.WriteString("\n")
	}

	rep := advisor.Evaluate(m.sess.Params(), st.Omega, st.Tcoil, m.targetRPM)
	for _, msg := range rep.Messages() {
		b.WriteString(advisoStyle.Render("· " + msg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("s start · b brake · x stop · r reset fault · i toggle interlocks · p pause · c clear history · +/- target · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) modeBadge() string {
	mode := m.snap.Mode
	text := "[" + mode.String() + "]"
	switch mode {
	case rotor.Fault:
		return faultStyle.Render(text)
	case rotor.Spinup, rotor.Hold, rotor.Brake:
		return runStyle.Render(text)
	default:
		return idleStyle.Render(text)
	}
}

// history extracts the most recent graphWidth samples of one channel.
func history(samples []session.Sample, f func(session.Sample) float64) []float64 {
	if len(samples) > graphWidth {
		samples = samples[len(samples)-graphWidth:]
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = f(s)
	}
	return out
}
