// Package export renders run telemetry to image files (SVG, PNG, PDF —
// whatever the output extension selects).
package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/magspin/internal/session"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// RPMPlot writes rotor speed vs time.
func RPMPlot(samples []session.Sample, path string) error {
	return linePlot(samples, path, "Rotor speed", "RPM", func(s session.Sample) float64 { return s.RPM })
}

// TemperaturePlot writes coil temperature vs time.
func TemperaturePlot(samples []session.Sample, path string) error {
	return linePlot(samples, path, "Coil temperature", "K", func(s session.Sample) float64 { return s.Tcoil })
}

// LossPlot writes total parasitic loss power vs time.
func LossPlot(samples []session.Sample, path string) error {
	return linePlot(samples, path, "Loss power", "W", func(s session.Sample) float64 { return s.PLoss })
}

func linePlot(samples []session.Sample, path, title, yLabel string, y func(session.Sample) float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("export: no telemetry to plot")
	}

	pts := make(plotter.XYs, len(samples))
	for i, smp := range samples {
		pts[i].X = smp.T
		pts[i].Y = y(smp)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = yLabel

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	p.Add(plotter.NewGrid(), line)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
