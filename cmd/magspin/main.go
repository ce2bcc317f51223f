package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/magspin/internal/advisor"
	"github.com/san-kum/magspin/internal/config"
	"github.com/san-kum/magspin/internal/export"
	"github.com/san-kum/magspin/internal/rotor"
	"github.com/san-kum/magspin/internal/session"
	"github.com/san-kum/magspin/internal/storage"
	"github.com/san-kum/magspin/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	targetRPM  float64
	duration   float64
	tick       float64
	frameRate  int
	outPath    string
	channel    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "magspin",
		Short: "pulsed-drive maglev rotor simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".magspin", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use a built-in preset")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scripted spin-up and save the telemetry",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&targetRPM, "target", 0, "target rpm (overrides config)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "simulated duration in seconds (overrides config)")
	runCmd.Flags().Float64Var(&tick, "tick", 0, "outer tick period in seconds (overrides config)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive dashboard with live telemetry",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&targetRPM, "target", 0, "initial target rpm")
	liveCmd.Flags().IntVar(&frameRate, "fps", 20, "dashboard ticks per second")

	adviseCmd := &cobra.Command{
		Use:   "advise",
		Short: "print the feasibility report for a configuration",
		RunE:  runAdvise,
	}
	adviseCmd.Flags().Float64Var(&targetRPM, "target", 0, "target rpm (overrides config)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s target %.0f rpm, limit %.0f rpm\n",
					name, cfg.Run.TargetRPM, cfg.Params.RPMLimit)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run telemetry as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportPlotCmd := &cobra.Command{
		Use:   "export-plot [run_id]",
		Short: "render run telemetry to an image file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPlot,
	}
	exportPlotCmd.Flags().StringVar(&outPath, "out", "rpm.svg", "output path (.svg, .png, .pdf)")
	exportPlotCmd.Flags().StringVar(&channel, "channel", "rpm", "telemetry channel: rpm, temp, loss")

	rootCmd.AddCommand(runCmd, liveCmd, adviseCmd, presetsCmd, listCmd, plotCmd, exportCSVCmd, exportPlotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file and flag overrides in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("target") {
		cfg.Run.TargetRPM = targetRPM
	}
	if cmd.Flags().Changed("time") {
		cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("tick") {
		cfg.Run.Tick = tick
	}
	if cfg.Run.Tick <= 0 {
		cfg.Run.Tick = config.DefaultTick
	}
	if cfg.Run.Dt <= 0 {
		cfg.Run.Dt = session.DefaultDt
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sess, err := session.New(cfg.PlantParams())
	if err != nil {
		return err
	}
	sess.Dt = cfg.Run.Dt
	sess.Substeps = cfg.SubstepsPerTick()

	cmds := cfg.Commands()
	cmds.Start = true

	ticks := int(cfg.Run.Duration / cfg.Run.Tick)
	fmt.Printf("running: target %.0f rpm, %.0f s simulated\n", cmds.TargetRPM, cfg.Run.Duration)
	start := time.Now()

	var snap session.Snapshot
	for i := 0; i < ticks; i++ {
		snap = sess.Advance(cmds)
		cmds.Start = false
		if snap.Mode == rotor.Fault {
			fmt.Printf("fault at t=%.2f s (rpm %.0f, coil %.2f K)\n",
				snap.State.T, snap.RPM, snap.State.Tcoil)
			break
		}
	}
	elapsed := time.Since(start)

	runID, err := st.Save(sess, cmds.TargetRPM, cfg.Run.Tick)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final: mode %s, %.1f rpm, coil %.2f K, %.2f s simulated\n",
		snap.Mode, snap.RPM, snap.State.Tcoil, snap.State.T)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sess, err := session.New(cfg.PlantParams())
	if err != nil {
		return err
	}
	sess.Dt = cfg.Run.Dt
	sess.Substeps = cfg.SubstepsPerTick()

	if frameRate < 1 {
		frameRate = 20
	}
	return tui.Run(sess, cfg.Run.TargetRPM, time.Second/time.Duration(frameRate))
}

func runAdvise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := cfg.PlantParams()
	if err := p.Validate(); err != nil {
		return err
	}

	rep := advisor.Evaluate(p, 0, p.TAmb, cfg.Run.TargetRPM)
	for _, msg := range rep.Messages() {
		fmt.Println(msg)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTARGET\tDURATION\tFINAL MODE\tFINAL RPM")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.2fs\t%s\t%.1f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TargetRPM,
			run.Duration,
			run.FinalMode,
			run.FinalRPM,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no telemetry to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("target: %.0f rpm, final mode: %s\n\n", meta.TargetRPM, meta.FinalMode)

	channels := []struct {
		caption string
		f       func(session.Sample) float64
	}{
		{"rpm", func(s session.Sample) float64 { return s.RPM }},
		{"coil temperature [K]", func(s session.Sample) float64 { return s.Tcoil }},
		{"loss power [W]", func(s session.Sample) float64 { return s.PLoss }},
	}
	for _, ch := range channels {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ch.f(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ch.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.WriteSamples(os.Stdout, samples)
}

func exportPlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	switch channel {
	case "rpm":
		err = export.RPMPlot(samples, outPath)
	case "temp":
		err = export.TemperaturePlot(samples, outPath)
	case "loss":
		err = export.LossPlot(samples, outPath)
	default:
		return fmt.Errorf("unknown channel: %s (rpm, temp, loss)", channel)
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}
