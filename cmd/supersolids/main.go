package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/Scheiermann/supersolids-notes/internal/config"
	"github.com/Scheiermann/supersolids-notes/internal/driver"
	"github.com/Scheiermann/supersolids-notes/internal/engine"
	"github.com/Scheiermann/supersolids-notes/internal/grid"
	"github.com/Scheiermann/supersolids-notes/internal/metrics"
	"github.com/Scheiermann/supersolids-notes/internal/profiles"
	"github.com/Scheiermann/supersolids-notes/internal/snapshot"
	"github.com/Scheiermann/supersolids-notes/internal/viz"
)

var (
	dataDir    string
	dim        int
	halfWidth  []float64
	resolution []int
	dt         float64
	steps      int
	coupling   float64
	gDipole    float64
	realTime   bool
	accuracy   float64
	seed       int64
	noise      bool
	noiseMin   float64
	noiseMax   float64
	widths     []float64
	centers    []float64
	kick       float64
	alphaY     float64
	alphaZ     float64
	vortex     int
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "supersolids",
		Short: "split-step propagation of the Gross-Pitaevskii equation",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".supersolids", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "relax or propagate a condensate",
		RunE:  runPropagation,
	}
	addPhysicsFlags(runCmd)

	resumeCmd := &cobra.Command{
		Use:   "resume [run_id]",
		Short: "continue a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  resumeRun,
	}
	resumeCmd.Flags().IntVar(&steps, "steps", 1000, "additional steps")
	resumeCmd.Flags().Float64Var(&accuracy, "accuracy", 0, "relative mu change for early halt")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return snapshot.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run history to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return snapshot.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-16s %dd  g=%.1f  g_dd=%.1f\n", name, cfg.Dim, cfg.G, cfg.GDipole)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "propagate with live terminal visualization",
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)

	rootCmd.AddCommand(runCmd, resumeCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&dim, "dim", 1, "grid dimension (1..3)")
	cmd.Flags().Float64SliceVar(&halfWidth, "half-width", []float64{config.DefaultHalfWidth}, "box half-width per axis")
	cmd.Flags().IntSliceVar(&resolution, "res", []int{config.DefaultResolution}, "grid points per axis (powers of two)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "step budget")
	cmd.Flags().Float64Var(&coupling, "g", 0, "contact coupling")
	cmd.Flags().Float64Var(&gDipole, "gdd", 0, "dipolar coupling")
	cmd.Flags().BoolVar(&realTime, "real-time", false, "unitary dynamics instead of relaxation")
	cmd.Flags().Float64Var(&accuracy, "accuracy", config.DefaultAccuracy, "relative mu change for early halt")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().BoolVar(&noise, "noise", false, "multiply the initial field by random noise")
	cmd.Flags().Float64Var(&noiseMin, "noise-min", config.DefaultNoiseMin, "noise lower bound")
	cmd.Flags().Float64Var(&noiseMax, "noise-max", config.DefaultNoiseMax, "noise upper bound")
	cmd.Flags().Float64SliceVar(&widths, "width", []float64{config.DefaultWidth}, "gaussian width per axis")
	cmd.Flags().Float64SliceVar(&centers, "center", []float64{0}, "gaussian center per axis")
	cmd.Flags().Float64Var(&kick, "kick", 0, "momentum kick along the first axis")
	cmd.Flags().Float64Var(&alphaY, "alpha-y", 1, "trap frequency ratio along y")
	cmd.Flags().Float64Var(&alphaZ, "alpha-z", 1, "trap frequency ratio along z")
	cmd.Flags().IntVar(&vortex, "vortex", 0, "vortex charge to imprint (2-D/3-D)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file and flags: the preset seeds the
// config, the file overrides the preset, and explicitly set flags
// override both.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dim") {
		cfg.Dim = dim
	}
	if cmd.Flags().Changed("half-width") {
		cfg.HalfWidth = halfWidth
	}
	if cmd.Flags().Changed("res") {
		cfg.Resolution = resolution
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("g") {
		cfg.G = coupling
	}
	if cmd.Flags().Changed("gdd") {
		cfg.GDipole = gDipole
	}
	if cmd.Flags().Changed("real-time") {
		cfg.RealTime = realTime
	}
	if cmd.Flags().Changed("accuracy") {
		cfg.Accuracy = accuracy
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("noise") {
		cfg.Noise.Enabled = noise
	}
	if cmd.Flags().Changed("noise-min") {
		cfg.Noise.Min = noiseMin
	}
	if cmd.Flags().Changed("noise-max") {
		cfg.Noise.Max = noiseMax
	}
	if cmd.Flags().Changed("width") {
		cfg.Wave.Widths = widths
	}
	if cmd.Flags().Changed("center") {
		cfg.Wave.Centers = centers
	}
	if cmd.Flags().Changed("kick") {
		cfg.Wave.Kick = kick
	}
	if cmd.Flags().Changed("alpha-y") {
		cfg.Trap.AlphaY = alphaY
	}
	if cmd.Flags().Changed("alpha-z") {
		cfg.Trap.AlphaZ = alphaZ
	}

	return cfg, nil
}

// buildEngine assembles grid, initial field and trap from the config.
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	axes, err := cfg.Axes()
	if err != nil {
		return nil, err
	}
	g, err := grid.New(axes...)
	if err != nil {
		return nil, err
	}

	spec, err := cfg.GaussianSpec()
	if err != nil {
		return nil, err
	}
	psi, err := profiles.Gaussian(g, spec)
	if err != nil {
		return nil, err
	}

	if cfg.Noise.Enabled {
		lo, hi := cfg.Noise.Min, cfg.Noise.Max
		if lo == 0 && hi == 0 {
			lo, hi = config.DefaultNoiseMin, config.DefaultNoiseMax
		}
		rng := rand.New(rand.NewSource(cfg.Seed))
		factors := profiles.Noise(rng, lo, hi, len(psi))
		for i := range psi {
			psi[i] *= complex(factors[i], 0)
		}
	}

	pot, err := profiles.HarmonicTrap(g, cfg.TrapScales())
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(g, psi, pot, cfg.EngineParams())
	if err != nil {
		return nil, err
	}

	if vortex != 0 {
		if err := eng.ImprintVortex(0, 0, vortex); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func runPropagation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	st := snapshot.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	d := driver.New(eng)
	d.AddMetric(metrics.NewMuDrift())
	d.AddMetric(metrics.NewNormDecay())
	if cfg.GDipole != 0 {
		d.AddMetric(metrics.NewDipoleResidue())
	}

	fmt.Printf("propagating %dd, %s, g=%.3f, g_dd=%.3f...\n",
		cfg.Dim, cfg.Mode(), cfg.G, cfg.GDipole)
	start := time.Now()

	result, err := d.Run(context.Background(), driver.Config{Accuracy: cfg.Accuracy})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(eng, cfg.Seed, result)
	if err != nil {
		return err
	}

	printSummary(eng, result, runID, elapsed)
	return nil
}

func resumeRun(cmd *cobra.Command, args []string) error {
	st := snapshot.New(dataDir)

	snap, err := st.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	snap.Params.StepBudget = snap.Steps + steps
	eng, err := engine.Restore(snap)
	if err != nil {
		return err
	}

	d := driver.New(eng)
	d.AddMetric(metrics.NewMuDrift())
	d.AddMetric(metrics.NewNormDecay())

	fmt.Printf("resuming %s at step %d...\n", args[0], snap.Steps)
	start := time.Now()

	result, err := d.Run(context.Background(), driver.Config{Accuracy: accuracy})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(eng, meta.Seed, result)
	if err != nil {
		return err
	}

	printSummary(eng, result, runID, elapsed)
	return nil
}

func printSummary(eng *engine.Engine, result *driver.Result, runID string, elapsed time.Duration) {
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d", result.StepsTaken)
	if result.Converged {
		fmt.Print(" (converged)")
	}
	if result.Diverged {
		fmt.Print(" (DIVERGED)")
	}
	fmt.Println()
	fmt.Printf("mu: %.8f\n", eng.Mu())
	fmt.Printf("energy: %.8f\n", eng.Energy())
	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for name, val := range result.Metrics {
			fmt.Printf("  %s: %.3e\n", name, val)
		}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := snapshot.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDIM\tMODE\tTIME\tSTEPS\tG\tG_DD\tMU")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%.2f\t%.2f\t%.6f\n",
			run.ID,
			run.Dim,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.G,
			run.GDipole,
			run.Mu,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := snapshot.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	_, mu, energy, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(mu) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s  g=%.3f  g_dd=%.3f\n\n", meta.Mode, meta.G, meta.GDipole)

	fmt.Println(asciigraph.Plot(mu,
		asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.Caption("chemical potential")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.Caption("energy")))
	fmt.Println()

	snap, err := st.LoadSnapshot(runID)
	if err != nil {
		return err
	}
	g, err := grid.New(snap.Axes...)
	if err != nil {
		return err
	}
	profile := viz.CenterProfile(g, snap.Psi.Density(nil))
	fmt.Println(asciigraph.Plot(profile,
		asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.Caption("final density, center cut")))

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%dd condensate, g=%.2f", cfg.Dim, cfg.G)
	p := tea.NewProgram(viz.NewModel(eng, title))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
