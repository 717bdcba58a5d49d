package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/chernoby/internal/config"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	watch      bool
	frameRate  int
	outFile    string
	series     string
	scale      float64
	// fission
	excitation float64
	samples    int
	// sweep and monte carlo
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	metricName string
	target     float64
	trials     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "chernoby",
		Short:         "2-D particle reactor simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chernoby", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	scenarioFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
		cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
		cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
		cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and store its statistics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "print progress while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 10, "progress refresh rate")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a scenario in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a scenario file to edit",
		Args:  cobra.ExactArgs(1),
		RunE:  initScenario,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate growth rate and criticality of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run's population chart as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportCmd.Flags().StringVar(&series, "series", "particles", "particles, neutrons, atoms or energy")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's statistics as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run's metadata and statistics as json to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run a scenario and draw the final world as svg",
		Args:  cobra.NoArgs,
		RunE:  snapshotWorld,
	}
	scenarioFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <scenario>.svg)")
	snapshotCmd.Flags().Float64Var(&scale, "scale", 4, "pixels per world unit")

	fissionCmd := &cobra.Command{
		Use:   "fission [mass]",
		Short: "show the fission distribution of a nucleus",
		Args:  cobra.ExactArgs(1),
		RunE:  showFission,
	}
	fissionCmd.Flags().Float64Var(&excitation, "energy", -1, "excitation energy (negative for none)")
	fissionCmd.Flags().IntVar(&samples, "samples", 0, "draw this many splits and print a histogram")
	fissionCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search one scenario parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "absorption", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0.9, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "multiplication", "metric to compare")
	sweepCmd.Flags().Float64Var(&target, "target", 1.0, "metric value to aim for")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run and store every step of a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a scenario over many seeds",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	scenarioFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of seeds")

	rootCmd.AddCommand(runCmd, liveCmd, initCmd, presetsCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, fissionCmd, sweepCmd, batchCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadScenario resolves the scenario for a command: preset, then config
// file, then any flag set explicitly on the command line.
func loadScenario(cmd *cobra.Command) (*config.Scenario, error) {
	s := config.DefaultScenario()

	if preset != "" {
		s = config.GetPreset(preset)
		if s == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		s = loaded
	}

	if cmd.Flags().Changed("dt") {
		s.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		s.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		s.Seed = seed
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
