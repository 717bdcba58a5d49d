package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/chernoby/internal/config"
	"github.com/san-kum/chernoby/internal/experiment"
	"github.com/san-kum/chernoby/internal/export"
	"github.com/san-kum/chernoby/internal/reactor"
	"github.com/san-kum/chernoby/internal/storage"
	"github.com/san-kum/chernoby/internal/tui"
	"github.com/san-kum/chernoby/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(s).WithLogger(log)
	if err := exp.Setup(registry.DefaultMetrics()); err != nil {
		return err
	}

	var progress *tui.Progress
	if watch {
		progress = tui.NewProgress(os.Stderr, s.Name, s.Duration, frameRate)
		exp.Simulator().AddObserver(progress)
		progress.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s scenario...\n", s.Name)
	start := time.Now()
	result, err := exp.Run(ctx)
	if progress != nil {
		progress.Stop()
	}
	if err != nil && !errors.Is(err, reactor.ErrCanceled) {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted: %v\n", err)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scenario: s.Name,
		Seed:     s.Seed,
		Dt:       s.Dt,
		Duration: s.Duration,
	}, result)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("final: %d atoms, %d neutrons, %d fissions (%d spontaneous)\n",
		final.Atoms, final.Neutrons, final.Fissions, final.Spontaneous)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func snapshotWorld(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(s).WithLogger(newLogger())
	if err := exp.Setup(nil); err != nil {
		return err
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = s.Name + ".svg"
	}
	svg := export.WorldToSVG(exp.Simulator().World(), scale)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	final := result.Final()
	fmt.Printf("wrote %s at t=%.2f (%d atoms, %d neutrons)\n", path, final.Time, final.Atoms, final.Neutrons)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(s)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func initScenario(cmd *cobra.Command, args []string) error {
	s := config.DefaultScenario()
	if preset != "" {
		s = config.GetPreset(preset)
		if s == nil {
			return fmt.Errorf("unknown preset: %s", preset)
		}
	}
	if err := config.Save(args[0], s); err != nil {
		return err
	}
	fmt.Printf("wrote %s scenario to %s\n", s.Name, args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tATOMS\tNEUTRONS\tRODS\tABSORB\tDECAY\tCONTROL")
	for _, name := range config.ListPresets() {
		s := config.GetPreset(name)
		ctrl := "-"
		if s.Control.Enabled() {
			ctrl = fmt.Sprintf("target %.0f", s.Control.Target)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%.3f\t%s\n",
			name, s.Atoms.Count, s.Neutrons.Count, len(s.Rods), s.Atoms.Absorption, s.Atoms.Decay, ctrl)
	}
	return w.Flush()
}
