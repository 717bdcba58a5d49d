package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/chernoby/internal/automation"
	"github.com/san-kum/chernoby/internal/config"
	"github.com/san-kum/chernoby/internal/experiment"
	"github.com/san-kum/chernoby/internal/optim"
	"github.com/san-kum/chernoby/internal/particle"
	"github.com/san-kum/chernoby/internal/storage"
)

// sweepParams maps a sweepable name to the scenario field it sets.
var sweepParams = map[string]func(s *config.Scenario, v float64){
	"absorption":     func(s *config.Scenario, v float64) { s.Atoms.Absorption = v },
	"decay":          func(s *config.Scenario, v float64) { s.Atoms.Decay = v },
	"sigma":          func(s *config.Scenario, v float64) { s.Atoms.Sigma = v },
	"attraction":     func(s *config.Scenario, v float64) { s.Atoms.Attraction = v },
	"atoms":          func(s *config.Scenario, v float64) { s.Atoms.Count = int(math.Round(v)) },
	"neutrons":       func(s *config.Scenario, v float64) { s.Neutrons.Count = int(math.Round(v)) },
	"rod_absorption": func(s *config.Scenario, v float64) { s.Fission.RodAbsorption = v },
}

func showFission(cmd *cobra.Command, args []string) error {
	mass, err := strconv.Atoi(args[0])
	if err != nil || mass <= 0 {
		return fmt.Errorf("invalid mass: %s", args[0])
	}

	in := particle.NoEnergy
	if excitation >= 0 {
		in = particle.WithEnergy(excitation)
	}
	dist := particle.Distribution(mass, in)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "A\tB\tNU\tPROBABILITY")
	probs := make([]float64, len(dist))
	for i, s := range dist {
		probs[i] = s.Probability
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\n", s.A, s.B, s.Nu, s.Probability)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(probs) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(probs,
			asciigraph.Height(10),
			asciigraph.Caption(fmt.Sprintf("fission of mass %d", mass)),
		))
	}

	if samples <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	counts := make(map[particle.Split]int, len(dist))
	nu := 0
	for i := 0; i < samples; i++ {
		s := particle.Sample(dist, rng.Float64())
		s.Probability = 0
		counts[s]++
		nu += s.Nu
	}

	fmt.Printf("\n%d samples, mean neutrons %.3f\n", samples, float64(nu)/float64(samples))
	for _, d := range dist {
		key := d
		key.Probability = 0
		n := counts[key]
		bar := strings.Repeat("#", int(math.Round(50*float64(n)/float64(samples))))
		fmt.Printf("%3d+%-3d nu=%d %6d %s\n", d.A, d.B, d.Nu, n, bar)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	apply, ok := sweepParams[sweepParam]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", sweepParam)
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metricName); err != nil {
		return err
	}

	values := optim.Linspace(sweepFrom, sweepTo, sweepSteps)
	search := optim.NewGridSearch([]string{sweepParam}, [][]float64{values})
	search.Target = target

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		s := base.Clone()
		apply(s, params[sweepParam])
		exp := experiment.New(s)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return nil, err
		}
		return exp, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %s over %d values...\n", sweepParam, len(values))
	best, value, trials, err := search.Search(ctx, build, metricName)

	rows := make([][]float64, 0, len(trials))
	for _, t := range trials {
		if t.Err != nil {
			fmt.Fprintf(os.Stderr, "%s=%g: %v\n", sweepParam, t.Params[sweepParam], t.Err)
			continue
		}
		rows = append(rows, []float64{t.Params[sweepParam], t.Value})
	}
	if werr := writeTable([]string{sweepParam, metricName}, rows); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest: %s=%g (%s %.4f, target %g)\n", sweepParam, best[sweepParam], metricName, value, target)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running batch %s (%d steps)...\n", batch.Name, len(batch.Steps))
	results, err := automation.RunBatch(ctx, batch, experiment.NewRegistry(), st, newLogger())
	for _, r := range results {
		final := r.Result.Final()
		fmt.Printf("  %s: run %s, %d fissions, %d neutrons\n", r.Scenario, r.RunID, final.Fissions, final.Neutrons)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d trials of %s...\n", trials, s.Name)
	results, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Scenario:  s,
		NumTrials: trials,
		SeedStart: s.Seed,
	}, experiment.NewRegistry(), newLogger())
	if err != nil && len(results) == 0 {
		return err
	}

	sum := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", sum.Trials)
	if sum.Trials > 0 {
		fmt.Printf("supercritical: %d (%.1f%%)\n", sum.Supercritical, 100*float64(sum.Supercritical)/float64(sum.Trials))
	}
	fmt.Printf("fissions: %.2f +/- %.2f\n", sum.MeanFissions, sum.StdFissions)
	fmt.Printf("mean multiplication: %.4f\n", sum.MeanMultiplication)
	return err
}
