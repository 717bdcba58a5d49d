package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/chernoby/internal/analysis"
	"github.com/san-kum/chernoby/internal/export"
	"github.com/san-kum/chernoby/internal/reactor"
	"github.com/san-kum/chernoby/internal/storage"
)

var seriesFields = map[string]func(s reactor.Stats) float64{
	"particles": analysis.Particles,
	"neutrons":  analysis.Neutrons,
	"atoms":     func(s reactor.Stats) float64 { return float64(s.Atoms) },
	"energy":    analysis.Energy,
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tFISSIONS\tNEUTRONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Final.Fissions,
			run.Final.Neutrons,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("no data")
	}

	neutrons := make([]float64, len(stats))
	atoms := make([]float64, len(stats))
	for i, s := range stats {
		neutrons[i] = float64(s.Neutrons)
		atoms[i] = float64(s.Atoms)
	}

	graph := asciigraph.PlotMany([][]float64{atoms, neutrons},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Cyan),
		asciigraph.SeriesLegends("atoms", "neutrons"),
		asciigraph.Caption(runID),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	times, neutrons := analysis.Columns(stats, analysis.Neutrons)
	fit := analysis.GrowthRate(times, neutrons)
	regime := analysis.Classify(fit.Rate, 0.01)

	fmt.Printf("run: %s (%s, seed %d)\n", meta.ID, meta.Scenario, meta.Seed)
	fmt.Printf("growth rate: %.4f /t (r^2 %.3f, %d samples)\n", fit.Rate, fit.RSquare, fit.Samples)
	fmt.Printf("regime: %s\n", regime)
	if dt := fit.DoublingTime(); !math.IsInf(dt, 0) && !math.IsNaN(dt) {
		if dt > 0 {
			fmt.Printf("doubling time: %.3f\n", dt)
		} else {
			fmt.Printf("halving time: %.3f\n", -dt)
		}
	}
	if period := analysis.DominantPeriod(neutrons, meta.Dt); period > 0 {
		fmt.Printf("dominant period: %.3f\n", period)
	}
	if len(meta.Metrics) > 0 {
		printMetrics(meta.Metrics)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	field, ok := seriesFields[series]
	if !ok {
		return fmt.Errorf("unknown series: %s", series)
	}

	st := storage.New(dataDir)
	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	svg := export.SeriesToSVG(export.Series(stats, field), 800, 300, "#00ffff")
	if svg == "" {
		return fmt.Errorf("not enough data to plot")
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	stats, err := st.LoadStats(args[0])
	if err != nil {
		return err
	}
	return storage.WriteStats(os.Stdout, stats)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, stats)
}

// writeTable prints rows as csv to stdout.
func writeTable(header []string, rows [][]float64) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', 6, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
