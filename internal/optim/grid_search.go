package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/chernoby/internal/experiment"
)

// ErrNoResult is returned when no grid point produced the metric.
var ErrNoResult = errors.New("optim: no grid point produced the metric")

// GridSearch runs one experiment per point of the cartesian product of
// ranges and keeps the point whose metric lands closest to Target.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Target     float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is the outcome of a single grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type Builder func(params map[string]float64) (*experiment.Experiment, error)

// Search returns the best parameters, their metric value and all trials in
// grid order. Failed trials are recorded and skipped. A canceled context
// stops the search early.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var trials []Trial
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, build, metricName, &trials); err != nil {
		return nil, 0, trials, err
	}

	best := math.Inf(1)
	var bestTrial *Trial
	for i := range trials {
		t := &trials[i]
		if t.Err != nil {
			continue
		}
		if d := math.Abs(t.Value - g.Target); d < best {
			best = d
			bestTrial = t
		}
	}
	if bestTrial == nil {
		return nil, 0, trials, ErrNoResult
	}
	return bestTrial.Params, bestTrial.Value, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		trial := Trial{Params: current}
		trial.Value, trial.Err = runTrial(ctx, build, current, metricName)
		*trials = append(*trials, trial)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}

func runTrial(ctx context.Context, build Builder, params map[string]float64, metricName string) (float64, error) {
	exp, err := build(params)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("optim: metric %q not recorded", metricName)
	}
	return val, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
