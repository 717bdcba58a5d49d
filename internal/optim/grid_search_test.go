package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/chernoby/internal/config"
	"github.com/san-kum/chernoby/internal/experiment"
)

func builder() Builder {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		s := config.DefaultScenario()
		s.Duration = 0.5
		s.Atoms.Count = int(params["atoms"])
		exp := experiment.New(s)
		if err := exp.Setup(experiment.NewRegistry().DefaultMetrics()); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	if len(Linspace(3, 4, 1)) != 1 {
		t.Error("n=1 should give a single value")
	}
}

func TestGridSearch(t *testing.T) {
	g := NewGridSearch([]string{"atoms"}, [][]float64{{2, 6, 10}})

	params, val, trials, err := g.Search(context.Background(), builder(), "population")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(trials) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(trials))
	}
	for i, tr := range trials {
		if tr.Err != nil {
			t.Errorf("trial %d failed: %v", i, tr.Err)
		}
	}
	if params["atoms"] != 2 {
		t.Errorf("expected the smallest world to minimise population, got %v (value %f)", params, val)
	}
}

func TestGridSearchErrors(t *testing.T) {
	g := NewGridSearch([]string{"atoms", "x"}, [][]float64{{1}})
	if _, _, _, err := g.Search(context.Background(), builder(), "population"); err == nil {
		t.Error("expected mismatch error")
	}

	g = NewGridSearch([]string{"atoms"}, [][]float64{{1}})
	if _, _, _, err := g.Search(context.Background(), builder(), "nonexistent"); !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := g.Search(ctx, builder(), "population"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
