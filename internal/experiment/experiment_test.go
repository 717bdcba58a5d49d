package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/chernoby/internal/config"
	"github.com/san-kum/chernoby/internal/particle"
	"github.com/san-kum/chernoby/internal/reactor"
)

func smallScenario() *config.Scenario {
	s := config.DefaultScenario()
	s.Atoms.Count = 12
	s.Neutrons.Count = 4
	s.Duration = 2
	s.Rods = []config.RodConfig{{Start: [2]float64{10, 10}, End: [2]float64{10, 100}, Thickness: 5}}
	return s
}

func TestPopulate(t *testing.T) {
	s := smallScenario()
	w := New(s).Populate()

	if got := w.Count(particle.Atom); got != 12 {
		t.Errorf("expected 12 atoms, got %d", got)
	}
	if got := w.Count(particle.Neutron); got != 4 {
		t.Errorf("expected 4 neutrons, got %d", got)
	}
	if len(w.Rods) != 1 || w.Rods[0].Thickness() != 5 {
		t.Errorf("unexpected rods: %+v", w.Rods)
	}

	for _, p := range w.Particles {
		if p.IsOutside(w.Width, w.Height) {
			t.Errorf("particle placed outside the box: %v", p)
		}
		if p.Is(particle.Atom) {
			if p.Mass() != s.Atoms.Mass || p.AbsorptionProbability() != s.Atoms.Absorption {
				t.Errorf("atom parameters not applied: %v", p)
			}
			x, y := p.Position().X, p.Position().Y
			r := p.Radius()
			if x < r || x > w.Width-r || y < r || y > w.Height-r {
				t.Errorf("atom overlaps an edge: %v", p)
			}
		}
		if p.Is(particle.Neutron) && p.TimeToLive() != s.Neutrons.Lifetime {
			t.Errorf("neutron lifetime not applied: %v", p)
		}
	}
}

func TestPopulateDeterministic(t *testing.T) {
	a := New(smallScenario()).Populate()
	b := New(smallScenario()).Populate()

	for i := range a.Particles {
		if a.Particles[i].Position() != b.Particles[i].Position() {
			t.Fatalf("particle %d differs between equal seeds", i)
		}
	}
}

func TestRunNotSetup(t *testing.T) {
	_, err := New(smallScenario()).Run(context.Background())
	if !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup, got %v", err)
	}
}

func TestSetupInvalid(t *testing.T) {
	s := smallScenario()
	s.Width = 0
	if err := New(s).Setup(nil); !errors.Is(err, config.ErrInvalidScenario) {
		t.Errorf("expected ErrInvalidScenario, got %v", err)
	}
}

func TestRun(t *testing.T) {
	exp := New(smallScenario())
	reg := NewRegistry()
	if err := exp.Setup(reg.DefaultMetrics()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 40 {
		t.Errorf("expected 40 steps, got %d", result.StepsTaken)
	}
	for _, name := range reg.ListMetrics() {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing from result", name)
		}
	}

	again := New(smallScenario())
	if err := again.Setup(nil); err != nil {
		t.Fatal(err)
	}
	r2, err := again.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r2.Final() != result.Final() {
		t.Errorf("runs with the same seed diverged: %+v vs %+v", r2.Final(), result.Final())
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.GetMetric("population"); err != nil {
		t.Errorf("expected population metric: %v", err)
	}
	if _, err := reg.GetMetric("nonexistent"); err == nil {
		t.Error("expected error for unknown metric")
	}

	ms := reg.DefaultMetrics()
	if len(ms) != len(reg.ListMetrics()) {
		t.Errorf("expected %d default metrics, got %d", len(reg.ListMetrics()), len(ms))
	}
	seen := map[string]bool{}
	for _, m := range ms {
		seen[m.Name()] = true
	}
	for _, name := range reg.ListMetrics() {
		if !seen[name] {
			t.Errorf("registry name %s does not match any metric Name()", name)
		}
	}

	var _ reactor.Metric = ms[0]
}

func TestRodControl(t *testing.T) {
	s := config.GetPreset("controlled")
	s.Duration = 1
	exp := New(s)
	if err := exp.Setup(nil); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if exp.RodController() == nil {
		t.Fatal("expected a rod controller")
	}
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	pos := exp.RodController().Position
	if got := exp.Simulator().Config().Fission.RodAbsorption; got != pos {
		t.Errorf("simulator absorption %f does not follow controller %f", got, pos)
	}

	plain := New(smallScenario())
	if err := plain.Setup(nil); err != nil {
		t.Fatal(err)
	}
	if plain.RodController() != nil {
		t.Error("control should be off by default")
	}
}
