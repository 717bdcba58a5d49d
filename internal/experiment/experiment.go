package experiment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"

	"github.com/san-kum/chernoby/internal/barrier"
	"github.com/san-kum/chernoby/internal/config"
	"github.com/san-kum/chernoby/internal/control"
	"github.com/san-kum/chernoby/internal/particle"
	"github.com/san-kum/chernoby/internal/reactor"
	"github.com/san-kum/chernoby/internal/vec"
)

// ErrNotSetup is returned by Run before Setup.
var ErrNotSetup = errors.New("experiment not setup")

type Experiment struct {
	scenario   *config.Scenario
	simulator  *reactor.Simulator
	randSource *rand.Rand
	logger     *slog.Logger
	rods       *control.RodController
}

// New prepares an experiment for scenario. The same seed always yields the
// same world and the same run.
func New(scenario *config.Scenario) *Experiment {
	return &Experiment{
		scenario:   scenario,
		randSource: rand.New(rand.NewSource(scenario.Seed)),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (e *Experiment) WithLogger(l *slog.Logger) *Experiment {
	if l != nil {
		e.logger = l
	}
	return e
}

// Populate builds a fresh world: atoms at random interior positions, seed
// neutrons leaving the centre in random directions, and the scenario's
// rods.
func (e *Experiment) Populate() *reactor.World {
	s := e.scenario
	w := &reactor.World{Width: s.Width, Height: s.Height}

	for i := 0; i < s.Atoms.Count; i++ {
		a := particle.NewAtom(vec.Zero,
			particle.WithVelocity(vec.Zero),
			particle.WithRand(e.randSource),
		).
			SetMass(s.Atoms.Mass).
			SetSigma(s.Atoms.Sigma).
			SetAbsorptionProbability(s.Atoms.Absorption).
			SetDecayProbability(s.Atoms.Decay).
			SetAttractionStrength(s.Atoms.Attraction).
			SetUnstable(s.Atoms.Unstable)
		a.SetPosition(e.interior(a.Radius()))
		w.Add(a)
	}

	centre := vec.New(s.Width/2, s.Height/2)
	for i := 0; i < s.Neutrons.Count; i++ {
		dir := vec.Random(e.randSource)
		n := particle.NewNeutron(centre,
			particle.WithVelocity(dir.Scale(s.Neutrons.Speed)),
			particle.WithRand(e.randSource),
		).SetTimeToLive(s.Neutrons.Lifetime)
		w.Add(n)
	}

	for _, rc := range s.Rods {
		r := barrier.New(vec.New(rc.Start[0], rc.Start[1]), vec.New(rc.End[0], rc.End[1]))
		if rc.Thickness > 0 {
			r.SetThickness(rc.Thickness)
		}
		w.AddRod(r)
	}
	return w
}

// interior picks a point at least margin away from every edge, falling
// back to the whole box when it is too small for the margin.
func (e *Experiment) interior(margin float64) vec.Vec2 {
	s := e.scenario
	pick := func(size float64) float64 {
		if size <= 2*margin {
			return size * (0.5 + 0.5*(e.randSource.Float64()-0.5))
		}
		return margin + e.randSource.Float64()*(size-2*margin)
	}
	return vec.New(pick(s.Width), pick(s.Height))
}

// Setup populates the world and wires a simulator driven by the
// experiment's random source.
func (e *Experiment) Setup(metrics []reactor.Metric) error {
	if err := e.scenario.Validate(); err != nil {
		return err
	}
	world := e.Populate()
	e.simulator = reactor.New(world, e.scenario.ReactorConfig(),
		reactor.WithRand(e.randSource),
		reactor.WithLogger(e.logger),
	)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	if c := e.scenario.Control; c.Enabled() {
		pid := control.NewPID(c.Kp, c.Ki, c.Kd, c.Target)
		pid.IntegralLimit = c.Limit
		e.rods = control.NewRodController(pid, e.simulator, e.scenario.Fission.RodAbsorption)
		e.simulator.AddObserver(e.rods)
	}
	e.logger.Debug("experiment ready", "scenario", e.scenario.Name, "particles", len(world.Particles))
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*reactor.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	return e.simulator.Run(ctx)
}

func (e *Experiment) Scenario() *config.Scenario { return e.scenario }

// RodController is the scenario's rod controller, or nil when control is
// disabled.
func (e *Experiment) RodController() *control.RodController { return e.rods }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *reactor.Simulator {
	return e.simulator
}
