package reactor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"

	"github.com/san-kum/chernoby/internal/particle"
)

type Simulator struct {
	world     *World
	cfg       Config
	rng       particle.Rand
	log       *slog.Logger
	metrics   []Metric
	observers []Observer

	t        float64
	step     int
	counters Stats

	removed map[*particle.Particle]bool
	spawned []*particle.Particle
}

type Option func(*Simulator)

// WithRand replaces the Seed-derived random source.
func WithRand(r particle.Rand) Option {
	return func(s *Simulator) { s.rng = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

func New(world *World, cfg Config, opts ...Option) *Simulator {
	s := &Simulator{
		world:     world,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		removed:   make(map[*particle.Particle]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetRodAbsorption changes the chance a rod absorbs a neutron from the
// next step on. Values are clamped to [0,1].
func (s *Simulator) SetRodAbsorption(v float64) {
	s.cfg.Fission.RodAbsorption = min(max(v, 0), 1)
}

func (s *Simulator) World() *World  { return s.world }
func (s *Simulator) Config() Config { return s.cfg }
func (s *Simulator) Time() float64  { return s.t }

// Stats reports the current world population and the cumulative counters.
func (s *Simulator) Stats() Stats {
	st := s.counters
	st.Step = s.step
	st.Time = s.t
	st.Particles = len(s.world.Particles)
	st.Atoms = s.world.Count(particle.Atom)
	st.Neutrons = s.world.Count(particle.Neutron)
	st.Energy = s.world.Energy()
	return st
}

// Run validates the configuration and steps the world for Duration. The
// returned Result holds the initial stats followed by one entry per step.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if !(s.world.Width > 0 && s.world.Height > 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrEmptyWorld, s.world.Width, s.world.Height)
	}

	steps := int(math.Floor(s.cfg.Duration/s.cfg.Dt + 1e-9))
	result := &Result{
		Stats:   make([]Stats, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Stats = append(result.Stats, s.Stats())
	s.log.Info("run started", "particles", len(s.world.Particles), "rods", len(s.world.Rods), "steps", steps)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, &SimError{
				Time:    s.t,
				Step:    s.step,
				Message: "canceled",
				Wrapped: fmt.Errorf("%w: %w", ErrCanceled, ctx.Err()),
			}
		default:
		}

		result.Stats = append(result.Stats, s.Step())
		result.StepsTaken++
	}

	s.collect(result)
	final := result.Final()
	s.log.Info("run finished", "steps", result.StepsTaken, "fissions", final.Fissions, "particles", final.Particles)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Step advances the world by one Dt and returns the resulting stats.
func (s *Simulator) Step() Stats {
	dt := s.cfg.Dt
	ps := s.world.Particles
	clear(s.removed)
	s.spawned = s.spawned[:0]

	s.accumulateForces(ps)
	for _, p := range ps {
		p.Integrate(dt)
	}
	s.resolveContacts(ps)
	s.resolveRods(ps)
	s.applyLifecycle(ps, dt)
	s.applyDecay(ps, dt)
	s.commit()

	s.t += dt
	s.step++

	st := s.Stats()
	for _, m := range s.metrics {
		m.Observe(st)
	}
	for _, o := range s.observers {
		o.OnStep(st)
	}
	return st
}

// accumulateForces must finish for every pair before any particle
// integrates.
func (s *Simulator) accumulateForces(ps []*particle.Particle) {
	for i, a := range ps {
		if a.AttractionStrength() == 0 {
			continue
		}
		for j, b := range ps {
			if i != j {
				a.AttractTo(b)
			}
		}
	}
}

func (s *Simulator) resolveContacts(ps []*particle.Particle) {
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			a, b := ps[i], ps[j]
			if s.removed[a] {
				break
			}
			if s.removed[b] || !a.IsCollided(b) {
				continue
			}
			if s.tryCapture(a, b) || s.tryCapture(b, a) {
				continue
			}
			a.Bounce(b, s.cfg.Restitution)
		}
	}
}

// tryCapture lets an unstable atom absorb a neutron with the atom's
// absorption probability. A capture always removes the neutron and then
// attempts induced fission.
func (s *Simulator) tryCapture(n, atom *particle.Particle) bool {
	if !n.Is(particle.Neutron) || !atom.Is(particle.Atom) || !atom.Unstable() {
		return false
	}
	if s.rng.Float64() >= atom.AbsorptionProbability() {
		return false
	}

	s.remove(n)
	s.counters.Captures++
	s.counters.NeutronsLost++

	in := particle.WithEnergy(n.Energy() * s.cfg.Fission.EnergyScale)
	s.fission(atom, in, false)
	return true
}

func (s *Simulator) resolveRods(ps []*particle.Particle) {
	if len(s.world.Rods) == 0 {
		return
	}
	for _, p := range ps {
		if s.removed[p] {
			continue
		}
		for _, r := range s.world.Rods {
			if !r.IsCollided(p) {
				continue
			}
			if p.Is(particle.Neutron) && s.rng.Float64() < s.cfg.Fission.RodAbsorption {
				s.remove(p)
				s.counters.RodAbsorbed++
				s.counters.NeutronsLost++
				break
			}
			r.Reflect(p, s.cfg.Restitution)
		}
	}
}

func (s *Simulator) applyLifecycle(ps []*particle.Particle, dt float64) {
	for _, p := range ps {
		if s.removed[p] {
			continue
		}
		p.Age(dt)
		switch {
		case p.IsDead():
			s.counters.Expired++
		case p.IsOutside(s.world.Width, s.world.Height):
			s.counters.Escaped++
		default:
			continue
		}
		s.remove(p)
		if p.Is(particle.Neutron) {
			s.counters.NeutronsLost++
		}
	}
}

// applyDecay gives every unstable particle a decay*dt chance to split
// without an energy input.
func (s *Simulator) applyDecay(ps []*particle.Particle, dt float64) {
	for _, p := range ps {
		if s.removed[p] || !p.Unstable() || p.DecayProbability() == 0 {
			continue
		}
		if s.rng.Float64() < p.DecayProbability()*dt {
			s.fission(p, particle.NoEnergy, true)
		}
	}
}

func (s *Simulator) remove(p *particle.Particle) { s.removed[p] = true }

// population counts the particles alive once the current step commits.
func (s *Simulator) population() int {
	return len(s.world.Particles) - len(s.removed) + len(s.spawned)
}

func (s *Simulator) commit() {
	if len(s.removed) == 0 && len(s.spawned) == 0 {
		return
	}
	kept := make([]*particle.Particle, 0, s.population())
	for _, p := range s.world.Particles {
		if !s.removed[p] {
			kept = append(kept, p)
		}
	}
	s.world.Particles = append(kept, s.spawned...)
}
