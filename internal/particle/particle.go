package particle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/chernoby/internal/vec"
)

const (
	EnergyPower      = 0.7
	EnergyMultiplier = 10.0
)

const (
	DefaultTimeToLive            = 1.0
	DefaultMass                  = 1
	DefaultSigma                 = 1.0
	DefaultAbsorptionProbability = 0.1
)

// Rand is the random source a particle draws from.
type Rand interface {
	Float64() float64
}

// globalRand forwards to the goroutine-safe top-level math/rand source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Particle is a point body with a finite lifetime.
type Particle struct {
	position     vec.Vec2
	velocity     vec.Vec2
	acceleration vec.Vec2

	timeLived  float64
	timeToLive float64

	mass  int
	sigma float64

	attractionStrength    float64
	absorptionProbability float64
	decayProbability      float64
	unstable              bool

	kind Kind
	rng  Rand
}

type Option func(*options)

type options struct {
	velocity     *vec.Vec2
	acceleration vec.Vec2
	kind         Kind
	rng          Rand
}

func WithVelocity(v vec.Vec2) Option {
	return func(o *options) { o.velocity = &v }
}

func WithAcceleration(a vec.Vec2) Option {
	return func(o *options) { o.acceleration = a }
}

// WithRand sets the source used for the default velocity and for Split.
func WithRand(r Rand) Option {
	return func(o *options) { o.rng = r }
}

func WithKind(k Kind) Option {
	return func(o *options) { o.kind = k }
}

// New creates a particle at pos. Without WithVelocity the velocity is a
// random unit vector.
func New(pos vec.Vec2, opts ...Option) *Particle {
	o := options{kind: Generic, rng: globalRand{}}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Particle{
		position:              pos,
		acceleration:          o.acceleration,
		timeToLive:            DefaultTimeToLive,
		mass:                  DefaultMass,
		sigma:                 DefaultSigma,
		absorptionProbability: DefaultAbsorptionProbability,
		kind:                  o.kind,
		rng:                   o.rng,
	}
	if o.velocity != nil {
		p.velocity = *o.velocity
	} else {
		p.velocity = vec.Random(o.rng)
	}
	p.kind.Init(p)
	return p
}

// NewAt is shorthand for New(vec.New(x, y), opts...).
func NewAt(x, y float64, opts ...Option) *Particle {
	return New(vec.New(x, y), opts...)
}

func (p *Particle) Position() vec.Vec2     { return p.position }
func (p *Particle) Velocity() vec.Vec2     { return p.velocity }
func (p *Particle) Acceleration() vec.Vec2 { return p.acceleration }

func (p *Particle) TimeLived() float64             { return p.timeLived }
func (p *Particle) TimeToLive() float64            { return p.timeToLive }
func (p *Particle) Mass() int                      { return p.mass }
func (p *Particle) Sigma() float64                 { return p.sigma }
func (p *Particle) AttractionStrength() float64    { return p.attractionStrength }
func (p *Particle) AbsorptionProbability() float64 { return p.absorptionProbability }
func (p *Particle) DecayProbability() float64      { return p.decayProbability }
func (p *Particle) Unstable() bool                 { return p.unstable }

func (p *Particle) Kind() Kind     { return p.kind }
func (p *Particle) Is(k Kind) bool { return p.kind == k }

func (p *Particle) SetPosition(v vec.Vec2) *Particle {
	p.position = v
	return p
}

func (p *Particle) SetVelocity(v vec.Vec2) *Particle {
	p.velocity = v
	return p
}

func (p *Particle) SetAcceleration(v vec.Vec2) *Particle {
	p.acceleration = v
	return p
}

// SetTimeLived clamps negative values to zero.
func (p *Particle) SetTimeLived(v float64) *Particle {
	p.timeLived = math.Max(v, 0)
	return p
}

func (p *Particle) SetTimeToLive(v float64) *Particle {
	if v > 0 {
		p.timeToLive = v
	}
	return p
}

func (p *Particle) SetMass(v int) *Particle {
	if v > 0 {
		p.mass = v
	}
	return p
}

func (p *Particle) SetSigma(v float64) *Particle {
	if v > 0 {
		p.sigma = v
	}
	return p
}

func (p *Particle) SetAttractionStrength(v float64) *Particle {
	if v >= 0 {
		p.attractionStrength = v
	}
	return p
}

func (p *Particle) SetAbsorptionProbability(v float64) *Particle {
	p.absorptionProbability = clamp01(v)
	return p
}

func (p *Particle) SetDecayProbability(v float64) *Particle {
	p.decayProbability = clamp01(v)
	return p
}

func (p *Particle) SetUnstable(v bool) *Particle {
	p.unstable = v
	return p
}

// Radius is derived from mass and sigma: sqrt(mass / (pi * sigma)).
func (p *Particle) Radius() float64 {
	return math.Sqrt(float64(p.mass) / (math.Pi * p.sigma))
}

func (p *Particle) Energy() float64 { return p.kind.Energy(p) }

// Stiffness is 1/Energy. A neutron at rest has zero energy and infinite
// stiffness.
func (p *Particle) Stiffness() float64 { return 1 / p.Energy() }

func (p *Particle) String() string {
	return fmt.Sprintf("%s{m=%d pos=%v vel=%v t=%.2f/%.2f}",
		p.kind.Name(), p.mass, p.position, p.velocity, p.timeLived, p.timeToLive)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
