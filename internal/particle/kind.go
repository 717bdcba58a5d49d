package particle

import (
	"math"

	"github.com/san-kum/chernoby/internal/vec"
)

// Kind supplies the variant-specific parts of a particle. Variants embed
// BaseKind and override only what differs.
type Kind interface {
	Name() string
	// Energy is the characteristic energy used for Stiffness and as a
	// fission excitation source.
	Energy(p *Particle) float64
	// Expired reports whether p has reached the end of its life.
	Expired(p *Particle) bool
	// Init applies the variant's default parameters to a new particle.
	Init(p *Particle)
}

// BaseKind is the generic particle contract.
type BaseKind struct{}

func (BaseKind) Name() string { return "particle" }

func (BaseKind) Energy(p *Particle) float64 { return MassEnergy(p) }

func (BaseKind) Expired(p *Particle) bool { return p.timeLived >= p.timeToLive }

func (BaseKind) Init(*Particle) {}

// MassEnergy is the mass power law 10 * mass^0.7.
func MassEnergy(p *Particle) float64 {
	return EnergyMultiplier * math.Pow(float64(p.mass), EnergyPower)
}

// KineticEnergy is 10 * mass * |v|^2.
func KineticEnergy(p *Particle) float64 {
	return EnergyMultiplier * float64(p.mass) * p.velocity.Dot(p.velocity)
}

const DefaultAtomMass = 235

type atomKind struct{ BaseKind }

func (atomKind) Name() string { return "atom" }

// Atoms are fuel: they leave the world by fission or escape, never by age.
func (atomKind) Expired(*Particle) bool { return false }

func (atomKind) Init(p *Particle) {
	p.mass = DefaultAtomMass
	p.unstable = true
}

type neutronKind struct{ BaseKind }

func (neutronKind) Name() string { return "neutron" }

func (neutronKind) Energy(p *Particle) float64 { return KineticEnergy(p) }

func (neutronKind) Init(p *Particle) {
	p.mass = 1
	p.decayProbability = 0
}

var (
	Generic Kind = BaseKind{}
	Atom    Kind = atomKind{}
	Neutron Kind = neutronKind{}
)

// NewAtom creates an unstable atom of DefaultAtomMass.
func NewAtom(pos vec.Vec2, opts ...Option) *Particle {
	return New(pos, append([]Option{WithKind(Atom)}, opts...)...)
}

// NewNeutron creates a unit-mass neutron.
func NewNeutron(pos vec.Vec2, opts ...Option) *Particle {
	return New(pos, append([]Option{WithKind(Neutron)}, opts...)...)
}
