package reactor

import (
	"fmt"
	"math"

	"github.com/san-kum/chernoby/internal/barrier"
	"github.com/san-kum/chernoby/internal/particle"
)

// World is the simulated box [0,Width]x[0,Height] and its contents.
type World struct {
	Width     float64
	Height    float64
	Particles []*particle.Particle
	Rods      []*barrier.Rod
}

func (w *World) Add(ps ...*particle.Particle) { w.Particles = append(w.Particles, ps...) }

func (w *World) AddRod(rs ...*barrier.Rod) { w.Rods = append(w.Rods, rs...) }

// Count returns the number of particles of kind k.
func (w *World) Count(k particle.Kind) int {
	n := 0
	for _, p := range w.Particles {
		if p.Is(k) {
			n++
		}
	}
	return n
}

// Energy is the sum of the particles' characteristic energies.
func (w *World) Energy() float64 {
	e := 0.0
	for _, p := range w.Particles {
		e += p.Energy()
	}
	return e
}

// FissionPolicy decides what fission produces and when neutrons are lost.
type FissionPolicy struct {
	// FissileMass is the smallest fragment mass that is itself unstable.
	FissileMass int
	// NeutronSpeed and NeutronLifetime apply to emitted neutrons.
	NeutronSpeed    float64
	NeutronLifetime float64
	// FragmentSpeed is the recoil speed of each fragment.
	FragmentSpeed float64
	// EnergyScale converts a captured neutron's energy into the
	// excitation fed to the fission model.
	EnergyScale float64
	// RodAbsorption is the chance a neutron touching a rod is absorbed.
	RodAbsorption float64
}

type Config struct {
	Dt          float64
	Duration    float64
	Seed        int64
	Restitution float64
	// MaxParticles caps the population; fission is suppressed while the
	// cap would be exceeded. Zero means unlimited.
	MaxParticles int
	Fission      FissionPolicy
}

func DefaultConfig() Config {
	return Config{
		Dt:           0.05,
		Duration:     30.0,
		Restitution:  particle.Elastic,
		MaxParticles: 2000,
		Fission: FissionPolicy{
			FissileMass:     200,
			NeutronSpeed:    2.0,
			NeutronLifetime: 40.0,
			FragmentSpeed:   0.5,
			EnergyScale:     1.0,
			RodAbsorption:   0.8,
		},
	}
}

// Validate checks every range constraint and wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !(c.Dt > 0) || math.IsInf(c.Dt, 0):
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	case !(c.Duration > 0):
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Duration)
	case c.Restitution < 0 || c.Restitution > 1:
		return fmt.Errorf("%w: restitution must be in [0,1], got %f", ErrInvalidConfig, c.Restitution)
	case c.MaxParticles < 0:
		return fmt.Errorf("%w: max particles must be non-negative, got %d", ErrInvalidConfig, c.MaxParticles)
	case c.Fission.FissileMass < particle.MinFissileMass:
		return fmt.Errorf("%w: fissile mass must be at least %d, got %d", ErrInvalidConfig, particle.MinFissileMass, c.Fission.FissileMass)
	case c.Fission.NeutronSpeed < 0 || c.Fission.FragmentSpeed < 0:
		return fmt.Errorf("%w: emission speeds must be non-negative", ErrInvalidConfig)
	case !(c.Fission.NeutronLifetime > 0):
		return fmt.Errorf("%w: neutron lifetime must be positive, got %f", ErrInvalidConfig, c.Fission.NeutronLifetime)
	case c.Fission.EnergyScale < 0:
		return fmt.Errorf("%w: energy scale must be non-negative, got %f", ErrInvalidConfig, c.Fission.EnergyScale)
	case c.Fission.RodAbsorption < 0 || c.Fission.RodAbsorption > 1:
		return fmt.Errorf("%w: rod absorption must be in [0,1], got %f", ErrInvalidConfig, c.Fission.RodAbsorption)
	}
	return nil
}

// Stats summarises the world after a step. Counters are cumulative over
// the run.
type Stats struct {
	Step      int     `json:"step"`
	Time      float64 `json:"time"`
	Particles int     `json:"particles"`
	Atoms     int     `json:"atoms"`
	Neutrons  int     `json:"neutrons"`
	Energy    float64 `json:"energy"`

	Fissions     int `json:"fissions"`
	Spontaneous  int `json:"spontaneous"`
	Captures     int `json:"captures"`
	RodAbsorbed  int `json:"rod_absorbed"`
	Escaped      int `json:"escaped"`
	Expired      int `json:"expired"`
	NeutronsBorn int `json:"neutrons_born"`
	NeutronsLost int `json:"neutrons_lost"`
}

type Metric interface {
	Name() string
	Observe(s Stats)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Stats)
}

type Result struct {
	Stats      []Stats
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded stats.
func (r *Result) Final() Stats {
	if len(r.Stats) == 0 {
		return Stats{}
	}
	return r.Stats[len(r.Stats)-1]
}
