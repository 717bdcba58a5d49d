package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chernoby/internal/reactor"
)

const (
	DefaultWidth    = 200.0
	DefaultHeight   = 120.0
	DefaultDt       = 0.05
	DefaultDuration = 30.0
	DefaultSeed     = 42

	DefaultAtoms      = 60
	DefaultAtomMass   = 235
	DefaultAtomSigma  = 4.0
	DefaultAbsorption = 0.3
	DefaultNeutrons   = 3
)

// ErrInvalidScenario is returned by Validate for scenarios that cannot be
// populated.
var ErrInvalidScenario = errors.New("config: invalid scenario")

type Scenario struct {
	Name         string        `yaml:"name"`
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	Dt           float64       `yaml:"dt"`
	Duration     float64       `yaml:"duration"`
	Seed         int64         `yaml:"seed"`
	Restitution  float64       `yaml:"restitution"`
	MaxParticles int           `yaml:"max_particles"`
	Atoms        AtomConfig    `yaml:"atoms"`
	Neutrons     NeutronConfig `yaml:"neutrons"`
	Rods         []RodConfig   `yaml:"rods,omitempty"`
	Fission      FissionConfig `yaml:"fission"`
	Control      ControlConfig `yaml:"control,omitempty"`
}

type AtomConfig struct {
	Count      int     `yaml:"count"`
	Mass       int     `yaml:"mass"`
	Sigma      float64 `yaml:"sigma"`
	Absorption float64 `yaml:"absorption"`
	Decay      float64 `yaml:"decay"`
	Attraction float64 `yaml:"attraction"`
	Unstable   bool    `yaml:"unstable"`
}

// NeutronConfig describes the seed neutrons released from the centre of
// the box at t=0.
type NeutronConfig struct {
	Count    int     `yaml:"count"`
	Speed    float64 `yaml:"speed"`
	Lifetime float64 `yaml:"lifetime"`
}

type RodConfig struct {
	Start     [2]float64 `yaml:"start,flow"`
	End       [2]float64 `yaml:"end,flow"`
	Thickness float64    `yaml:"thickness,omitempty"`
}

type FissionConfig struct {
	FissileMass     int     `yaml:"fissile_mass"`
	NeutronSpeed    float64 `yaml:"neutron_speed"`
	NeutronLifetime float64 `yaml:"neutron_lifetime"`
	FragmentSpeed   float64 `yaml:"fragment_speed"`
	EnergyScale     float64 `yaml:"energy_scale"`
	RodAbsorption   float64 `yaml:"rod_absorption"`
}

// ControlConfig enables a PID rod controller holding the neutron count at
// Target. A zero Target disables it. Limit bounds the integral term; zero
// leaves it unbounded.
type ControlConfig struct {
	Target float64 `yaml:"target"`
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Limit  float64 `yaml:"limit,omitempty"`
}

func (c ControlConfig) Enabled() bool { return c.Target > 0 }

func DefaultScenario() *Scenario {
	rc := reactor.DefaultConfig()
	return &Scenario{
		Name:         "default",
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		Seed:         DefaultSeed,
		Restitution:  rc.Restitution,
		MaxParticles: rc.MaxParticles,
		Atoms: AtomConfig{
			Count:      DefaultAtoms,
			Mass:       DefaultAtomMass,
			Sigma:      DefaultAtomSigma,
			Absorption: DefaultAbsorption,
			Unstable:   true,
		},
		Neutrons: NeutronConfig{
			Count:    DefaultNeutrons,
			Speed:    rc.Fission.NeutronSpeed,
			Lifetime: rc.Fission.NeutronLifetime,
		},
		Fission: FissionConfig{
			FissileMass:     rc.Fission.FissileMass,
			NeutronSpeed:    rc.Fission.NeutronSpeed,
			NeutronLifetime: rc.Fission.NeutronLifetime,
			FragmentSpeed:   rc.Fission.FragmentSpeed,
			EnergyScale:     rc.Fission.EnergyScale,
			RodAbsorption:   rc.Fission.RodAbsorption,
		},
	}
}

// Load reads a YAML scenario. Fields missing from the file keep their
// DefaultScenario values.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, safe to mutate.
func (s *Scenario) Clone() *Scenario {
	c := *s
	if s.Rods != nil {
		c.Rods = make([]RodConfig, len(s.Rods))
		copy(c.Rods, s.Rods)
	}
	return &c
}

// Validate checks the world layout and then the derived reactor
// configuration.
func (s *Scenario) Validate() error {
	switch {
	case !(s.Width > 0 && s.Height > 0):
		return fmt.Errorf("%w: box must have positive size, got %gx%g", ErrInvalidScenario, s.Width, s.Height)
	case s.Atoms.Count < 0 || s.Neutrons.Count < 0:
		return fmt.Errorf("%w: particle counts must be non-negative", ErrInvalidScenario)
	case s.Atoms.Count > 0 && s.Atoms.Mass <= 0:
		return fmt.Errorf("%w: atom mass must be positive, got %d", ErrInvalidScenario, s.Atoms.Mass)
	case s.Neutrons.Count > 0 && !(s.Neutrons.Lifetime > 0):
		return fmt.Errorf("%w: neutron lifetime must be positive, got %f", ErrInvalidScenario, s.Neutrons.Lifetime)
	}
	if s.Control.Enabled() && len(s.Rods) == 0 {
		return fmt.Errorf("%w: rod control needs at least one rod", ErrInvalidScenario)
	}
	for i, r := range s.Rods {
		if r.Thickness < 0 {
			return fmt.Errorf("%w: rod %d has negative thickness", ErrInvalidScenario, i)
		}
	}
	return s.ReactorConfig().Validate()
}

func (s *Scenario) ReactorConfig() reactor.Config {
	return reactor.Config{
		Dt:           s.Dt,
		Duration:     s.Duration,
		Seed:         s.Seed,
		Restitution:  s.Restitution,
		MaxParticles: s.MaxParticles,
		Fission: reactor.FissionPolicy{
			FissileMass:     s.Fission.FissileMass,
			NeutronSpeed:    s.Fission.NeutronSpeed,
			NeutronLifetime: s.Fission.NeutronLifetime,
			FragmentSpeed:   s.Fission.FragmentSpeed,
			EnergyScale:     s.Fission.EnergyScale,
			RodAbsorption:   s.Fission.RodAbsorption,
		},
	}
}
