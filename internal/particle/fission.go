package particle

import (
	"fmt"
	"math"
)

// MinFissileMass is the smallest mass for which a binary split is
// attempted. Lighter particles only produce the degenerate split.
const MinFissileMass = 3

const (
	asymmetryCoeff   = 0.18
	baseEmission     = 2.5
	emissionPerDelta = 0.1
	emissionPerInput = 0.02
	minSymmetry      = 0.6
)

// Split is one outcome of the fission model: fragments A and B plus Nu
// emitted neutrons, with A+B+Nu equal to the parent mass.
type Split struct {
	A, B        int
	Nu          int
	Probability float64
}

// Degenerate reports whether s is the no-fission outcome.
func (s Split) Degenerate() bool { return s.B == 0 && s.Nu == 0 }

func (s Split) Mass() int { return s.A + s.B + s.Nu }

func (s Split) String() string {
	return fmt.Sprintf("%d + %d + %dn (p=%.4f)", s.A, s.B, s.Nu, s.Probability)
}

// EnergyInput is an optional excitation energy, for example the kinetic
// energy of an absorbed neutron, on a 0-100 scale.
type EnergyInput struct {
	Value float64
	Valid bool
}

// NoEnergy is the absent energy input.
var NoEnergy = EnergyInput{}

func WithEnergy(e float64) EnergyInput {
	return EnergyInput{Value: e, Valid: true}
}

// Distribution enumerates the binary splits of a nucleus of the given mass
// with Gaussian weights over the mass asymmetry, normalised to sum to 1.
// Masses below MinFissileMass, and masses for which no candidate has two
// positive fragments, yield the single degenerate split {mass, 0, 0, 1}.
func Distribution(mass int, in EnergyInput) []Split {
	degenerate := []Split{{A: mass, Probability: 1}}
	if mass < MinFissileMass {
		return degenerate
	}

	m := float64(mass)
	delta0 := asymmetryCoeff * math.Pow(m, 2.0/3.0)
	nuBase := baseEmission
	if in.Valid {
		delta0 *= math.Max(minSymmetry, 1-in.Value/100)
		nuBase += emissionPerInput * in.Value
	}

	maxDelta := 2 * delta0
	step := math.Max(1, delta0/3)

	var splits []Split
	total := 0.0
	for delta := -maxDelta; delta <= maxDelta; delta += step {
		nu := int(math.Round(nuBase + emissionPerDelta*math.Abs(delta)))
		a := int(math.Round(float64(mass-nu)/2 + delta))
		b := (mass - nu) - a
		if a <= 0 || b <= 0 {
			continue
		}

		w := math.Exp(-(delta * delta) / (2 * delta0 * delta0))
		splits = append(splits, Split{A: a, B: b, Nu: nu, Probability: w})
		total += w
	}

	if len(splits) == 0 || total <= 0 {
		return degenerate
	}
	for i := range splits {
		splits[i].Probability /= total
	}
	return splits
}

// Sample picks a split by inverse-CDF lookup of u in [0,1) over the
// cumulative probabilities, in enumeration order. Rounding at the tail
// falls back to the last entry.
func Sample(dist []Split, u float64) Split {
	if len(dist) == 0 {
		return Split{}
	}
	cum := 0.0
	for _, s := range dist {
		cum += s.Probability
		if u <= cum {
			return s
		}
	}
	return dist[len(dist)-1]
}

// BohrWheeler returns the fission distribution for this particle's mass.
func (p *Particle) BohrWheeler(in EnergyInput) []Split {
	return Distribution(p.mass, in)
}

// Split samples one outcome from BohrWheeler using the particle's random
// source. The particle itself is not modified.
func (p *Particle) Split(in EnergyInput) Split {
	return Sample(p.BohrWheeler(in), p.rng.Float64())
}
