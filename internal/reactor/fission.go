package reactor

import (
	"github.com/san-kum/chernoby/internal/particle"
	"github.com/san-kum/chernoby/internal/vec"
)

// fission samples a split for parent and, unless the split is degenerate
// or the population cap is reached, replaces parent with two fragment
// atoms and Nu neutrons. It reports whether the parent split.
func (s *Simulator) fission(parent *particle.Particle, in particle.EnergyInput, spontaneous bool) bool {
	split := particle.Sample(parent.BohrWheeler(in), s.rng.Float64())
	if split.Degenerate() {
		return false
	}

	if limit := s.cfg.MaxParticles; limit > 0 && s.population()+1+split.Nu > limit {
		s.log.Debug("fission suppressed", "mass", parent.Mass(), "population", s.population(), "limit", limit)
		return false
	}

	s.remove(parent)
	policy := s.cfg.Fission
	pos, vel := parent.Position(), parent.Velocity()
	dir := vec.Random(s.rng)

	fragA := s.fragment(parent, split.A)
	fragB := s.fragment(parent, split.B)
	gap := (fragA.Radius() + fragB.Radius()) / 2
	fragA.SetPosition(pos.Add(dir.Scale(gap))).SetVelocity(vel.Add(dir.Scale(policy.FragmentSpeed)))
	fragB.SetPosition(pos.Sub(dir.Scale(gap))).SetVelocity(vel.Sub(dir.Scale(policy.FragmentSpeed)))
	s.spawned = append(s.spawned, fragA, fragB)

	for i := 0; i < split.Nu; i++ {
		d := vec.Random(s.rng)
		n := particle.NewNeutron(
			pos.Add(d.Scale(parent.Radius()+1)),
			particle.WithVelocity(d.Scale(policy.NeutronSpeed)),
			particle.WithRand(s.rng),
		).SetTimeToLive(policy.NeutronLifetime)
		s.spawned = append(s.spawned, n)
	}

	s.counters.Fissions++
	if spontaneous {
		s.counters.Spontaneous++
	}
	s.counters.NeutronsBorn += split.Nu

	s.log.Debug("fission",
		"t", s.t,
		"mass", parent.Mass(),
		"a", split.A,
		"b", split.B,
		"nu", split.Nu,
		"p", split.Probability,
		"spontaneous", spontaneous,
	)
	return true
}

// fragment builds a daughter atom that inherits the parent's material
// parameters. Only fragments at or above FissileMass stay unstable.
func (s *Simulator) fragment(parent *particle.Particle, mass int) *particle.Particle {
	return particle.NewAtom(parent.Position(),
		particle.WithVelocity(vec.Zero),
		particle.WithRand(s.rng),
	).
		SetMass(mass).
		SetSigma(parent.Sigma()).
		SetAttractionStrength(parent.AttractionStrength()).
		SetAbsorptionProbability(parent.AbsorptionProbability()).
		SetDecayProbability(parent.DecayProbability()).
		SetUnstable(mass >= s.cfg.Fission.FissileMass)
}
