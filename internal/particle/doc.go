// Package particle implements the particle kernel: per-body state and
// lifecycle, semi-implicit Euler integration, softened attraction,
// impulse-based collisions and the Bohr-Wheeler fission model.
//
// A [Particle] owns its position, velocity and acceleration by value.
// Acceleration is a per-step accumulator: forces added with
// [Particle.AttractTo] are consumed and cleared by [Particle.Integrate].
//
// Setters never fail. Out-of-range input is ignored, or clamped where a
// clamp is meaningful:
//
//	p := particle.New(vec.New(10, 10)).
//		SetMass(235).
//		SetAbsorptionProbability(1.5) // stored as 1
//
// Variants ([Atom], [Neutron]) share the whole contract and only swap the
// derived formulas through their [Kind].
//
// # Thread Safety
//
// Particles are not safe for concurrent use. Bounce mutates both partners,
// so a driver that parallelises contacts must not hand overlapping pairs
// to different workers.
package particle
