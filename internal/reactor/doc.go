// Package reactor drives a population of particles through time.
//
// A [Simulator] owns a [World] (bounds, particles and rods) and advances it
// in fixed steps. Each step runs in a fixed order:
//
//  1. attraction is accumulated for every ordered pair;
//  2. every particle integrates (and clears its acceleration);
//  3. touching pairs interact: a neutron hitting an unstable atom may be
//     captured and induce fission, anything else bounces;
//  4. particles touching rods are absorbed (neutrons) or reflected;
//  5. particles age; expired and escaped ones are removed;
//  6. unstable atoms may fission spontaneously.
//
// Fission products join the world at the end of the step.
//
// # Example
//
//	w := &reactor.World{Width: 800, Height: 600}
//	w.Add(particle.NewAtom(vec.New(400, 300)))
//	s := reactor.New(w, reactor.DefaultConfig())
//	result, err := s.Run(ctx)
//
// # Thread Safety
//
// A Simulator and its World are NOT safe for concurrent use.
package reactor
