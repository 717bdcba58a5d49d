package reactor_test

import (
	"context"
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chernoby/internal/barrier"
	"github.com/san-kum/chernoby/internal/particle"
	"github.com/san-kum/chernoby/internal/reactor"
	"github.com/san-kum/chernoby/internal/vec"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type countingObserver struct{ calls int }

func (c *countingObserver) OnStep(reactor.Stats) { c.calls++ }

type lastFissions struct {
	value  float64
	resets int
}

func (m *lastFissions) Name() string            { return "fissions" }
func (m *lastFissions) Observe(s reactor.Stats) { m.value = float64(s.Fissions) }
func (m *lastFissions) Value() float64          { return m.value }
func (m *lastFissions) Reset()                  { m.value = 0; m.resets++ }

func moving(v vec.Vec2) particle.Option { return particle.WithVelocity(v) }

func totalMass(w *reactor.World) int {
	m := 0
	for _, p := range w.Particles {
		m += p.Mass()
	}
	return m
}

var _ = Describe("Config", func() {
	It("accepts the defaults", func() {
		Expect(reactor.DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects out-of-range values",
		func(mutate func(*reactor.Config)) {
			cfg := reactor.DefaultConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(reactor.ErrInvalidConfig))
		},
		Entry("zero dt", func(c *reactor.Config) { c.Dt = 0 }),
		Entry("negative dt", func(c *reactor.Config) { c.Dt = -0.1 }),
		Entry("zero duration", func(c *reactor.Config) { c.Duration = 0 }),
		Entry("restitution above one", func(c *reactor.Config) { c.Restitution = 1.5 }),
		Entry("negative restitution", func(c *reactor.Config) { c.Restitution = -0.1 }),
		Entry("negative particle cap", func(c *reactor.Config) { c.MaxParticles = -1 }),
		Entry("tiny fissile mass", func(c *reactor.Config) { c.Fission.FissileMass = 2 }),
		Entry("zero neutron lifetime", func(c *reactor.Config) { c.Fission.NeutronLifetime = 0 }),
		Entry("negative neutron speed", func(c *reactor.Config) { c.Fission.NeutronSpeed = -1 }),
		Entry("rod absorption above one", func(c *reactor.Config) { c.Fission.RodAbsorption = 2 }),
	)
})

var _ = Describe("Simulator", func() {
	var (
		world *reactor.World
		cfg   reactor.Config
	)

	BeforeEach(func() {
		world = &reactor.World{Width: 100, Height: 100}
		cfg = reactor.DefaultConfig()
		cfg.Dt = 0.05
		cfg.Duration = 1.0
		cfg.Seed = 1
	})

	Describe("Run", func() {
		It("records the initial stats and one entry per step", func() {
			s := reactor.New(world, cfg)
			result, err := s.Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(20))
			Expect(result.Stats).To(HaveLen(21))
			Expect(result.Final().Time).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("rejects an invalid configuration", func() {
			cfg.Dt = 0
			_, err := reactor.New(world, cfg).Run(context.Background())
			Expect(err).To(MatchError(reactor.ErrInvalidConfig))
		})

		It("rejects a world without area", func() {
			world.Width = 0
			_, err := reactor.New(world, cfg).Run(context.Background())
			Expect(err).To(MatchError(reactor.ErrEmptyWorld))
		})

		It("stops when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := reactor.New(world, cfg).Run(ctx)
			Expect(errors.Is(err, reactor.ErrCanceled)).To(BeTrue())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())

			var simErr *reactor.SimError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(0))
			Expect(result.StepsTaken).To(Equal(0))
		})

		It("feeds metrics and observers every step", func() {
			s := reactor.New(world, cfg)
			obs := &countingObserver{}
			m := &lastFissions{value: 7}
			s.AddObserver(obs)
			s.AddMetric(m)

			result, err := s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.calls).To(Equal(20))
			Expect(m.resets).To(Equal(1))
			Expect(result.Metrics).To(HaveKeyWithValue("fissions", 0.0))
		})

		It("clamps runtime rod absorption changes", func() {
			s := reactor.New(world, cfg)
			s.SetRodAbsorption(1.7)
			Expect(s.Config().Fission.RodAbsorption).To(Equal(1.0))
			s.SetRodAbsorption(-2)
			Expect(s.Config().Fission.RodAbsorption).To(Equal(0.0))
		})

		It("is deterministic for a seed", func() {
			build := func() *reactor.Simulator {
				r := rand.New(rand.NewSource(9))
				w := &reactor.World{Width: 200, Height: 200}
				for i := 0; i < 20; i++ {
					pos := vec.New(20+160*r.Float64(), 20+160*r.Float64())
					w.Add(particle.NewAtom(pos, particle.WithVelocity(vec.Zero)).SetAbsorptionProbability(0.9))
				}
				for i := 0; i < 5; i++ {
					w.Add(particle.NewNeutron(vec.New(100, 100), particle.WithRand(r)).SetTimeToLive(50))
				}
				c := cfg
				c.Duration = 20
				c.Seed = 3
				return reactor.New(w, c)
			}

			r1, err := build().Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			r2, err := build().Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(r1.Stats).To(Equal(r2.Stats))
		})
	})

	Describe("Step", func() {
		It("accumulates attraction for all pairs before integrating", func() {
			a := particle.New(vec.New(40, 50), moving(vec.Zero)).SetAttractionStrength(1)
			b := particle.New(vec.New(60, 50), moving(vec.Zero)).SetAttractionStrength(1)
			world.Add(a, b)

			reactor.New(world, cfg).Step()

			Expect(a.Velocity().X).To(BeNumerically(">", 0))
			Expect(a.Velocity().X).To(Equal(-b.Velocity().X))
			Expect(a.Acceleration().IsZero()).To(BeTrue())
			Expect(b.Acceleration().IsZero()).To(BeTrue())
		})

		It("bounces touching particles", func() {
			a := particle.New(vec.New(49.5, 50), moving(vec.New(1, 0)))
			b := particle.New(vec.New(50.5, 50), moving(vec.New(-1, 0)))
			world.Add(a, b)

			reactor.New(world, cfg).Step()

			Expect(a.Velocity().X).To(BeNumerically("~", -1, 1e-9))
			Expect(b.Velocity().X).To(BeNumerically("~", 1, 1e-9))
		})

		It("removes expired particles", func() {
			n := particle.NewNeutron(vec.New(50, 50), moving(vec.Zero)).SetTimeToLive(0.1)
			world.Add(n)
			s := reactor.New(world, cfg)

			Expect(s.Step().Neutrons).To(Equal(1))
			st := s.Step()
			Expect(st.Neutrons).To(Equal(0))
			Expect(st.Expired).To(Equal(1))
			Expect(st.NeutronsLost).To(Equal(1))
		})

		It("removes escaped particles", func() {
			world.Add(particle.New(vec.New(1, 50), moving(vec.New(-100, 0))).SetTimeToLive(10))

			st := reactor.New(world, cfg).Step()
			Expect(st.Particles).To(Equal(0))
			Expect(st.Escaped).To(Equal(1))
			Expect(st.NeutronsLost).To(Equal(0))
		})

		It("keeps atoms regardless of age", func() {
			world.Add(particle.NewAtom(vec.New(50, 50), moving(vec.Zero)).SetUnstable(false))
			s := reactor.New(world, cfg)
			for i := 0; i < 100; i++ {
				s.Step()
			}
			Expect(s.Stats().Atoms).To(Equal(1))
		})

		Context("with a rod", func() {
			BeforeEach(func() {
				world.AddRod(barrier.New(vec.New(40, 50), vec.New(60, 50)))
			})

			It("absorbs neutrons", func() {
				cfg.Fission.RodAbsorption = 1
				world.Add(particle.NewNeutron(vec.New(50, 50.3), moving(vec.New(0, -1))).SetTimeToLive(10))

				st := reactor.New(world, cfg).Step()
				Expect(st.Neutrons).To(Equal(0))
				Expect(st.RodAbsorbed).To(Equal(1))
				Expect(st.NeutronsLost).To(Equal(1))
			})

			It("reflects everything else", func() {
				p := particle.New(vec.New(50, 50.3), moving(vec.New(0, -1))).SetTimeToLive(10)
				world.Add(p)

				st := reactor.New(world, cfg).Step()
				Expect(st.Particles).To(Equal(1))
				Expect(p.Velocity().Y).To(BeNumerically("~", 1, 1e-9))
			})
		})

		Context("when a neutron hits an unstable atom", func() {
			var atom *particle.Particle

			BeforeEach(func() {
				world.Width, world.Height = 200, 200
				atom = particle.NewAtom(vec.New(100, 100), moving(vec.Zero)).
					SetMass(236).
					SetAbsorptionProbability(1)
				n := particle.NewNeutron(vec.New(109, 100), moving(vec.New(-1, 0))).SetTimeToLive(10)
				world.Add(atom, n)
			})

			It("induces fission and conserves mass", func() {
				st := reactor.New(world, cfg).Step()

				Expect(st.Captures).To(Equal(1))
				Expect(st.Fissions).To(Equal(1))
				Expect(st.Spontaneous).To(Equal(0))
				Expect(st.Atoms).To(Equal(2))
				Expect(st.Neutrons).To(Equal(st.NeutronsBorn))
				Expect(st.NeutronsBorn).To(BeNumerically(">", 0))
				Expect(totalMass(world)).To(Equal(236))
				Expect(world.Particles).NotTo(ContainElement(atom))

				for _, p := range world.Particles {
					if p.Is(particle.Atom) {
						Expect(p.Unstable()).To(BeFalse())
						Expect(p.Mass()).To(BeNumerically("<", cfg.Fission.FissileMass))
					}
				}
			})

			It("suppresses fission at the population cap", func() {
				cfg.MaxParticles = 2

				st := reactor.New(world, cfg).Step()
				Expect(st.Captures).To(Equal(1))
				Expect(st.Fissions).To(Equal(0))
				Expect(st.Particles).To(Equal(1))
				Expect(world.Particles).To(ContainElement(atom))
			})

			It("only captures when the atom is too light to split", func() {
				atom.SetMass(2)
				world.Particles[1].SetPosition(vec.New(101.2, 100))

				st := reactor.New(world, cfg).Step()
				Expect(st.Captures).To(Equal(1))
				Expect(st.Fissions).To(Equal(0))
				Expect(st.Atoms).To(Equal(1))
			})
		})

		It("lets unstable atoms decay spontaneously", func() {
			world.Width, world.Height = 200, 200
			world.Add(particle.NewAtom(vec.New(100, 100), moving(vec.Zero)).SetDecayProbability(1))

			st := reactor.New(world, cfg, reactor.WithRand(fixedRand(0))).Step()
			Expect(st.Fissions).To(Equal(1))
			Expect(st.Spontaneous).To(Equal(1))
			Expect(st.Atoms).To(Equal(2))
			Expect(totalMass(world)).To(Equal(particle.DefaultAtomMass))
		})
	})
})
