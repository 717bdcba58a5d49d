package metrics

import "github.com/san-kum/chernoby/internal/reactor"

// Population is the mean number of live particles over the observed steps.
type Population struct {
	name    string
	total   float64
	samples int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(s reactor.Stats) {
	p.total += float64(s.Particles)
	p.samples++
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.total / float64(p.samples)
}

func (p *Population) Reset() {
	p.total = 0
	p.samples = 0
}

type PeakNeutrons struct {
	name string
	peak int
}

func NewPeakNeutrons() *PeakNeutrons {
	return &PeakNeutrons{name: "peak_neutrons"}
}

func (p *PeakNeutrons) Name() string { return p.name }

func (p *PeakNeutrons) Observe(s reactor.Stats) {
	p.peak = max(p.peak, s.Neutrons)
}

func (p *PeakNeutrons) Value() float64 { return float64(p.peak) }

func (p *PeakNeutrons) Reset() { p.peak = 0 }
