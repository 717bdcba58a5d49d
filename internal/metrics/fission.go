package metrics

import "github.com/san-kum/chernoby/internal/reactor"

// FissionRate is the number of fissions per unit of simulated time.
type FissionRate struct {
	name     string
	fissions int
	elapsed  float64
}

func NewFissionRate() *FissionRate {
	return &FissionRate{name: "fission_rate"}
}

func (f *FissionRate) Name() string { return f.name }

// Observe reads the run's cumulative counters, so only the latest sample
// matters.
func (f *FissionRate) Observe(s reactor.Stats) {
	f.fissions = s.Fissions
	f.elapsed = s.Time
}

func (f *FissionRate) Value() float64 {
	if f.elapsed <= 0 {
		return 0
	}
	return float64(f.fissions) / f.elapsed
}

func (f *FissionRate) Reset() {
	f.fissions = 0
	f.elapsed = 0
}

// Multiplication is neutrons born per neutron lost. Above one the chain
// reaction grows. With no losses yet it reports the births alone.
type Multiplication struct {
	name string
	born int
	lost int
}

func NewMultiplication() *Multiplication {
	return &Multiplication{name: "multiplication"}
}

func (m *Multiplication) Name() string { return m.name }

func (m *Multiplication) Observe(s reactor.Stats) {
	m.born = s.NeutronsBorn
	m.lost = s.NeutronsLost
}

func (m *Multiplication) Value() float64 {
	if m.lost == 0 {
		return float64(m.born)
	}
	return float64(m.born) / float64(m.lost)
}

func (m *Multiplication) Reset() {
	m.born = 0
	m.lost = 0
}
