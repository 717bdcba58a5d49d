package metrics

import (
	"math"

	"github.com/san-kum/chernoby/internal/reactor"
)

// PeakEnergy tracks the largest total world energy seen.
type PeakEnergy struct {
	name string
	peak float64
	seen bool
}

func NewPeakEnergy() *PeakEnergy {
	return &PeakEnergy{name: "peak_energy"}
}

func (e *PeakEnergy) Name() string { return e.name }

func (e *PeakEnergy) Observe(s reactor.Stats) {
	if !e.seen {
		e.peak = s.Energy
		e.seen = true
		return
	}
	e.peak = math.Max(e.peak, s.Energy)
}

func (e *PeakEnergy) Value() float64 { return e.peak }

func (e *PeakEnergy) Reset() {
	e.peak = 0
	e.seen = false
}
