package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/chernoby/internal/reactor"
)

type Regime int

const (
	Subcritical Regime = iota
	Critical
	Supercritical
)

func (r Regime) String() string {
	switch r {
	case Subcritical:
		return "subcritical"
	case Critical:
		return "critical"
	case Supercritical:
		return "supercritical"
	}
	return "unknown"
}

// Fit is the result of a log-linear fit ln(y+1) = Offset + Rate*t.
type Fit struct {
	Rate    float64
	Offset  float64
	RSquare float64
	Samples int
}

// DoublingTime is ln(2)/Rate, or +Inf when the series does not grow.
func (f Fit) DoublingTime() float64 {
	if f.Rate <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / f.Rate
}

// GrowthRate fits an exponential to ys over times. The +1 keeps empty
// populations finite. Fewer than two samples give a zero fit.
func GrowthRate(times, ys []float64) Fit {
	n := min(len(times), len(ys))
	if n < 2 {
		return Fit{Samples: n}
	}

	logs := make([]float64, n)
	for i := 0; i < n; i++ {
		logs[i] = math.Log(math.Max(ys[i], 0) + 1)
	}
	xs := times[:n]

	offset, rate := stat.LinearRegression(xs, logs, nil, false)
	r2 := stat.RSquared(xs, logs, nil, offset, rate)
	if math.IsNaN(r2) {
		r2 = 0
	}
	return Fit{Rate: rate, Offset: offset, RSquare: r2, Samples: n}
}

// Classify maps a growth rate to a regime. Rates within tol of zero are
// critical.
func Classify(rate, tol float64) Regime {
	switch {
	case rate > tol:
		return Supercritical
	case rate < -tol:
		return Subcritical
	}
	return Critical
}

// Columns splits stats into the time axis and one value series.
func Columns(stats []reactor.Stats, field func(s reactor.Stats) float64) ([]float64, []float64) {
	times := make([]float64, len(stats))
	ys := make([]float64, len(stats))
	for i, s := range stats {
		times[i] = s.Time
		ys[i] = field(s)
	}
	return times, ys
}

func Neutrons(s reactor.Stats) float64  { return float64(s.Neutrons) }
func Particles(s reactor.Stats) float64 { return float64(s.Particles) }
func Energy(s reactor.Stats) float64    { return s.Energy }
