package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/chernoby/internal/metrics"
	"github.com/san-kum/chernoby/internal/reactor"
)

type Registry struct {
	metrics map[string]func() reactor.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() reactor.Metric),
	}

	r.metrics["population"] = func() reactor.Metric { return metrics.NewPopulation() }
	r.metrics["peak_neutrons"] = func() reactor.Metric { return metrics.NewPeakNeutrons() }
	r.metrics["peak_energy"] = func() reactor.Metric { return metrics.NewPeakEnergy() }
	r.metrics["fission_rate"] = func() reactor.Metric { return metrics.NewFissionRate() }
	r.metrics["multiplication"] = func() reactor.Metric { return metrics.NewMultiplication() }

	return r
}

func (r *Registry) GetMetric(name string) (reactor.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []reactor.Metric {
	out := make([]reactor.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
