package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/chernoby/internal/config"
	"github.com/san-kum/chernoby/internal/experiment"
	"github.com/san-kum/chernoby/internal/reactor"
	"github.com/san-kum/chernoby/internal/storage"
)

// Batch is a scripted sequence of runs.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep selects a scenario by preset name or file and optionally
// overrides its seed and duration. Zero overrides keep the scenario value.
type BatchStep struct {
	Preset   string  `yaml:"preset"`
	Config   string  `yaml:"config"`
	Seed     int64   `yaml:"seed"`
	Duration float64 `yaml:"duration"`
	SaveAs   string  `yaml:"save_as"`
}

type StepResult struct {
	Scenario string
	RunID    string
	Result   *reactor.Result
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	return &batch, nil
}

func (s BatchStep) scenario() (*config.Scenario, error) {
	var sc *config.Scenario
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		sc = loaded
	case s.Preset != "":
		sc = config.GetPreset(s.Preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		sc = config.DefaultScenario()
	}

	if s.Seed != 0 {
		sc.Seed = s.Seed
	}
	if s.Duration > 0 {
		sc.Duration = s.Duration
	}
	if s.SaveAs != "" {
		sc.Name = s.SaveAs
	}
	return sc, nil
}

// RunBatch executes every step in order. Results are saved to store when
// it is non-nil. The first failing step stops the batch.
func RunBatch(ctx context.Context, batch *Batch, registry *experiment.Registry, store *storage.Store, log *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(batch.Steps))

	for i, step := range batch.Steps {
		sc, err := step.scenario()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("batch step", "step", i+1, "of", len(batch.Steps), "scenario", sc.Name, "seed", sc.Seed)

		exp := experiment.New(sc).WithLogger(log)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Scenario: sc.Name, Result: result}
		if store != nil {
			sr.RunID, err = store.Save(storage.RunMetadata{
				Scenario: sc.Name,
				Seed:     sc.Seed,
				Dt:       sc.Dt,
				Duration: sc.Duration,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig repeats a scenario over consecutive seeds.
type MonteCarloConfig struct {
	Scenario  *config.Scenario
	NumTrials int
	SeedStart int64
}

type MonteCarloResult struct {
	Seed           int64
	Final          reactor.Stats
	Multiplication float64
}

// Supercritical reports whether the trial produced more neutrons than it
// lost.
func (r MonteCarloResult) Supercritical() bool { return r.Multiplication > 1 }

// RunMonteCarlo runs the trials one after another.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, registry *experiment.Registry, log *slog.Logger) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		sc := cfg.Scenario.Clone()
		sc.Seed = cfg.SeedStart + int64(trial)

		mult, err := registry.GetMetric("multiplication")
		if err != nil {
			return nil, err
		}
		exp := experiment.New(sc)
		if err := exp.Setup([]reactor.Metric{mult}); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, MonteCarloResult{
			Seed:           sc.Seed,
			Final:          result.Final(),
			Multiplication: mult.Value(),
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// Summary aggregates Monte Carlo trials.
type Summary struct {
	Trials             int
	Supercritical      int
	MeanFissions       float64
	StdFissions        float64
	MeanMultiplication float64
}

func MonteCarloStats(results []MonteCarloResult) Summary {
	s := Summary{Trials: len(results)}
	if len(results) == 0 {
		return s
	}

	fissions := make([]float64, len(results))
	mults := make([]float64, len(results))
	for i, r := range results {
		fissions[i] = float64(r.Final.Fissions)
		mults[i] = r.Multiplication
		if r.Supercritical() {
			s.Supercritical++
		}
	}

	s.MeanFissions = stat.Mean(fissions, nil)
	if len(results) > 1 {
		s.StdFissions = stat.StdDev(fissions, nil)
	}
	s.MeanMultiplication = stat.Mean(mults, nil)
	return s
}
