package driver

import (
	"context"
	"math"

	"github.com/Scheiermann/supersolids-notes/internal/engine"
)

// Metric observes per-step diagnostics and reduces them to one value.
type Metric interface {
	Name() string
	Observe(s engine.Stats)
	Value() float64
	Reset()
}

// Config bounds a run. MaxSteps <= 0 defers to the engine's budget;
// Accuracy <= 0 disables the early convergence halt.
type Config struct {
	Accuracy float64
	MaxSteps int
}

// Result is the per-run history the driver collects. The engine itself
// keeps no history; these are derived values with no independent
// lifecycle.
type Result struct {
	Times      []float64
	Mu         []float64
	Energy     []float64
	StepsTaken int
	Converged  bool
	Diverged   bool
	Metrics    map[string]float64
}

// Driver advances an engine until convergence, divergence, budget
// exhaustion or cancellation. Cancellation is honored between steps
// only; a step in flight always completes.
type Driver struct {
	eng     *engine.Engine
	metrics []Metric
}

func New(eng *engine.Engine) *Driver {
	return &Driver{eng: eng}
}

func (d *Driver) AddMetric(m Metric) { d.metrics = append(d.metrics, m) }

// Engine returns the driven engine for read access between steps.
func (d *Driver) Engine() *engine.Engine { return d.eng }

// Run steps the engine, recording mu, E and t after every step. It halts
// early when the relative change of mu between successive steps drops
// below cfg.Accuracy, and flags (without swallowing) a non-finite norm.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = d.eng.Params().StepBudget
	}

	result := &Result{
		Times:   make([]float64, 0, maxSteps),
		Mu:      make([]float64, 0, maxSteps),
		Energy:  make([]float64, 0, maxSteps),
		Metrics: make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	prevMu := math.NaN()
	for i := 0; i < maxSteps && !d.eng.Exhausted(); i++ {
		select {
		case <-ctx.Done():
			d.finish(result)
			return result, ctx.Err()
		default:
		}

		d.eng.Step()
		stats := d.eng.Stats()

		for _, m := range d.metrics {
			m.Observe(stats)
		}

		result.Times = append(result.Times, stats.Time)
		result.Mu = append(result.Mu, stats.Mu)
		result.Energy = append(result.Energy, stats.Energy)
		result.StepsTaken++

		if !stats.IsFinite() {
			result.Diverged = true
			break
		}

		if cfg.Accuracy > 0 && !math.IsNaN(prevMu) {
			if relativeChange(prevMu, stats.Mu) < cfg.Accuracy {
				result.Converged = true
				break
			}
		}
		prevMu = stats.Mu
	}

	d.finish(result)
	return result, nil
}

// RunWithCallback streams diagnostics after each step; returning false
// from the callback stops the run. This replaces a render-coupled
// generator loop: stepping cadence and drawing cadence stay independent.
func (d *Driver) RunWithCallback(ctx context.Context, cfg Config, callback func(engine.Stats) bool) error {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = d.eng.Params().StepBudget
	}

	for i := 0; i < maxSteps && !d.eng.Exhausted(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.eng.Step()
		if !callback(d.eng.Stats()) {
			return nil
		}
	}
	return nil
}

func (d *Driver) finish(result *Result) {
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func relativeChange(prev, cur float64) float64 {
	denom := math.Abs(cur)
	if denom == 0 {
		denom = 1.0
	}
	return math.Abs(cur-prev) / denom
}
