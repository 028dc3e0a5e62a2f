package engine

import (
	"github.com/Scheiermann/supersolids-notes/internal/field"
	"github.com/Scheiermann/supersolids-notes/internal/grid"
)

// Snapshot is the opaque serializable state of an engine: the field plus
// the minimal scalars needed to rebuild everything else. A restored
// engine reproduces bit-identical subsequent steps, which is the contract
// checkpoint/resume depends on.
type Snapshot struct {
	Axes   []grid.Axis
	Psi    field.Mesh
	Pot    []float64
	Params Params
	Time   float64
	Steps  int
	Mu     float64
	Energy float64
	Norm   float64
}

// Snapshot deep-copies the engine state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Axes:   e.grid.Axes(),
		Psi:    e.psi.Clone(),
		Pot:    append([]float64(nil), e.pot...),
		Params: e.params,
		Time:   e.t,
		Steps:  e.steps,
		Mu:     e.mu,
		Energy: e.energy,
		Norm:   e.norm,
	}
}

// Restore rebuilds an engine from a snapshot. The grid and the static
// momentum-space propagator are reconstructed deterministically from the
// stored parameters, so no derived state needs to be serialized.
func Restore(s Snapshot) (*Engine, error) {
	g, err := grid.New(s.Axes...)
	if err != nil {
		return nil, err
	}

	e, err := New(g, s.Psi, s.Pot, s.Params)
	if err != nil {
		return nil, err
	}

	e.t = s.Time
	e.steps = s.Steps
	e.mu = s.Mu
	e.energy = s.Energy
	e.norm = s.Norm
	return e, nil
}
