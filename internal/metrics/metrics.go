// Package metrics provides per-step diagnostics reducers for relaxation
// runs. Each metric satisfies the driver's Metric interface.
package metrics

import (
	"math"

	"github.com/Scheiermann/supersolids-notes/internal/engine"
)

// MuDrift tracks the relative change of the chemical-potential estimate
// between successive steps; its value is the last change seen, the same
// quantity the convergence halt tests.
type MuDrift struct {
	name    string
	prev    float64
	drift   float64
	samples int
}

func NewMuDrift() *MuDrift {
	return &MuDrift{name: "mu_drift", prev: math.NaN()}
}

func (m *MuDrift) Name() string { return m.name }

func (m *MuDrift) Observe(s engine.Stats) {
	if !math.IsNaN(m.prev) {
		denom := math.Abs(s.Mu)
		if denom == 0 {
			denom = 1.0
		}
		m.drift = math.Abs(s.Mu-m.prev) / denom
	}
	m.prev = s.Mu
	m.samples++
}

func (m *MuDrift) Value() float64 { return m.drift }

func (m *MuDrift) Reset() {
	m.prev = math.NaN()
	m.drift = 0
	m.samples = 0
}

// NormDecay tracks the largest one-step departure of the pre-rescale
// norm from 1. Imaginary-time decay shows up here; so does blow-up.
type NormDecay struct {
	name string
	max  float64
}

func NewNormDecay() *NormDecay {
	return &NormDecay{name: "norm_decay"}
}

func (n *NormDecay) Name() string { return n.name }

func (n *NormDecay) Observe(s engine.Stats) {
	dev := math.Abs(s.Norm - 1.0)
	if math.IsNaN(s.Norm) || math.IsInf(s.Norm, 0) {
		dev = math.Inf(1)
	}
	if dev > n.max {
		n.max = dev
	}
}

func (n *NormDecay) Value() float64 { return n.max }

func (n *NormDecay) Reset() { n.max = 0 }

// DipoleResidue reports the largest imaginary residue the dipolar
// convolution discarded; anything beyond numerical noise means the
// real-valuedness contract of the interaction term is broken.
type DipoleResidue struct {
	name string
	max  float64
}

func NewDipoleResidue() *DipoleResidue {
	return &DipoleResidue{name: "dipole_residue"}
}

func (d *DipoleResidue) Name() string { return d.name }

func (d *DipoleResidue) Observe(s engine.Stats) {
	if s.DipoleResidue > d.max {
		d.max = s.DipoleResidue
	}
}

func (d *DipoleResidue) Value() float64 { return d.max }

func (d *DipoleResidue) Reset() { d.max = 0 }
