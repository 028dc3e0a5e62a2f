package metrics

import (
	"math"
	"testing"

	"github.com/Scheiermann/supersolids-notes/internal/engine"
)

func TestMuDrift(t *testing.T) {
	m := NewMuDrift()

	m.Observe(engine.Stats{Mu: 1.0})
	if m.Value() != 0 {
		t.Errorf("expected zero drift after first sample, got %g", m.Value())
	}

	m.Observe(engine.Stats{Mu: 0.8})
	want := math.Abs(0.8-1.0) / 0.8
	if math.Abs(m.Value()-want) > 1e-15 {
		t.Errorf("expected drift %g, got %g", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
	m.Observe(engine.Stats{Mu: 0.5})
	if m.Value() != 0 {
		t.Error("reset should forget the previous sample")
	}
}

func TestNormDecayTracksWorstDeviation(t *testing.T) {
	n := NewNormDecay()

	n.Observe(engine.Stats{Norm: 0.99})
	n.Observe(engine.Stats{Norm: 0.999})
	if math.Abs(n.Value()-0.01) > 1e-15 {
		t.Errorf("expected 0.01, got %g", n.Value())
	}

	n.Observe(engine.Stats{Norm: math.NaN()})
	if !math.IsInf(n.Value(), 1) {
		t.Error("expected infinite deviation for NaN norm")
	}

	n.Reset()
	if n.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestDipoleResidue(t *testing.T) {
	d := NewDipoleResidue()

	d.Observe(engine.Stats{DipoleResidue: 1e-14})
	d.Observe(engine.Stats{DipoleResidue: 1e-16})
	if d.Value() != 1e-14 {
		t.Errorf("expected 1e-14, got %g", d.Value())
	}
}
