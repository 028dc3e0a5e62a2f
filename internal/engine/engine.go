package engine

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/Scheiermann/supersolids-notes/internal/dipole"
	"github.com/Scheiermann/supersolids-notes/internal/field"
	"github.com/Scheiermann/supersolids-notes/internal/grid"
	"github.com/Scheiermann/supersolids-notes/internal/spectral"
)

// Mode selects the evolution convention e^{-iHt} = e^{UHt}.
type Mode int

const (
	// ImagTime relaxes towards the ground state; U = -1. Non-unitary, so
	// every step renormalizes the field.
	ImagTime Mode = iota

	// RealTime propagates dynamics; U = -i.
	RealTime
)

func (m Mode) String() string {
	if m == RealTime {
		return "real_time"
	}
	return "imag_time"
}

// ParseMode maps the wire names used by snapshots and configs back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "imag_time":
		return ImagTime, nil
	case "real_time":
		return RealTime, nil
	}
	return ImagTime, fmt.Errorf("engine: unknown mode %q", s)
}

var (
	// ErrFieldShape indicates an initial field or potential whose length
	// does not match the grid.
	ErrFieldShape = errors.New("engine: field length does not match grid size")

	// ErrTimestep indicates a non-positive timestep.
	ErrTimestep = errors.New("engine: timestep must be positive")

	// ErrStepBudget indicates a non-positive step budget.
	ErrStepBudget = errors.New("engine: step budget must be positive")

	// ErrVortexDimension indicates a vortex imprint on a 1-D grid.
	ErrVortexDimension = errors.New("engine: vortex imprinting needs at least 2 dimensions")
)

// Params carries the physical and numerical constants of a propagation.
type Params struct {
	G          float64 // contact coupling constant
	GDipole    float64 // dipolar coupling; 0 disables the convolution term
	Dt         float64
	Mode       Mode
	StepBudget int
}

// Stats is the per-step diagnostic snapshot exposed to drivers. All
// values are derived from the field; blow-up shows up here as a
// non-finite norm rather than as an engine error.
type Stats struct {
	Step          int
	Time          float64
	Mu            float64
	Energy        float64
	Norm          float64 // p=2 norm integral before the rescale
	DipoleResidue float64 // largest imaginary residue seen in the dipolar term
}

// IsFinite reports whether the diagnostics are numerically sound.
func (s Stats) IsFinite() bool {
	for _, v := range []float64{s.Time, s.Mu, s.Energy, s.Norm} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Norm > 0
}

// Engine owns the evolving complex field and advances it one symmetrized
// split-step per call. It is not reentrant: no two goroutines may call
// Step on the same instance.
type Engine struct {
	grid   *grid.Grid
	psi    field.Mesh
	pot    []float64
	params Params

	u    complex128
	hKin []complex128

	ddKernel  []float64
	ddBuf     field.Mesh
	ddTerm    []float64
	ddResidue float64

	density []float64

	t      float64
	mu     float64
	energy float64
	norm   float64
	steps  int
}

// New validates the configuration, precomputes the static momentum-space
// propagator and returns a ready engine. No partial engine is returned on
// a configuration error.
func New(g *grid.Grid, psi0 field.Mesh, potential []float64, p Params) (*Engine, error) {
	if len(psi0) != g.Size() {
		return nil, fmt.Errorf("%w: field %d, grid %d", ErrFieldShape, len(psi0), g.Size())
	}
	if len(potential) != g.Size() {
		return nil, fmt.Errorf("%w: potential %d, grid %d", ErrFieldShape, len(potential), g.Size())
	}
	if p.Dt <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrTimestep, p.Dt)
	}
	if p.StepBudget <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrStepBudget, p.StepBudget)
	}

	e := &Engine{
		grid:    g,
		psi:     psi0.Clone(),
		pot:     append([]float64(nil), potential...),
		params:  p,
		density: make([]float64, g.Size()),
	}

	e.u = complex(-1, 0)
	if p.Mode == RealTime {
		e.u = complex(0, -1)
	}

	// H_kin = exp(U * k^2/2 * dt): static, the field-independent half of
	// the splitting.
	k2 := g.KSquared()
	e.hKin = make([]complex128, g.Size())
	for i := range e.hKin {
		e.hKin[i] = cmplx.Exp(e.u * complex(0.5*k2[i]*p.Dt, 0))
	}

	if p.GDipole != 0 {
		e.ddKernel = dipole.Kernel(g)
		e.ddBuf = make(field.Mesh, g.Size())
		e.ddTerm = make([]float64, g.Size())
	}

	return e, nil
}

// Step advances the field by one symmetrized split-step and recomputes
// the scalar diagnostics. Once the step budget is exhausted the call is a
// no-op; the engine has no other terminal state.
func (e *Engine) Step() {
	if e.Exhausted() {
		return
	}

	shape := e.grid.Shape()

	e.applyPotentialHalfStep()

	spectral.Forward(e.psi, shape)
	for i := range e.psi {
		e.psi[i] *= e.hKin[i]
	}
	spectral.Inverse(e.psi, shape)

	// Second half-step from the now-updated field: the nonlinearity is
	// field-dependent, so H_pot cannot be reused.
	e.applyPotentialHalfStep()

	e.t += e.params.Dt

	// Imaginary-time propagation is non-unitary; the rescale keeps the
	// amplitude from drifting. Its decay rate is the chemical potential.
	norm2 := e.normIntegral(e.density)
	e.norm = norm2
	e.psi.Scale(complex(1.0/math.Sqrt(norm2), 0))

	e.psi.Density(e.density)
	norm4 := floats.Dot(e.density, e.density) * e.grid.CellVolume()

	e.mu = -math.Log(norm2) / (2.0 * e.params.Dt)
	e.energy = e.mu - 0.5*e.params.G*norm4
	e.steps++
}

// applyPotentialHalfStep recomputes H_pot from the current field and
// multiplies it in: exp(U * (V + g|psi|^2 [+ g_dd * Phi_dd]) * dt/2).
func (e *Engine) applyPotentialHalfStep() {
	e.psi.Density(e.density)

	if e.ddKernel != nil {
		e.computeDipolarTerm()
	}

	halfDt := 0.5 * e.params.Dt
	for i := range e.psi {
		v := e.pot[i] + e.params.G*e.density[i]
		if e.ddTerm != nil {
			v += e.params.GDipole * e.ddTerm[i]
		}
		e.psi[i] *= cmplx.Exp(e.u * complex(v*halfDt, 0))
	}
}

// computeDipolarTerm evaluates the dipolar mean field as a convolution:
// Phi_dd = IFFT(kernel * FFT(|psi|^2)). The result of convolving two real
// fields is real; the imaginary residue is discarded but tracked so the
// driver can assert it stays negligible.
func (e *Engine) computeDipolarTerm() {
	shape := e.grid.Shape()
	for i, d := range e.density {
		e.ddBuf[i] = complex(d, 0)
	}
	spectral.Forward(e.ddBuf, shape)
	for i := range e.ddBuf {
		e.ddBuf[i] *= complex(e.ddKernel[i], 0)
	}
	spectral.Inverse(e.ddBuf, shape)

	for i, v := range e.ddBuf {
		e.ddTerm[i] = real(v)
		if im := math.Abs(imag(v)); im > e.ddResidue {
			e.ddResidue = im
		}
	}
}

// normIntegral computes the p=2 norm Riemann sum, leaving |psi|^2 in dst.
func (e *Engine) normIntegral(dst []float64) float64 {
	e.psi.Density(dst)
	return floats.Sum(dst) * e.grid.CellVolume()
}

// ImprintVortex multiplies a phase winding of the given charge around
// (x0, y0) into the field. Call it between steps only.
func (e *Engine) ImprintVortex(x0, y0 float64, charge int) error {
	if e.grid.Dim() < 2 {
		return ErrVortexDimension
	}
	if charge == 0 {
		return nil
	}

	q := float64(charge)
	e.grid.Each(func(i int, r []float64) {
		phase := q * math.Atan2(r[1]-y0, r[0]-x0)
		e.psi[i] *= cmplx.Exp(complex(0, phase))
	})
	return nil
}

// SetPotential swaps the stationary potential between steps, e.g. for a
// driver ramping the trap.
func (e *Engine) SetPotential(potential []float64) error {
	if len(potential) != e.grid.Size() {
		return fmt.Errorf("%w: potential %d, grid %d", ErrFieldShape, len(potential), e.grid.Size())
	}
	copy(e.pot, potential)
	return nil
}

// SetG adjusts the contact coupling between steps.
func (e *Engine) SetG(g float64) { e.params.G = g }

// Grid returns the engine's grid, shared read-only with collaborators.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Psi returns a copy of the current field.
func (e *Engine) Psi() field.Mesh { return e.psi.Clone() }

// Density writes the current |psi|^2 into dst (allocated when nil).
func (e *Engine) Density(dst []float64) []float64 { return e.psi.Density(dst) }

// Potential returns the stationary potential, read-only.
func (e *Engine) Potential() []float64 { return e.pot }

// Params returns the propagation constants.
func (e *Engine) Params() Params { return e.params }

// Time returns the simulated time.
func (e *Engine) Time() float64 { return e.t }

// Mu returns the chemical-potential estimate from the last step.
func (e *Engine) Mu() float64 { return e.mu }

// Energy returns the energy estimate from the last step.
func (e *Engine) Energy() float64 { return e.energy }

// StepCount returns the number of completed steps.
func (e *Engine) StepCount() int { return e.steps }

// Exhausted reports whether the step budget is spent.
func (e *Engine) Exhausted() bool { return e.steps >= e.params.StepBudget }

// Stats returns the current diagnostics.
func (e *Engine) Stats() Stats {
	return Stats{
		Step:          e.steps,
		Time:          e.t,
		Mu:            e.mu,
		Energy:        e.energy,
		Norm:          e.norm,
		DipoleResidue: e.ddResidue,
	}
}
