package profiles

import (
	"errors"
	"fmt"
	"math"

	"github.com/Scheiermann/supersolids-notes/internal/field"
	"github.com/Scheiermann/supersolids-notes/internal/grid"
)

var (
	// ErrNoThomasFermi indicates a Thomas-Fermi profile was requested for a
	// non-interacting gas; no such limit exists at g = 0.
	ErrNoThomasFermi = errors.New("profiles: no Thomas-Fermi limit for g = 0")

	// ErrSpecShape indicates per-axis parameters whose length does not match
	// the grid dimension.
	ErrSpecShape = errors.New("profiles: per-axis parameters must match grid dimension")
)

// GaussianSpec configures a Gaussian wave packet with independent per-axis
// widths and centers and a momentum kick along the first axis.
type GaussianSpec struct {
	Widths  []float64
	Centers []float64
	Kick    float64
}

// DefaultGaussian returns a unit-width packet centered at the origin.
func DefaultGaussian(dim int) GaussianSpec {
	w := make([]float64, dim)
	for i := range w {
		w[i] = 1.0
	}
	return GaussianSpec{Widths: w, Centers: make([]float64, dim)}
}

// Gaussian evaluates (prod_a (w_a sqrt(pi))^(-1/2)) * exp(-1/2 sum_a ((r_a-c_a)/w_a)^2 + i k0 x)
// over the grid.
func Gaussian(g *grid.Grid, spec GaussianSpec) (field.Mesh, error) {
	dim := g.Dim()
	if len(spec.Widths) != dim || len(spec.Centers) != dim {
		return nil, fmt.Errorf("%w: got %d widths, %d centers for dim %d",
			ErrSpecShape, len(spec.Widths), len(spec.Centers), dim)
	}
	for a, w := range spec.Widths {
		if w <= 0 {
			return nil, fmt.Errorf("profiles: width of axis %d must be positive, got %g", a, w)
		}
	}

	amp := 1.0
	for _, w := range spec.Widths {
		amp *= 1.0 / math.Sqrt(w*math.Sqrt(math.Pi))
	}

	psi := make(field.Mesh, g.Size())
	g.Each(func(i int, r []float64) {
		exponent := 0.0
		for a := 0; a < dim; a++ {
			d := (r[a] - spec.Centers[a]) / spec.Widths[a]
			exponent += d * d
		}
		mag := amp * math.Exp(-0.5*exponent)
		phase := spec.Kick * r[0]
		psi[i] = complex(mag*math.Cos(phase), mag*math.Sin(phase))
	})
	return psi, nil
}

// Rect evaluates a rectangular pulse of amplitude amp between min and max
// along the first axis, zero elsewhere.
func Rect(g *grid.Grid, min, max, amp float64) (field.Mesh, error) {
	if min >= max {
		return nil, fmt.Errorf("profiles: rect bounds inverted: [%g, %g)", min, max)
	}
	psi := make(field.Mesh, g.Size())
	any := false
	g.Each(func(i int, r []float64) {
		if r[0] >= min && r[0] < max {
			psi[i] = complex(amp, 0)
			any = true
		}
	})
	if !any {
		return nil, errors.New("profiles: rect pulse is identically zero, resolution too coarse")
	}
	return psi, nil
}

// HarmonicTrap evaluates 1/2 sum_a (scale_a r_a)^2. By convention the
// first scale is 1 and the remaining scales express trap anisotropy.
func HarmonicTrap(g *grid.Grid, scales []float64) ([]float64, error) {
	dim := g.Dim()
	if len(scales) != dim {
		return nil, fmt.Errorf("%w: got %d scales for dim %d", ErrSpecShape, len(scales), dim)
	}

	v := make([]float64, g.Size())
	g.Each(func(i int, r []float64) {
		sum := 0.0
		for a := 0; a < dim; a++ {
			s := scales[a] * r[a]
			sum += s * s
		}
		v[i] = 0.5 * sum
	})
	return v, nil
}

// IsotropicScales returns unit anisotropy scales for dim axes.
func IsotropicScales(dim int) []float64 {
	s := make([]float64, dim)
	for i := range s {
		s[i] = 1.0
	}
	return s
}

// ChemicalPotential returns the closed-form Thomas-Fermi chemical
// potential estimate for coupling g, which differs by dimensionality.
func ChemicalPotential(dim int, g float64) float64 {
	switch dim {
	case 1:
		return math.Pow((3.0*g)/(4.0*math.Sqrt2), 2.0/3.0)
	case 2:
		return math.Sqrt(g / math.Pi)
	default:
		return math.Pow((15.0*g)/(16.0*math.Sqrt2*math.Pi), 2.0/5.0)
	}
}

// ThomasFermi evaluates mu(g) * (1 - sum_a r_a^2 / (2 mu)) / g over the
// grid. There is no Thomas-Fermi limit for a non-interacting gas, so
// g = 0 yields ErrNoThomasFermi rather than a silent nil profile.
func ThomasFermi(g *grid.Grid, coupling float64) ([]float64, error) {
	if coupling == 0 {
		return nil, ErrNoThomasFermi
	}

	mu := ChemicalPotential(g.Dim(), coupling)
	dim := g.Dim()
	profile := make([]float64, g.Size())
	g.Each(func(i int, r []float64) {
		rsq := 0.0
		for a := 0; a < dim; a++ {
			rsq += r[a] * r[a]
		}
		profile[i] = mu * (1.0 - rsq/(2.0*mu)) / coupling
	})
	return profile, nil
}

// HarmonicGroundStateDensity returns exp(-x^2)/sqrt(pi) per sample, the
// exact g = 0 ground-state density of the 1-D harmonic trap. Used as a
// relaxation oracle.
func HarmonicGroundStateDensity(x []float64) []float64 {
	d := make([]float64, len(x))
	for i, v := range x {
		d[i] = math.Exp(-v*v) / math.Sqrt(math.Pi)
	}
	return d
}
