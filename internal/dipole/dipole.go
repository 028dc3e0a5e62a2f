// Package dipole evaluates the momentum-space dipole-dipole interaction
// kernel 3*kz^2/k^2 - 1, including the explicit handling of the k = 0
// singularity.
package dipole

import (
	"math"

	"github.com/Scheiermann/supersolids-notes/internal/grid"
)

// Kernel evaluates the dipolar interaction factor for every wavevector of
// the grid. Axes the grid does not carry contribute kz = 0, so below three
// dimensions the kernel is the constant -1.
//
// At k = 0 the ratio 3*kz^2/k^2 is 0/0; the divisor is replaced by 1
// before the division, fixing the value there to exactly -1. The NaN
// scrub afterwards is a secondary safety net only, never the mechanism.
func Kernel(g *grid.Grid) []float64 {
	k2 := g.KSquared()
	kernel := make([]float64, g.Size())

	var kz []float64
	if g.Dim() == 3 {
		kz = g.Waves(2)
	}
	strides := g.Strides()
	shape := g.Shape()

	for i := range kernel {
		kzv := 0.0
		if kz != nil {
			kzv = kz[(i/strides[2])%shape[2]]
		}

		divisor := k2[i]
		if divisor == 0 {
			divisor = 1.0
		}
		v := 3.0*(kzv*kzv)/divisor - 1.0
		if math.IsNaN(v) {
			v = 0.0
		}
		kernel[i] = v
	}
	return kernel
}
