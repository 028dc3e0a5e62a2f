// Package field defines the dense complex amplitude mesh the propagation
// engine evolves, plus the finiteness checks used as blow-up diagnostics.
package field

import "math"

// Mesh is a flat row-major array of complex amplitudes over a grid.
type Mesh []complex128

// Clone returns a deep copy of the mesh.
func (m Mesh) Clone() Mesh {
	c := make(Mesh, len(m))
	copy(c, m)
	return c
}

// IsFinite reports whether every amplitude is free of NaN and Inf.
func (m Mesh) IsFinite() bool {
	for _, v := range m {
		re, im := real(v), imag(v)
		if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
			return false
		}
	}
	return true
}

// Scale multiplies every amplitude by s in place.
func (m Mesh) Scale(s complex128) {
	for i := range m {
		m[i] *= s
	}
}

// Density writes |psi|^2 per cell into dst, allocating when dst is nil
// or too short, and returns it.
func (m Mesh) Density(dst []float64) []float64 {
	if len(dst) < len(m) {
		dst = make([]float64, len(m))
	}
	dst = dst[:len(m)]
	for i, v := range m {
		re, im := real(v), imag(v)
		dst[i] = re*re + im*im
	}
	return dst
}

// MaxImag returns the largest absolute imaginary part, used to assert
// that fields expected to be real carry only numerical residue.
func (m Mesh) MaxImag() float64 {
	max := 0.0
	for _, v := range m {
		if im := math.Abs(imag(v)); im > max {
			max = im
		}
	}
	return max
}

// FromReal lifts a real-valued field into a complex mesh.
func FromReal(r []float64) Mesh {
	m := make(Mesh, len(r))
	for i, v := range r {
		m[i] = complex(v, 0)
	}
	return m
}
