package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// Forward applies the discrete Fourier transform jointly over every axis
// of the flat row-major mesh, in place. Shape must multiply out to
// len(data).
func Forward(data []complex128, shape []int) {
	transform(data, shape, fft.FFT)
}

// Inverse applies the inverse transform jointly over every axis, in
// place. The 1/N scaling is included, so Inverse(Forward(x)) == x up to
// rounding.
func Inverse(data []complex128, shape []int) {
	transform(data, shape, fft.IFFT)
}

// transform runs the 1-D transform along each axis in turn. A line along
// axis a starts at base = outer*(n*stride) + inner and strides by
// stride = prod(shape[a+1:]).
func transform(data []complex128, shape []int, fn func([]complex128) []complex128) {
	stride := 1
	for a := len(shape) - 1; a >= 0; a-- {
		n := shape[a]
		lines := len(data) / n
		lineStride := stride

		if n > 1 {
			parallelLines(lines, func(start, end int) {
				buf := make([]complex128, n)
				for line := start; line < end; line++ {
					outer := line / lineStride
					inner := line % lineStride
					base := outer*n*lineStride + inner

					for j := 0; j < n; j++ {
						buf[j] = data[base+j*lineStride]
					}
					out := fn(buf)
					for j := 0; j < n; j++ {
						data[base+j*lineStride] = out[j]
					}
				}
			})
		}
		stride *= n
	}
}
