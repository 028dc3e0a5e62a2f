package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxDim is the highest spatial dimension the spectral basis supports.
const MaxDim = 3

var (
	// ErrDimension indicates a dimension count outside 1..3.
	ErrDimension = errors.New("grid: spatial dimension must be 1, 2 or 3")

	// ErrResolution indicates a per-axis sample count that is not a positive power of two.
	ErrResolution = errors.New("grid: resolution must be a positive power of two")

	// ErrHalfWidth indicates a non-positive axis half-width.
	ErrHalfWidth = errors.New("grid: half-width must be positive")
)

// Axis describes one spatial direction sampled over [-HalfWidth, HalfWidth).
type Axis struct {
	HalfWidth  float64 `json:"half_width" yaml:"half_width"`
	Resolution int     `json:"resolution" yaml:"resolution"`
}

// Grid holds the real-space coordinate axes and the matching wavevector
// axes for a rectangular mesh. It is immutable after construction.
type Grid struct {
	axes      []Axis
	shape     []int
	strides   []int
	size      int
	positions [][]float64
	waves     [][]float64
	dx        []float64
	dk        []float64
	kSquared  []float64
	cellVol   float64
}

// New builds a grid from per-axis specifications. Resolutions must be
// positive powers of two so the DFT frequency convention stays exact.
func New(axes ...Axis) (*Grid, error) {
	dim := len(axes)
	if dim < 1 || dim > MaxDim {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, dim)
	}

	g := &Grid{
		axes:      append([]Axis(nil), axes...),
		shape:     make([]int, dim),
		strides:   make([]int, dim),
		positions: make([][]float64, dim),
		waves:     make([][]float64, dim),
		dx:        make([]float64, dim),
		dk:        make([]float64, dim),
		cellVol:   1.0,
		size:      1,
	}

	for a, ax := range axes {
		if ax.HalfWidth <= 0 {
			return nil, fmt.Errorf("%w: axis %d has half-width %g", ErrHalfWidth, a, ax.HalfWidth)
		}
		if !isPowerOfTwo(ax.Resolution) {
			return nil, fmt.Errorf("%w: axis %d has resolution %d", ErrResolution, a, ax.Resolution)
		}

		g.shape[a] = ax.Resolution
		g.size *= ax.Resolution
		g.dx[a] = 2.0 * ax.HalfWidth / float64(ax.Resolution)
		g.dk[a] = math.Pi / ax.HalfWidth
		g.cellVol *= g.dx[a]
		g.positions[a] = positionAxis(ax.HalfWidth, ax.Resolution, g.dx[a])
		g.waves[a] = waveAxis(ax.Resolution, g.dk[a])
	}

	for a := dim - 1; a >= 0; a-- {
		if a == dim-1 {
			g.strides[a] = 1
		} else {
			g.strides[a] = g.strides[a+1] * g.shape[a+1]
		}
	}

	g.kSquared = make([]float64, g.size)
	g.Each(func(i int, _ []float64) {
		sum := 0.0
		rem := i
		for a := 0; a < dim; a++ {
			idx := rem / g.strides[a]
			rem %= g.strides[a]
			k := g.waves[a][idx]
			sum += k * k
		}
		g.kSquared[i] = sum
	})

	return g, nil
}

// positionAxis samples [-L, L) in steps of dx, first sample at -L.
// A single-point axis degenerates to the origin.
func positionAxis(halfWidth float64, res int, dx float64) []float64 {
	x := make([]float64, res)
	if res == 1 {
		x[0] = 0.0
		return x
	}
	floats.Span(x, -halfWidth, halfWidth-dx)
	return x
}

// waveAxis lays out wavevector samples in DFT frequency order:
// non-negative frequencies ascending, then negative frequencies ascending.
func waveAxis(res int, dk float64) []float64 {
	k := make([]float64, res)
	for i := 0; i < res; i++ {
		freq := float64(i)
		if i >= (res+1)/2 {
			freq = float64(i - res)
		}
		k[i] = freq * dk
	}
	return k
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Dim returns the number of spatial dimensions.
func (g *Grid) Dim() int { return len(g.axes) }

// Shape returns the per-axis sample counts. Read-only.
func (g *Grid) Shape() []int { return g.shape }

// Strides returns the row-major flat-index strides. Read-only.
func (g *Grid) Strides() []int { return g.strides }

// Size returns the total number of grid cells.
func (g *Grid) Size() int { return g.size }

// CellVolume returns the Riemann cell volume, the product of axis spacings.
func (g *Grid) CellVolume() float64 { return g.cellVol }

// Axes returns the construction parameters of the grid.
func (g *Grid) Axes() []Axis { return append([]Axis(nil), g.axes...) }

// Positions returns the coordinate samples of axis a. Read-only.
func (g *Grid) Positions(a int) []float64 { return g.positions[a] }

// Waves returns the wavevector samples of axis a in DFT order. Read-only.
func (g *Grid) Waves(a int) []float64 { return g.waves[a] }

// Spacing returns the real-space sample spacing of axis a.
func (g *Grid) Spacing(a int) float64 { return g.dx[a] }

// WaveSpacing returns the wavevector spacing pi/L of axis a.
func (g *Grid) WaveSpacing(a int) float64 { return g.dk[a] }

// KSquared returns the squared-wavevector field broadcast over the full
// grid shape: the elementwise sum over axes of each wavevector sample
// squared. Read-only.
func (g *Grid) KSquared() []float64 { return g.kSquared }

// Each calls fn for every cell with its flat index and coordinates.
// The coordinate slice is reused between calls and must not be retained.
func (g *Grid) Each(fn func(i int, r []float64)) {
	dim := len(g.axes)
	r := make([]float64, dim)
	idx := make([]int, dim)
	for i := 0; i < g.size; i++ {
		for a := 0; a < dim; a++ {
			r[a] = g.positions[a][idx[a]]
		}
		fn(i, r)
		for a := dim - 1; a >= 0; a-- {
			idx[a]++
			if idx[a] < g.shape[a] {
				break
			}
			idx[a] = 0
		}
	}
}
