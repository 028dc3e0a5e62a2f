package viz

import "github.com/Scheiermann/supersolids-notes/internal/grid"

// CenterProfile extracts the density line along the first axis through
// the midpoint of every other axis. For 1-D grids this is the whole
// density; for 2-D/3-D it is the cut a plot can actually show.
func CenterProfile(g *grid.Grid, density []float64) []float64 {
	shape := g.Shape()
	strides := g.Strides()

	base := 0
	for a := 1; a < g.Dim(); a++ {
		base += (shape[a] / 2) * strides[a]
	}

	line := make([]float64, shape[0])
	for i := range line {
		line[i] = density[base+i*strides[0]]
	}
	return line
}
