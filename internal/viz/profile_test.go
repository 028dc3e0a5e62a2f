package viz

import (
	"testing"

	"github.com/Scheiermann/supersolids-notes/internal/grid"
)

func TestCenterProfile1D(t *testing.T) {
	g, err := grid.New(grid.Axis{HalfWidth: 2, Resolution: 8})
	if err != nil {
		t.Fatal(err)
	}

	density := make([]float64, 8)
	for i := range density {
		density[i] = float64(i)
	}

	line := CenterProfile(g, density)
	if len(line) != 8 {
		t.Fatalf("expected 8 samples, got %d", len(line))
	}
	for i, v := range line {
		if v != float64(i) {
			t.Errorf("sample %d: expected %d, got %g", i, i, v)
		}
	}
}

func TestCenterProfile2DCutsThroughMidline(t *testing.T) {
	g, err := grid.New(
		grid.Axis{HalfWidth: 2, Resolution: 4},
		grid.Axis{HalfWidth: 2, Resolution: 8},
	)
	if err != nil {
		t.Fatal(err)
	}

	shape, strides := g.Shape(), g.Strides()
	density := make([]float64, g.Size())
	mid := shape[1] / 2
	for i := 0; i < shape[0]; i++ {
		density[i*strides[0]+mid*strides[1]] = float64(i + 1)
	}

	line := CenterProfile(g, density)
	if len(line) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(line))
	}
	for i, v := range line {
		if v != float64(i+1) {
			t.Errorf("sample %d: expected %d, got %g", i, i+1, v)
		}
	}
}
