package grid

import (
	"errors"
	"math"
	"testing"
)

func TestNewRejectsBadDimension(t *testing.T) {
	_, err := New()
	if !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension for 0 axes, got %v", err)
	}

	axes := []Axis{{5, 8}, {5, 8}, {5, 8}, {5, 8}}
	_, err = New(axes...)
	if !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension for 4 axes, got %v", err)
	}
}

func TestNewRejectsNonPowerOfTwoResolution(t *testing.T) {
	_, err := New(Axis{HalfWidth: 5, Resolution: 63})
	if !errors.Is(err, ErrResolution) {
		t.Errorf("expected ErrResolution for 63, got %v", err)
	}

	_, err = New(Axis{HalfWidth: 5, Resolution: 0})
	if !errors.Is(err, ErrResolution) {
		t.Errorf("expected ErrResolution for 0, got %v", err)
	}

	_, err = New(Axis{HalfWidth: 5, Resolution: -64})
	if !errors.Is(err, ErrResolution) {
		t.Errorf("expected ErrResolution for -64, got %v", err)
	}
}

func TestNewRejectsBadHalfWidth(t *testing.T) {
	_, err := New(Axis{HalfWidth: 0, Resolution: 64})
	if !errors.Is(err, ErrHalfWidth) {
		t.Errorf("expected ErrHalfWidth, got %v", err)
	}
}

func TestPositionAxis(t *testing.T) {
	g, err := New(Axis{HalfWidth: 5, Resolution: 64})
	if err != nil {
		t.Fatal(err)
	}

	x := g.Positions(0)
	if len(x) != 64 {
		t.Fatalf("expected 64 samples, got %d", len(x))
	}

	dx := 2.0 * 5.0 / 64.0
	if g.Spacing(0) != dx {
		t.Errorf("expected dx %g, got %g", dx, g.Spacing(0))
	}
	if x[0] != -5.0 {
		t.Errorf("expected first sample -5, got %g", x[0])
	}

	last := 5.0 - dx
	if math.Abs(x[63]-last) > 1e-12 {
		t.Errorf("expected last sample %g, got %g", last, x[63])
	}
	for i := 1; i < len(x); i++ {
		if math.Abs((x[i]-x[i-1])-dx) > 1e-12 {
			t.Fatalf("non-uniform spacing at %d: %g", i, x[i]-x[i-1])
		}
	}
}

func TestWaveAxisOrdering(t *testing.T) {
	g, err := New(Axis{HalfWidth: 5, Resolution: 8})
	if err != nil {
		t.Fatal(err)
	}

	dk := math.Pi / 5.0
	if g.WaveSpacing(0) != dk {
		t.Errorf("expected dk %g, got %g", dk, g.WaveSpacing(0))
	}

	want := []float64{0, 1, 2, 3, -4, -3, -2, -1}
	k := g.Waves(0)
	for i, f := range want {
		if k[i] != f*dk {
			t.Errorf("k[%d]: expected %g, got %g", i, f*dk, k[i])
		}
	}
}

func TestKSquaredBroadcast(t *testing.T) {
	g, err := New(Axis{HalfWidth: 2, Resolution: 4}, Axis{HalfWidth: 3, Resolution: 2})
	if err != nil {
		t.Fatal(err)
	}

	if g.Size() != 8 {
		t.Fatalf("expected 8 cells, got %d", g.Size())
	}

	kx := g.Waves(0)
	ky := g.Waves(1)
	k2 := g.KSquared()
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			want := kx[i]*kx[i] + ky[j]*ky[j]
			got := k2[i*2+j]
			if got != want {
				t.Errorf("k2[%d,%d]: expected %g, got %g", i, j, want, got)
			}
		}
	}
}

func TestConstructionIdempotent(t *testing.T) {
	a, err := New(Axis{5, 64}, Axis{5, 32}, Axis{3, 16})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(Axis{5, 64}, Axis{5, 32}, Axis{3, 16})
	if err != nil {
		t.Fatal(err)
	}

	for ax := 0; ax < 3; ax++ {
		for i := range a.Positions(ax) {
			if a.Positions(ax)[i] != b.Positions(ax)[i] {
				t.Fatalf("axis %d position %d differs", ax, i)
			}
			if a.Waves(ax)[i] != b.Waves(ax)[i] {
				t.Fatalf("axis %d wave %d differs", ax, i)
			}
		}
	}
	for i := range a.KSquared() {
		if a.KSquared()[i] != b.KSquared()[i] {
			t.Fatalf("k-squared differs at %d", i)
		}
	}
}

func TestSinglePointAxis(t *testing.T) {
	g, err := New(Axis{HalfWidth: 5, Resolution: 1})
	if err != nil {
		t.Fatal(err)
	}
	if g.Positions(0)[0] != 0 {
		t.Errorf("degenerate axis should center at origin, got %g", g.Positions(0)[0])
	}
	if g.KSquared()[0] != 0 {
		t.Errorf("degenerate axis should have zero wavevector, got %g", g.KSquared()[0])
	}
}

func TestCellVolume(t *testing.T) {
	g, err := New(Axis{5, 64}, Axis{4, 32})
	if err != nil {
		t.Fatal(err)
	}
	want := (10.0 / 64.0) * (8.0 / 32.0)
	if math.Abs(g.CellVolume()-want) > 1e-15 {
		t.Errorf("expected cell volume %g, got %g", want, g.CellVolume())
	}
}

func TestEachVisitsEveryCellOnce(t *testing.T) {
	g, err := New(Axis{1, 2}, Axis{1, 2}, Axis{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	seen := make([]bool, g.Size())
	g.Each(func(i int, r []float64) {
		if seen[i] {
			t.Fatalf("cell %d visited twice", i)
		}
		seen[i] = true
		if len(r) != 3 {
			t.Fatalf("expected 3 coordinates, got %d", len(r))
		}
	})
	for i, s := range seen {
		if !s {
			t.Fatalf("cell %d not visited", i)
		}
	}
}
