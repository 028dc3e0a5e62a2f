package engine_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Scheiermann/supersolids-notes/internal/engine"
	"github.com/Scheiermann/supersolids-notes/internal/field"
	"github.com/Scheiermann/supersolids-notes/internal/grid"
	"github.com/Scheiermann/supersolids-notes/internal/profiles"
)

func harmonicEngine1D(g float64, budget int) *engine.Engine {
	gr, err := grid.New(grid.Axis{HalfWidth: 5, Resolution: 64})
	Expect(err).NotTo(HaveOccurred())

	psi, err := profiles.Gaussian(gr, profiles.DefaultGaussian(1))
	Expect(err).NotTo(HaveOccurred())

	pot, err := profiles.HarmonicTrap(gr, profiles.IsotropicScales(1))
	Expect(err).NotTo(HaveOccurred())

	eng, err := engine.New(gr, psi, pot, engine.Params{
		G:          g,
		Dt:         0.01,
		Mode:       engine.ImagTime,
		StepBudget: budget,
	})
	Expect(err).NotTo(HaveOccurred())
	return eng
}

func normIntegral(eng *engine.Engine) float64 {
	d := eng.Density(nil)
	sum := 0.0
	for _, v := range d {
		sum += v
	}
	return sum * eng.Grid().CellVolume()
}

var _ = Describe("Engine construction", func() {
	It("rejects a field that does not match the grid", func() {
		gr, err := grid.New(grid.Axis{HalfWidth: 5, Resolution: 64})
		Expect(err).NotTo(HaveOccurred())

		_, err = engine.New(gr, make(field.Mesh, 63), make([]float64, 64), engine.Params{Dt: 0.01, StepBudget: 1})
		Expect(err).To(MatchError(engine.ErrFieldShape))
	})

	It("rejects a mismatched potential", func() {
		gr, err := grid.New(grid.Axis{HalfWidth: 5, Resolution: 64})
		Expect(err).NotTo(HaveOccurred())

		_, err = engine.New(gr, make(field.Mesh, 64), make([]float64, 1), engine.Params{Dt: 0.01, StepBudget: 1})
		Expect(err).To(MatchError(engine.ErrFieldShape))
	})

	It("rejects a non-positive timestep", func() {
		gr, err := grid.New(grid.Axis{HalfWidth: 5, Resolution: 64})
		Expect(err).NotTo(HaveOccurred())

		_, err = engine.New(gr, make(field.Mesh, 64), make([]float64, 64), engine.Params{Dt: 0, StepBudget: 1})
		Expect(err).To(MatchError(engine.ErrTimestep))
	})

	It("rejects a non-positive step budget", func() {
		gr, err := grid.New(grid.Axis{HalfWidth: 5, Resolution: 64})
		Expect(err).NotTo(HaveOccurred())

		_, err = engine.New(gr, make(field.Mesh, 64), make([]float64, 64), engine.Params{Dt: 0.01, StepBudget: 0})
		Expect(err).To(MatchError(engine.ErrStepBudget))
	})
})

var _ = Describe("Imaginary-time relaxation", func() {
	It("keeps the field at unit norm after every step", func() {
		eng := harmonicEngine1D(0, 50)

		for i := 0; i < 50; i++ {
			eng.Step()
			Expect(normIntegral(eng)).To(BeNumerically("~", 1.0, 1e-10))
		}
	})

	It("relaxes the 1-D harmonic oscillator to mu = 0.5", func() {
		eng := harmonicEngine1D(0, 500)

		for !eng.Exhausted() {
			eng.Step()
		}

		Expect(eng.StepCount()).To(Equal(500))
		Expect(eng.Mu()).To(BeNumerically("~", 0.5, 1e-3))
	})

	It("keeps a real even initial field real", func() {
		eng := harmonicEngine1D(0, 20)

		for i := 0; i < 20; i++ {
			eng.Step()
		}

		Expect(eng.Psi().MaxImag()).To(BeNumerically("<", 1e-10))
	})

	It("reports E = mu when g = 0", func() {
		eng := harmonicEngine1D(0, 10)
		for i := 0; i < 10; i++ {
			eng.Step()
		}
		Expect(eng.Energy()).To(Equal(eng.Mu()))
	})

	It("lowers the energy estimate under repulsive interaction", func() {
		eng := harmonicEngine1D(10.0, 200)
		for !eng.Exhausted() {
			eng.Step()
		}
		Expect(eng.Energy()).To(BeNumerically("<", eng.Mu()))
		Expect(eng.Stats().IsFinite()).To(BeTrue())
	})
})

var _ = Describe("Step budget", func() {
	It("stops advancing once the budget is exhausted", func() {
		eng := harmonicEngine1D(0, 3)

		for i := 0; i < 7; i++ {
			eng.Step()
		}

		Expect(eng.StepCount()).To(Equal(3))
		Expect(eng.Exhausted()).To(BeTrue())
		Expect(eng.Time()).To(BeNumerically("~", 0.03, 1e-12))
	})
})

var _ = Describe("Numerical degeneracy", func() {
	It("surfaces a zero field as a non-finite diagnostic, not an error", func() {
		gr, err := grid.New(grid.Axis{HalfWidth: 5, Resolution: 64})
		Expect(err).NotTo(HaveOccurred())

		pot, err := profiles.HarmonicTrap(gr, profiles.IsotropicScales(1))
		Expect(err).NotTo(HaveOccurred())

		eng, err := engine.New(gr, make(field.Mesh, 64), pot, engine.Params{Dt: 0.01, StepBudget: 5, Mode: engine.ImagTime})
		Expect(err).NotTo(HaveOccurred())

		eng.Step()

		Expect(eng.Stats().IsFinite()).To(BeFalse())
		Expect(eng.Psi().IsFinite()).To(BeFalse())
	})
})

var _ = Describe("Snapshot round trip", func() {
	It("reproduces bit-identical stepping after restore", func() {
		a := harmonicEngine1D(5.0, 100)
		for i := 0; i < 40; i++ {
			a.Step()
		}

		b, err := engine.Restore(a.Snapshot())
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 30; i++ {
			a.Step()
			b.Step()
		}

		Expect(b.Mu()).To(Equal(a.Mu()))
		Expect(b.Energy()).To(Equal(a.Energy()))
		Expect(b.Time()).To(Equal(a.Time()))
		Expect(b.StepCount()).To(Equal(a.StepCount()))
		Expect(b.Psi()).To(Equal(a.Psi()))
	})
})

var _ = Describe("Real-time dynamics", func() {
	It("keeps the norm decay rate near zero for the free ground state", func() {
		gr, err := grid.New(grid.Axis{HalfWidth: 5, Resolution: 64})
		Expect(err).NotTo(HaveOccurred())

		psi, err := profiles.Gaussian(gr, profiles.DefaultGaussian(1))
		Expect(err).NotTo(HaveOccurred())

		pot, err := profiles.HarmonicTrap(gr, profiles.IsotropicScales(1))
		Expect(err).NotTo(HaveOccurred())

		eng, err := engine.New(gr, psi, pot, engine.Params{Dt: 0.01, Mode: engine.RealTime, StepBudget: 100})
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 100; i++ {
			eng.Step()
			// Real-time evolution is unitary, so the pre-rescale norm
			// stays at 1 and the derived mu stays near 0.
			Expect(eng.Stats().Norm).To(BeNumerically("~", 1.0, 1e-8))
			Expect(math.Abs(eng.Mu())).To(BeNumerically("<", 1e-6))
		}
	})
})

var _ = Describe("Dipolar interaction", func() {
	It("keeps the field finite and the convolution essentially real", func() {
		gr, err := grid.New(
			grid.Axis{HalfWidth: 4, Resolution: 8},
			grid.Axis{HalfWidth: 4, Resolution: 8},
			grid.Axis{HalfWidth: 4, Resolution: 8},
		)
		Expect(err).NotTo(HaveOccurred())

		psi, err := profiles.Gaussian(gr, profiles.DefaultGaussian(3))
		Expect(err).NotTo(HaveOccurred())

		pot, err := profiles.HarmonicTrap(gr, profiles.IsotropicScales(3))
		Expect(err).NotTo(HaveOccurred())

		eng, err := engine.New(gr, psi, pot, engine.Params{
			G: 1.0, GDipole: 0.5, Dt: 0.01, Mode: engine.ImagTime, StepBudget: 50,
		})
		Expect(err).NotTo(HaveOccurred())

		for !eng.Exhausted() {
			eng.Step()
		}

		Expect(eng.Psi().IsFinite()).To(BeTrue())
		Expect(eng.Stats().DipoleResidue).To(BeNumerically("<", 1e-10))
	})
})

var _ = Describe("Vortex imprinting", func() {
	It("needs at least two dimensions", func() {
		eng := harmonicEngine1D(0, 10)
		Expect(eng.ImprintVortex(0, 0, 1)).To(MatchError(engine.ErrVortexDimension))
	})

	It("leaves the density unchanged while twisting the phase", func() {
		gr, err := grid.New(
			grid.Axis{HalfWidth: 4, Resolution: 16},
			grid.Axis{HalfWidth: 4, Resolution: 16},
		)
		Expect(err).NotTo(HaveOccurred())

		psi, err := profiles.Gaussian(gr, profiles.DefaultGaussian(2))
		Expect(err).NotTo(HaveOccurred())

		pot, err := profiles.HarmonicTrap(gr, profiles.IsotropicScales(2))
		Expect(err).NotTo(HaveOccurred())

		eng, err := engine.New(gr, psi, pot, engine.Params{Dt: 0.01, StepBudget: 10})
		Expect(err).NotTo(HaveOccurred())

		before := eng.Density(nil)
		Expect(eng.ImprintVortex(0.5, -0.5, 1)).To(Succeed())
		after := eng.Density(nil)

		for i := range before {
			Expect(after[i]).To(BeNumerically("~", before[i], 1e-12))
		}
		Expect(eng.Psi().MaxImag()).To(BeNumerically(">", 0))
	})
})
