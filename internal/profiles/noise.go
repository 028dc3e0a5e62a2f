package profiles

import "math/rand"

// Noise fills a mesh-sized slice with independent uniform samples in
// [min, max). It is the single randomness entry point of the solver:
// callers seed the generator, so runs replay deterministically.
func Noise(rng *rand.Rand, min, max float64, n int) []float64 {
	noise := make([]float64, n)
	for i := range noise {
		noise[i] = min + (max-min)*rng.Float64()
	}
	return noise
}
