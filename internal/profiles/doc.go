// Package profiles provides the pure initializer functions that produce
// initial wavefunction amplitudes and stationary potential fields over a
// grid: Gaussian packets, rectangular pulses, harmonic trap potentials,
// Thomas-Fermi profiles and symmetry-breaking noise meshes.
//
// Every initializer is deterministic given its inputs except [Noise],
// which draws from a caller-supplied, caller-seeded *rand.Rand so tests
// can substitute a fixed seed.
package profiles
