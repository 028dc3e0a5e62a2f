// Package spectral provides in-place multi-dimensional Fourier transforms
// for flat row-major meshes, built from per-axis 1-D FFT lines. Lines
// within one transform run in parallel; whole transforms are sequential.
package spectral
