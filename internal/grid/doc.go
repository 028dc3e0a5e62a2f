// Package grid builds the real-space coordinate axes and the matching
// wavevector axes for 1, 2 or 3 spatial dimensions.
//
// Each axis samples [-L, L) at a power-of-two resolution R with spacing
// dx = 2L/R. The conjugate wavevector axis has spacing dk = pi/L and
// follows the standard DFT frequency ordering (non-negative frequencies
// ascending, then negative frequencies ascending), so position-space
// fields transform without any reshuffling.
//
// The derived squared-wavevector field, [Grid.KSquared], is the sum over
// axes of each wavevector sample squared, broadcast to the full grid
// shape. The kinetic propagator is built directly from it.
//
// Grids are immutable after construction; two grids constructed from the
// same parameters carry bitwise-identical axis and k-squared arrays.
package grid
