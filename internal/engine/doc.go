// Package engine implements the split-operator propagation core for the
// time-dependent non-linear Schrödinger equation (Gross-Pitaevskii type,
// with optional dipole-dipole interaction).
//
// One [Engine.Step] applies the symmetrized splitting
//
//	psi <- H_pot(dt/2) F^-1 H_kin(dt) F H_pot(dt/2) psi
//
// where H_kin = exp(U k²/2 dt) is static in momentum space and H_pot is
// recomputed each half-step from the current field because the
// nonlinearity g|psi|² depends on it. U = -1 selects imaginary-time
// relaxation, U = -i real-time dynamics; nothing else distinguishes the
// two modes.
//
// After every step the field is rescaled to unit p=2 norm and the
// diagnostics are refreshed:
//
//	mu = -ln(norm2) / (2 dt)
//	E  = mu - g/2 * norm4
//
// The engine never errors at runtime. Numerical blow-up surfaces as a
// non-finite [Stats.Norm]; deciding to abort is the driver's job. The
// only terminal condition is exhausting the configured step budget.
//
// # State machine
//
//	Constructed -> Stepping (repeatable) -> StepBudgetExhausted
//
// Engines are not reentrant: a step mutates the field in place, and the
// next H_pot depends on the fully updated field, so steps never overlap
// or pipeline. Cancellation granularity is between steps only.
package engine
