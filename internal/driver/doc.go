// Package driver orchestrates a propagation engine across timesteps: it
// owns the convergence criterion (relative change of the chemical
// potential between successive steps), collects the mu/E/t history, and
// decides what to do about numerical blow-up the engine only reports.
package driver
