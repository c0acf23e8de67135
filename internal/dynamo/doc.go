// Package dynamo provides the core primitives shared by every solver in ivplab.
//
// The package defines the fundamental types for initial value problems
// du/dt = f(t, u), u(0) = u0:
//
//   - [State]: vector of reals; a scalar problem is a length-1 state
//   - [RHS]: right-hand side function f(t, u)
//   - [System]: a model that can produce its right-hand side
//   - [Observer]: hook notified after every committed step
//
// # Example
//
//	f := dynamo.ScalarRHS(func(t, u float64) float64 { return u * (1 - u) }).RHS()
//	traj, err := sim.SolveFixed(f, dynamo.Scalar(0.5), 0.01, 10, integrators.EqualRK4)
//
// # Errors
//
// All solver failures are reported through the sentinel errors in this
// package, optionally wrapped in a [SolveError] carrying the step index,
// time and state at which the failure happened. Use errors.Is to test.
package dynamo
