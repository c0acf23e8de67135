// Package sim contains the initial value problem drivers.
//
//   - [Solver.SolveFixed]: constant step from t=0 to t_final, n+1 uniform samples
//   - [Solver.SolveAdaptive]: midpoint/equal_rk4 embedded pair with error-driven step size
//   - [Interpolate]: binary search plus linear interpolation on a non-uniform grid
//
// Drivers keep no state between calls and never mutate caller-owned states.
// The package-level SolveFixed and SolveAdaptive use a default Solver and a
// background context.
package sim
