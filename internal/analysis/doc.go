// Package analysis compares and characterises solver trajectories.
//
//   - [Separation]: distance between two trajectories on a shared grid
//   - [Deviation]: how far an adaptive solution strays from a fixed-step one
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [GrowthRate]: exponential growth rate fitted to a separation series
//   - [ProjectilePath]: positions recovered from a velocity trajectory
//   - [Phase] and [PoincareSection]: 2D phase space views
//   - [PowerSpectrum] and [DominantFrequency]: spectral content of a component
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(ctx, lorenz.Derive, x0, 0.01, 50, 1e-8, integrators.ClassicRK4)
//	if err == nil && lambda > 0 {
//	    // System is chaotic
//	}
package analysis
