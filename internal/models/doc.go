// Package models provides the right-hand sides of the demo systems.
//
// Each model implements [dynamo.System] and [dynamo.Configurable]:
//
//   - [Logistic]: du/dt = r u (1 - u/K)
//   - [Pendulum]: frictionless pendulum, g = 10 by default
//   - [Harmonic]: linear spring, du/dt = [v, -k x]
//   - [Lorenz]: butterfly attractor with sigma 10, rho 28, beta 8/3
//   - [VanDerPol]: relaxation oscillator, mu = 20 by default
//   - [Projectile]: velocity of a projectile under quadratic drag
//
// Pendulum and Harmonic also implement [dynamo.Hamiltonian].
package models
